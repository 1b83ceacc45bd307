// Package timer provides the cancellable per-question countdown.
package timer

import (
	"sync/atomic"
	"time"
)

const (
	stateActive int32 = iota
	stateCancelled
	stateExpired
)

// Countdown counts a question's time budget down on a wall-clock schedule.
// onTick fires once per elapsed second with the remaining whole seconds;
// onExpire fires exactly once when the budget runs out, after which the
// countdown is inactive. Cancel is idempotent and a no-op once inactive.
type Countdown struct {
	stop  chan struct{}
	state atomic.Int32
}

// Start begins a countdown of d. Either callback may be nil.
func Start(d time.Duration, onTick func(remaining int), onExpire func()) *Countdown {
	return start(d, time.Second, onTick, onExpire)
}

func start(d, interval time.Duration, onTick func(int), onExpire func()) *Countdown {
	c := &Countdown{stop: make(chan struct{})}
	go c.run(d, interval, onTick, onExpire)
	return c
}

func (c *Countdown) run(d, interval time.Duration, onTick func(int), onExpire func()) {
	// A sub-interval remainder elapses first so expiry lands at d exactly.
	if rem := d % interval; rem > 0 {
		select {
		case <-c.stop:
			return
		case <-time.After(rem):
		}
	}

	if ticks := int(d / interval); ticks > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for remaining := ticks - 1; ; remaining-- {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
			}
			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				break
			}
		}
	}

	if c.state.CompareAndSwap(stateActive, stateExpired) && onExpire != nil {
		onExpire()
	}
}

// Cancel stops the countdown. It never races a cancelled countdown into
// expiry: once Cancel wins, onExpire can no longer fire.
func (c *Countdown) Cancel() {
	if c.state.CompareAndSwap(stateActive, stateCancelled) {
		close(c.stop)
	}
}

// Expired reports whether the countdown ran out (as opposed to being
// cancelled or still running).
func (c *Countdown) Expired() bool {
	return c.state.Load() == stateExpired
}
