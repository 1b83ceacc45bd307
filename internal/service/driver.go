// Package service drives a quiz attempt through its phases: an optional
// training pass over the word pool, then a timed exam, then the summary.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/domain/word"
	"github.com/glossa-trainer/backend/internal/mastery"
	"github.com/glossa-trainer/backend/internal/store"
	"github.com/glossa-trainer/backend/internal/timer"
	"github.com/glossa-trainer/backend/internal/wordpool"
)

// Phase is the attempt's position in the state machine. Every transition
// is caller-initiated; the only background event is a question timeout,
// which records an empty timed-out answer for the current question.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseTraining Phase = "training"
	PhaseExam     Phase = "exam"
	PhaseSummary  Phase = "summary"
)

// Mode selects whether an attempt opens with a training pass.
type Mode string

const (
	ModeTraining Mode = "training"
	ModeExam     Mode = "exam"
)

var (
	// ErrWrongPhase is returned when an operation does not apply to the
	// attempt's current phase, e.g. requesting a training answer during
	// the exam.
	ErrWrongPhase = errors.New("operation not valid in current phase")

	// ErrRetakeNotAllowed is returned when a retake is requested for an
	// attempt that had no training phase or scored 100%.
	ErrRetakeNotAllowed = errors.New("retake not allowed")
)

// StartOptions configures a new attempt.
type StartOptions struct {
	Mode            Mode
	Direction       quiz.Direction
	Lessons         []string
	Count           int
	UseAllWords     bool
	TimePerQuestion time.Duration // zero means the driver default

	// ReusePairs bypasses pool selection and mastery exclusion, reusing
	// a word pool from a prior session (reshuffled).
	ReusePairs []word.Pair
}

// View is a snapshot of an attempt for the caller.
type View struct {
	AttemptID        string
	SessionID        string
	Phase            Phase
	Direction        quiz.Direction
	Index            int
	Total            int
	Prompt           string
	PromptSide       string
	RemainingSeconds int
	TimePerQuestion  int
	Pairs            []word.Pair
}

// TrainingCard is a training-phase question together with its answer.
type TrainingCard struct {
	Question      quiz.Question
	CorrectAnswer string
}

// SubmitResult is a graded answer plus the attempt's running score.
type SubmitResult struct {
	Result        quiz.AnswerResult
	RunningScore  float64
	TotalAnswered int
}

type attempt struct {
	id        string
	direction quiz.Direction
	timePerQ  time.Duration

	mu          sync.Mutex
	phase       Phase
	sessionID   string
	index       int
	pairs       []word.Pair
	hadTraining bool
	lastScore   int
	countdown   *timer.Countdown
	remaining   atomic.Int32
}

// Driver walks attempts through the phase state machine. One question is
// in flight per attempt at a time, guarded by the attempt's lock; separate
// attempts never share state.
type Driver struct {
	sessions    *store.SessionStore
	ledger      *mastery.Ledger
	pool        *wordpool.Pool
	logger      *slog.Logger
	defaultTime time.Duration

	mu       sync.RWMutex
	attempts map[string]*attempt
}

func NewDriver(sessions *store.SessionStore, ledger *mastery.Ledger, pool *wordpool.Pool, logger *slog.Logger, defaultTime time.Duration) *Driver {
	return &Driver{
		sessions:    sessions,
		ledger:      ledger,
		pool:        pool,
		logger:      logger,
		defaultTime: defaultTime,
		attempts:    make(map[string]*attempt),
	}
}

// Start creates an attempt: selects the word pool (lesson filter, mastery
// exclusion, random sample with the hard cap), creates the first session,
// and enters training or exam depending on the mode. An empty selection is
// rejected here, before any session exists.
func (d *Driver) Start(ctx context.Context, opts StartOptions) (View, error) {
	pairs, err := d.selectPairs(ctx, opts)
	if err != nil {
		return View{}, err
	}

	timePerQ := opts.TimePerQuestion
	if timePerQ <= 0 {
		timePerQ = d.defaultTime
	}

	session := d.sessions.Create(opts.Direction, pairs, timePerQ, true)

	a := &attempt{
		id:        uuid.NewString(),
		direction: opts.Direction,
		timePerQ:  timePerQ,
		phase:     PhaseTraining,
		sessionID: session.ID,
		pairs:     session.Pairs,
	}
	if opts.Mode != ModeTraining {
		a.phase = PhaseExam
	}

	d.mu.Lock()
	d.attempts[a.id] = a
	d.mu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase == PhaseExam {
		d.startCountdownLocked(a)
	}
	return d.viewLocked(a), nil
}

func (d *Driver) selectPairs(ctx context.Context, opts StartOptions) ([]word.Pair, error) {
	if len(opts.ReusePairs) > 0 {
		return opts.ReusePairs, nil
	}

	pairs := d.pool.ByLessons(opts.Lessons)
	if len(pairs) == 0 {
		return nil, wordpool.ErrEmptySelection
	}

	pairs, err := d.ledger.ExcludeMastered(ctx, opts.Direction, pairs)
	if err != nil {
		return nil, err
	}
	if len(pairs) == 0 {
		return nil, wordpool.ErrEmptySelection
	}

	return wordpool.Sample(pairs, opts.Count, opts.UseAllWords), nil
}

// Status returns the attempt's current snapshot.
func (d *Driver) Status(attemptID string) (View, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return d.viewLocked(a), nil
}

// TrainingAnswer returns the question at index together with its literal
// correct answer. Only valid during training: the exam must grade, never
// reveal.
func (d *Driver) TrainingAnswer(attemptID string, index int) (TrainingCard, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return TrainingCard{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseTraining {
		return TrainingCard{}, ErrWrongPhase
	}

	q, err := d.sessions.Question(a.sessionID, index)
	if err != nil {
		return TrainingCard{}, err
	}
	answer, err := d.sessions.TrainingAnswer(a.sessionID, index)
	if err != nil {
		return TrainingCard{}, err
	}
	return TrainingCard{Question: q, CorrectAnswer: answer}, nil
}

// Next advances the training phase. Stepping past the last word completes
// training and enters the exam.
func (d *Driver) Next(attemptID string) (View, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseTraining {
		return View{}, ErrWrongPhase
	}

	a.index++
	if a.index >= len(a.pairs) {
		d.beginExamLocked(a)
	}
	return d.viewLocked(a), nil
}

// BeginExam skips the rest of the training phase and starts the exam.
func (d *Driver) BeginExam(attemptID string) (View, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseTraining {
		return View{}, ErrWrongPhase
	}

	d.beginExamLocked(a)
	return d.viewLocked(a), nil
}

// beginExamLocked replaces the training session with a fresh exam session
// over the same word pool, reshuffled. The two sessions share data, never
// identity.
func (d *Driver) beginExamLocked(a *attempt) {
	d.sessions.Delete(a.sessionID)

	exam := d.sessions.Create(a.direction, a.pairs, a.timePerQ, true)
	a.hadTraining = true
	a.phase = PhaseExam
	a.sessionID = exam.ID
	a.index = 0
	d.startCountdownLocked(a)
}

// Submit grades the answer for the current exam question and advances. A
// timed-out flag marks deliberate timeouts; an intentionally empty answer
// without the flag is graded (to None) like any other.
func (d *Driver) Submit(attemptID string, index int, answer string, timedOut bool) (SubmitResult, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return SubmitResult{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseExam {
		return SubmitResult{}, ErrWrongPhase
	}

	result, err := d.sessions.Submit(a.sessionID, index, answer, timedOut)
	if err != nil {
		return SubmitResult{}, err
	}

	if a.countdown != nil {
		a.countdown.Cancel()
	}

	points, answered, err := d.sessions.Score(a.sessionID)
	if err != nil {
		return SubmitResult{}, err
	}

	d.advanceLocked(a)
	return SubmitResult{Result: result, RunningScore: points, TotalAnswered: answered}, nil
}

// advanceLocked moves to the next exam question, or to the summary phase
// after the last answer.
func (d *Driver) advanceLocked(a *attempt) {
	a.index++
	if a.index >= len(a.pairs) {
		a.phase = PhaseSummary
		a.remaining.Store(0)
		return
	}
	d.startCountdownLocked(a)
}

// startCountdownLocked arms the countdown for the current question,
// displacing any previous one.
func (d *Driver) startCountdownLocked(a *attempt) {
	if a.countdown != nil {
		a.countdown.Cancel()
	}
	a.remaining.Store(int32(a.timePerQ / time.Second))

	attemptID, sessionID, index := a.id, a.sessionID, a.index
	a.countdown = timer.Start(a.timePerQ,
		func(remaining int) { a.remaining.Store(int32(remaining)) },
		func() { d.expire(attemptID, sessionID, index) },
	)
}

// expire records an empty timed-out answer for the question whose budget
// ran out. A manual submission that won the race makes this a no-op: the
// store's sequential-index check rejects the stale write.
func (d *Driver) expire(attemptID, sessionID string, index int) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseExam || a.sessionID != sessionID || a.index != index {
		return
	}

	if _, err := d.sessions.Submit(sessionID, index, "", true); err != nil {
		if !errors.Is(err, store.ErrInvalidIndex) && !errors.Is(err, store.ErrNotFound) {
			d.logger.Error("failed to record timeout", "session_id", sessionID, "question_index", index, "error", err)
		}
		return
	}

	d.logger.Info("question timed out", "session_id", sessionID, "question_index", index)
	d.advanceLocked(a)
}

// Summary returns the completed exam's summary, records mastery for the
// full-credit words, and discards the session. ErrIncomplete surfaces
// while answers are outstanding.
func (d *Driver) Summary(ctx context.Context, attemptID string) (quiz.Summary, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return quiz.Summary{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseExam && a.phase != PhaseSummary {
		return quiz.Summary{}, ErrWrongPhase
	}

	sum, err := d.sessions.Summary(a.sessionID)
	if err != nil {
		return quiz.Summary{}, err
	}

	for _, p := range sum.MasteredPairs {
		if err := d.ledger.Record(ctx, a.direction, p); err != nil {
			d.logger.Error("failed to record mastery", "lesson", p.Lesson, "error", err)
		}
	}

	d.sessions.Delete(a.sessionID)
	a.phase = PhaseSummary
	a.lastScore = sum.ScorePercentage
	return sum, nil
}

// Retake starts a fresh exam over the identical word pool, reshuffled.
// Allowed only after a summary, for attempts that had a training phase and
// scored below 100%.
func (d *Driver) Retake(attemptID string) (View, error) {
	a, err := d.attempt(attemptID)
	if err != nil {
		return View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.phase != PhaseSummary {
		return View{}, ErrWrongPhase
	}
	if !a.hadTraining || a.lastScore >= 100 {
		return View{}, ErrRetakeNotAllowed
	}

	exam := d.sessions.Create(a.direction, a.pairs, a.timePerQ, true)
	a.phase = PhaseExam
	a.sessionID = exam.ID
	a.index = 0
	d.startCountdownLocked(a)
	return d.viewLocked(a), nil
}

// Restart returns the attempt to setup, cancelling any countdown and
// discarding its session.
func (d *Driver) Restart(attemptID string) error {
	a, err := d.attempt(attemptID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	d.discardLocked(a)
	a.phase = PhaseSetup
	return nil
}

// Delete removes the attempt entirely.
func (d *Driver) Delete(attemptID string) error {
	a, err := d.attempt(attemptID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	d.discardLocked(a)
	a.mu.Unlock()

	d.mu.Lock()
	delete(d.attempts, attemptID)
	d.mu.Unlock()
	return nil
}

func (d *Driver) discardLocked(a *attempt) {
	if a.countdown != nil {
		a.countdown.Cancel()
		a.countdown = nil
	}
	if a.sessionID != "" {
		d.sessions.Delete(a.sessionID)
		a.sessionID = ""
	}
	a.index = 0
	a.remaining.Store(0)
}

func (d *Driver) attempt(id string) (*attempt, error) {
	d.mu.RLock()
	a, ok := d.attempts[id]
	d.mu.RUnlock()
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (d *Driver) viewLocked(a *attempt) View {
	v := View{
		AttemptID:        a.id,
		SessionID:        a.sessionID,
		Phase:            a.phase,
		Direction:        a.direction,
		Index:            a.index,
		Total:            len(a.pairs),
		RemainingSeconds: int(a.remaining.Load()),
		TimePerQuestion:  int(a.timePerQ / time.Second),
		Pairs:            a.pairs,
	}
	if (a.phase == PhaseTraining || a.phase == PhaseExam) && a.index < len(a.pairs) {
		if q, err := d.sessions.Question(a.sessionID, a.index); err == nil {
			v.Prompt = q.Prompt
			v.PromptSide = q.Side
		}
	}
	return v
}
