// Package quiz holds the session entity: an ordered run of word pairs in
// one direction, with answers accumulated strictly in question order.
package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/glossa-trainer/backend/internal/domain/word"
	"github.com/glossa-trainer/backend/internal/grader"
)

// Direction selects which side of a word pair is the prompt.
type Direction string

const (
	// Forward shows the source word and expects the target translation.
	Forward Direction = "forward"
	// Reverse shows the target word and expects the source.
	Reverse Direction = "reverse"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Forward, Reverse:
		return Direction(s), nil
	}
	return "", fmt.Errorf("invalid direction %q", s)
}

// Sides a prompt can come from, see Question.Side.
const (
	SideSource = "source"
	SideTarget = "target"
)

// Question is what gets shown to the user for one word.
type Question struct {
	Index  int
	Prompt string
	// Side identifies which half of the pair the prompt comes from,
	// SideSource or SideTarget.
	Side string
}

// AnswerResult records the graded outcome of one question.
type AnswerResult struct {
	QuestionIndex int
	UserAnswer    string
	CorrectAnswer string
	Verdict       grader.Verdict
	TimedOut      bool
}

// Session is one quiz attempt over a fixed, ordered list of word pairs.
// Answers grow strictly by index order and never exceed the pair count.
type Session struct {
	ID              string
	Direction       Direction
	Pairs           []word.Pair
	TimePerQuestion time.Duration
	Answers         []AnswerResult
	CreatedAt       time.Time
}

// ErrOutOfRange is returned for a question index past the pair list.
var ErrOutOfRange = errors.New("question index out of range")

// NewSession creates a session over the given pairs. The order is fixed at
// creation: shuffled once, or preserved as given when the caller reuses a
// prior ordering.
func NewSession(direction Direction, pairs []word.Pair, timePerQuestion time.Duration, shuffle bool) *Session {
	ordered := make([]word.Pair, len(pairs))
	copy(ordered, pairs)
	if shuffle {
		rand.Shuffle(len(ordered), func(i, j int) {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		})
	}

	return &Session{
		ID:              uuid.NewString(),
		Direction:       direction,
		Pairs:           ordered,
		TimePerQuestion: timePerQuestion,
		Answers:         make([]AnswerResult, 0, len(ordered)),
		CreatedAt:       time.Now(),
	}
}

// Question returns the prompt for the question at index.
func (s *Session) Question(index int) (Question, error) {
	if index < 0 || index >= len(s.Pairs) {
		return Question{}, ErrOutOfRange
	}
	pair := s.Pairs[index]
	if s.Direction == Forward {
		return Question{Index: index, Prompt: pair.Source, Side: SideSource}, nil
	}
	return Question{Index: index, Prompt: pair.Target, Side: SideTarget}, nil
}

// CorrectAnswer returns the expected answer for the question at index.
func (s *Session) CorrectAnswer(index int) (string, error) {
	if index < 0 || index >= len(s.Pairs) {
		return "", ErrOutOfRange
	}
	if s.Direction == Forward {
		return s.Pairs[index].Target, nil
	}
	return s.Pairs[index].Source, nil
}

// Complete reports whether every question has a recorded answer.
func (s *Session) Complete() bool {
	return len(s.Answers) == len(s.Pairs)
}
