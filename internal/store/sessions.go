// Package store holds the active quiz sessions. Sessions live only in
// memory: the engine keeps no history beyond the current attempt, and a
// session is discarded once its summary has been read.
package store

import (
	"sync"
	"time"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/domain/word"
	"github.com/glossa-trainer/backend/internal/grader"
)

// SessionStore is a concurrency-safe keyed store of active sessions.
// Each entry carries its own lock so the submit index check and append
// are atomic per session while independent sessions never contend.
type SessionStore struct {
	grader grader.Grader

	mu       sync.RWMutex
	sessions map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session *quiz.Session
}

func NewSessionStore(g grader.Grader) *SessionStore {
	return &SessionStore{
		grader:   g,
		sessions: make(map[string]*entry),
	}
}

// Create builds a session over the given pairs and registers it. The pair
// order is fixed here: shuffled once, or preserved when the caller reuses
// a prior ordering (a retake of the same pool).
func (st *SessionStore) Create(direction quiz.Direction, pairs []word.Pair, timePerQuestion time.Duration, shuffle bool) *quiz.Session {
	s := quiz.NewSession(direction, pairs, timePerQuestion, shuffle)

	st.mu.Lock()
	st.sessions[s.ID] = &entry{session: s}
	st.mu.Unlock()

	return s
}

func (st *SessionStore) get(id string) (*entry, error) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// Question returns the prompt for the question at index.
func (st *SessionStore) Question(id string, index int) (quiz.Question, error) {
	e, err := st.get(id)
	if err != nil {
		return quiz.Question{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	q, err := e.session.Question(index)
	if err != nil {
		return quiz.Question{}, ErrNotFound
	}
	return q, nil
}

// TrainingAnswer returns the literal correct answer for the question at
// index. This is the only accessor that exposes the answer; it exists for
// the training phase, where the word is shown rather than graded.
func (st *SessionStore) TrainingAnswer(id string, index int) (string, error) {
	e, err := st.get(id)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	answer, err := e.session.CorrectAnswer(index)
	if err != nil {
		return "", ErrNotFound
	}
	return answer, nil
}

// Submit grades and records the answer for the question at index. The
// index must equal the count of already recorded answers; anything else is
// ErrInvalidIndex and leaves the session unchanged. A timed-out submission
// is recorded without grading: the timeout flag comes from the caller, it
// is never inferred from an empty answer.
func (st *SessionStore) Submit(id string, index int, userAnswer string, timedOut bool) (quiz.AnswerResult, error) {
	e, err := st.get(id)
	if err != nil {
		return quiz.AnswerResult{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.session
	if index < 0 || index >= len(s.Pairs) {
		return quiz.AnswerResult{}, ErrNotFound
	}
	if index != len(s.Answers) {
		return quiz.AnswerResult{}, ErrInvalidIndex
	}

	correct, err := s.CorrectAnswer(index)
	if err != nil {
		return quiz.AnswerResult{}, ErrNotFound
	}

	verdict := grader.None
	if !timedOut {
		verdict = st.grader.Grade(correct, userAnswer)
	}

	result := quiz.AnswerResult{
		QuestionIndex: index,
		UserAnswer:    userAnswer,
		CorrectAnswer: correct,
		Verdict:       verdict,
		TimedOut:      timedOut,
	}
	s.Answers = append(s.Answers, result)
	return result, nil
}

// Progress reports how many answers have been recorded and the question
// total.
func (st *SessionStore) Progress(id string) (answered, total int, err error) {
	e, err := st.get(id)
	if err != nil {
		return 0, 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.session.Answers), len(e.session.Pairs), nil
}

// Score reports the running point total (full = 1, partial = 0.5) and the
// number of recorded answers.
func (st *SessionStore) Score(id string) (points float64, answered int, err error) {
	e, err := st.get(id)
	if err != nil {
		return 0, 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ans := range e.session.Answers {
		switch ans.Verdict {
		case grader.Full:
			points++
		case grader.Partial:
			points += 0.5
		}
	}
	return points, len(e.session.Answers), nil
}

// Pairs returns a copy of the session's word pairs in their fixed order.
func (st *SessionStore) Pairs(id string) ([]word.Pair, error) {
	e, err := st.get(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	pairs := make([]word.Pair, len(e.session.Pairs))
	copy(pairs, e.session.Pairs)
	return pairs, nil
}

// Summary derives the summary of a completed session. ErrIncomplete is
// returned while answers are still outstanding.
func (st *SessionStore) Summary(id string) (quiz.Summary, error) {
	e, err := st.get(id)
	if err != nil {
		return quiz.Summary{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	sum, ok := e.session.Summarize()
	if !ok {
		return quiz.Summary{}, ErrIncomplete
	}
	return sum, nil
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
