package quiz_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/domain/word"
	"github.com/glossa-trainer/backend/internal/grader"
)

func makePairs(n int) []word.Pair {
	pairs := make([]word.Pair, n)
	for i := range pairs {
		pairs[i] = word.Pair{
			Source: fmt.Sprintf("λέξις-%d", i),
			Target: fmt.Sprintf("дума-%d", i),
			Lesson: "1",
		}
	}
	return pairs
}

func TestNewSession_ShufflesPairs(t *testing.T) {
	pairs := makePairs(20)

	// Create multiple sessions and check that at least one has a different
	// order (statistically almost certain with 20 pairs).
	first := quiz.NewSession(quiz.Forward, pairs, 30*time.Second, true)

	foundDifferentOrder := false
	for i := 0; i < 10; i++ {
		s := quiz.NewSession(quiz.Forward, pairs, 30*time.Second, true)
		if !sameOrder(first.Pairs, s.Pairs) {
			foundDifferentOrder = true
			break
		}
	}

	if !foundDifferentOrder {
		t.Error("expected pairs to be shuffled across sessions")
	}
}

func TestNewSession_PreservesOrderWhenRequested(t *testing.T) {
	pairs := makePairs(10)
	s := quiz.NewSession(quiz.Forward, pairs, 30*time.Second, false)

	if !sameOrder(pairs, s.Pairs) {
		t.Error("expected pair order to be preserved")
	}
}

func TestNewSession_DistinctIDs(t *testing.T) {
	pairs := makePairs(3)
	a := quiz.NewSession(quiz.Forward, pairs, 30*time.Second, true)
	b := quiz.NewSession(quiz.Forward, pairs, 30*time.Second, true)

	if a.ID == b.ID {
		t.Error("expected distinct session IDs")
	}
}

func TestQuestion_Direction(t *testing.T) {
	pairs := []word.Pair{{Source: "λόγος", Target: "дума", Lesson: "1"}}

	forward := quiz.NewSession(quiz.Forward, pairs, 30*time.Second, false)
	q, err := forward.Question(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Prompt != "λόγος" || q.Side != quiz.SideSource {
		t.Errorf("forward question = %+v, want source prompt", q)
	}
	if ans, _ := forward.CorrectAnswer(0); ans != "дума" {
		t.Errorf("forward answer = %q, want %q", ans, "дума")
	}

	reverse := quiz.NewSession(quiz.Reverse, pairs, 30*time.Second, false)
	q, _ = reverse.Question(0)
	if q.Prompt != "дума" || q.Side != quiz.SideTarget {
		t.Errorf("reverse question = %+v, want target prompt", q)
	}
	if ans, _ := reverse.CorrectAnswer(0); ans != "λόγος" {
		t.Errorf("reverse answer = %q, want %q", ans, "λόγος")
	}
}

func TestQuestion_OutOfRange(t *testing.T) {
	s := quiz.NewSession(quiz.Forward, makePairs(2), 30*time.Second, false)

	if _, err := s.Question(2); err == nil {
		t.Error("expected error for index past the pair list")
	}
	if _, err := s.Question(-1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestSummarize_ScorePercentage(t *testing.T) {
	s := quiz.NewSession(quiz.Forward, makePairs(10), 30*time.Second, false)

	// 8 full + 2 partial out of 10 → round((8 + 1.0) / 10 * 100) = 90.
	for i := 0; i < 10; i++ {
		verdict := grader.Full
		if i >= 8 {
			verdict = grader.Partial
		}
		correct, _ := s.CorrectAnswer(i)
		s.Answers = append(s.Answers, quiz.AnswerResult{
			QuestionIndex: i,
			UserAnswer:    correct,
			CorrectAnswer: correct,
			Verdict:       verdict,
		})
	}

	sum, ok := s.Summarize()
	if !ok {
		t.Fatal("expected summary for completed session")
	}
	if sum.ScorePercentage != 90 {
		t.Errorf("score = %d, want 90", sum.ScorePercentage)
	}
	if sum.CorrectCount != 8 {
		t.Errorf("correct count = %d, want 8", sum.CorrectCount)
	}
	if len(sum.PartialCreditWords) != 2 {
		t.Errorf("partial words = %d, want 2", len(sum.PartialCreditWords))
	}
	if len(sum.MasteredPairs) != 8 {
		t.Errorf("mastered pairs = %d, want 8", len(sum.MasteredPairs))
	}
}

func TestSummarize_Incomplete(t *testing.T) {
	s := quiz.NewSession(quiz.Forward, makePairs(3), 30*time.Second, false)
	s.Answers = append(s.Answers, quiz.AnswerResult{QuestionIndex: 0, Verdict: grader.Full})

	if _, ok := s.Summarize(); ok {
		t.Error("expected no summary while answers are outstanding")
	}
}

func sameOrder(a, b []word.Pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
