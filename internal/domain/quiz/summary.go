package quiz

import (
	"math"

	"github.com/glossa-trainer/backend/internal/domain/word"
	"github.com/glossa-trainer/backend/internal/grader"
)

// WordReview is one word shown in the summary's incorrect/partial lists.
type WordReview struct {
	Prompt        string `json:"prompt"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

// Summary is the outcome of a completed session. A partial-credit answer
// counts half a point toward the percentage but not toward CorrectCount.
type Summary struct {
	SessionID          string       `json:"session_id"`
	TotalQuestions     int          `json:"total_questions"`
	CorrectCount       int          `json:"correct_count"`
	ScorePercentage    int          `json:"score_percentage"`
	IncorrectWords     []WordReview `json:"incorrect_words"`
	PartialCreditWords []WordReview `json:"partial_credit_words"`

	// MasteredPairs are the pairs answered with full credit; the caller
	// records these in the mastery ledger.
	MasteredPairs []word.Pair `json:"-"`
}

// Summarize derives the summary of a completed session. The second return
// is false while answers are still outstanding.
func (s *Session) Summarize() (Summary, bool) {
	if !s.Complete() {
		return Summary{}, false
	}

	sum := Summary{
		SessionID:          s.ID,
		TotalQuestions:     len(s.Pairs),
		IncorrectWords:     []WordReview{},
		PartialCreditWords: []WordReview{},
	}

	partialCount := 0
	for i, ans := range s.Answers {
		q, _ := s.Question(i)
		review := WordReview{
			Prompt:        q.Prompt,
			CorrectAnswer: ans.CorrectAnswer,
			UserAnswer:    ans.UserAnswer,
		}
		switch ans.Verdict {
		case grader.Full:
			sum.CorrectCount++
			sum.MasteredPairs = append(sum.MasteredPairs, s.Pairs[i])
		case grader.Partial:
			partialCount++
			sum.PartialCreditWords = append(sum.PartialCreditWords, review)
		default:
			sum.IncorrectWords = append(sum.IncorrectWords, review)
		}
	}

	if sum.TotalQuestions > 0 {
		score := float64(sum.CorrectCount) + 0.5*float64(partialCount)
		sum.ScorePercentage = int(math.Round(score / float64(sum.TotalQuestions) * 100))
	}
	return sum, true
}
