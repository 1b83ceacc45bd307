package grader

// Verdict is the outcome of grading a single answer.
type Verdict int

const (
	None    Verdict = iota // no credit
	Partial                // correct except for diacritic marks
	Full                   // exact match
)

func (v Verdict) String() string {
	switch v {
	case Full:
		return "full"
	case Partial:
		return "partial"
	default:
		return "none"
	}
}

// Grader grades a user's answer against the expected answer.
// Implementations must be total: any pair of strings yields a verdict.
type Grader interface {
	Grade(correctAnswer, userAnswer string) Verdict
}
