package grader

import (
	"strings"

	"github.com/glossa-trainer/backend/internal/norm"
)

// Matcher grades answers by normalized string comparison. A correct answer
// may list comma-separated alternatives; a comma inside a (...) group does
// not split, so "вещ, ценност (в мн. ч. пари)" keeps its parenthesized part
// attached to the second alternative.
type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Grade compares the user's answer against the correct answer and every
// comma-separated alternative of it. An exact (full-strictness) match wins
// regardless of alternative order; if only a diacritic-relaxed comparison
// matches, the verdict is Partial. Empty or whitespace-only input is None.
func (m *Matcher) Grade(correctAnswer, userAnswer string) Verdict {
	if strings.TrimSpace(userAnswer) == "" {
		return None
	}

	alternatives := SplitAlternatives(correctAnswer)

	user := norm.Normalize(userAnswer, norm.Full)
	if norm.Normalize(correctAnswer, norm.Full) == user {
		return Full
	}
	for _, alt := range alternatives {
		if norm.Normalize(alt, norm.Full) == user {
			return Full
		}
	}

	relaxedUser := norm.Normalize(userAnswer, norm.Relaxed)
	if norm.Normalize(correctAnswer, norm.Relaxed) == relaxedUser {
		return Partial
	}
	for _, alt := range alternatives {
		if norm.Normalize(alt, norm.Relaxed) == relaxedUser {
			return Partial
		}
	}

	return None
}

// SplitAlternatives splits a correct answer on commas that are not nested
// inside parentheses. Unbalanced parentheses degrade gracefully: the whole
// string is treated as a single alternative.
func SplitAlternatives(answer string) []string {
	var alternatives []string
	depth := 0
	start := 0

	for i, r := range answer {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return []string{strings.TrimSpace(answer)}
			}
		case ',':
			if depth == 0 {
				alternatives = append(alternatives, answer[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return []string{strings.TrimSpace(answer)}
	}

	alternatives = append(alternatives, answer[start:])
	for i := range alternatives {
		alternatives[i] = strings.TrimSpace(alternatives[i])
	}
	return alternatives
}
