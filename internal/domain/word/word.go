// Package word holds the vocabulary entries a quiz is built from.
package word

import "github.com/glossa-trainer/backend/internal/norm"

// Pair is a single vocabulary entry: a source-language word, its
// target-language translation, and the lesson it belongs to. Lessons are
// decimal identifiers kept as strings ("7", "7.1"). Pairs are immutable
// once loaded into a session.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Lesson string `json:"lesson"`
}

// Key returns the canonical identity of the pair: both sides normalized
// with full strictness, so entries differing only in case, punctuation,
// or spacing collide to the same key.
func (p Pair) Key() string {
	return norm.Normalize(p.Source, norm.Full) + "|" + norm.Normalize(p.Target, norm.Full)
}
