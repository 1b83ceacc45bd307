// Package wordpool loads the vocabulary file and selects the word pools
// new quizzes are built from.
package wordpool

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"

	"github.com/glossa-trainer/backend/internal/domain/word"
)

// MaxQuizWords caps the number of words in a single quiz regardless of
// the requested count.
const MaxQuizWords = 50

// DefaultQuizWords is used when the caller does not ask for a count.
const DefaultQuizWords = 15

// ErrEmptySelection is returned when no lessons are selected or the
// selection has no words left after mastery exclusion. It is surfaced
// before any session is created.
var ErrEmptySelection = errors.New("no words available for selection")

// Pool is the full vocabulary loaded from disk.
type Pool struct {
	pairs []word.Pair
}

// Load reads the word list JSON: an array of {source, target, lesson}.
func Load(path string) (*Pool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wordpool: read %s: %w", path, err)
	}

	var pairs []word.Pair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("wordpool: parse %s: %w", path, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("wordpool: %s contains no word pairs", path)
	}

	return &Pool{pairs: pairs}, nil
}

// Total is the number of pairs in the pool.
func (p *Pool) Total() int {
	return len(p.pairs)
}

// Lessons returns the distinct lessons present in the pool, in numeric
// order ("2" before "10", "7.1" after "7").
func (p *Pool) Lessons() []string {
	seen := make(map[string]bool)
	var lessons []string
	for _, pair := range p.pairs {
		if !seen[pair.Lesson] {
			seen[pair.Lesson] = true
			lessons = append(lessons, pair.Lesson)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessonLess(lessons[i], lessons[j]) })
	return lessons
}

// TotalsPerLesson maps each lesson to its word count.
func (p *Pool) TotalsPerLesson() map[string]int {
	totals := make(map[string]int)
	for _, pair := range p.pairs {
		totals[pair.Lesson]++
	}
	return totals
}

// ByLessons returns the pairs belonging to the given lessons, in pool
// order. No lessons selected means an empty result.
func (p *Pool) ByLessons(lessons []string) []word.Pair {
	wanted := make(map[string]bool, len(lessons))
	for _, lesson := range lessons {
		wanted[lesson] = true
	}

	var pairs []word.Pair
	for _, pair := range p.pairs {
		if wanted[pair.Lesson] {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}

// Sample draws count pairs at random without replacement. useAll asks for
// the whole input; either way the result never exceeds MaxQuizWords.
func Sample(pairs []word.Pair, count int, useAll bool) []word.Pair {
	n := count
	if useAll || n <= 0 {
		n = len(pairs)
	}
	if n > len(pairs) {
		n = len(pairs)
	}
	if n > MaxQuizWords {
		n = MaxQuizWords
	}

	shuffled := make([]word.Pair, len(pairs))
	copy(shuffled, pairs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:n]
}

func lessonLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	return a < b
}
