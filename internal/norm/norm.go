// Package norm canonicalizes answer text so that superficially different
// inputs (case, spacing, punctuation) compare equal.
package norm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	unorm "golang.org/x/text/unicode/norm"
)

// Strictness selects how aggressively Normalize canonicalizes input.
type Strictness int

const (
	// Full lowercases, strips punctuation, and collapses whitespace while
	// keeping diacritic marks intact.
	Full Strictness = iota
	// Relaxed additionally folds diacritic-marked letters to their base
	// letter (accents, breathings, iota subscript, diaeresis). Used only
	// for partial-credit comparison.
	Relaxed
)

// Normalize converts raw answer text into a canonical comparable form.
// It is deterministic and idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string, strictness Strictness) string {
	if strictness == Relaxed {
		text = foldDiacritics(text)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// foldDiacritics decomposes each rune (NFD), drops the combining marks,
// and recomposes (NFC), so e.g. "λέγω" and "λεγω" become identical.
func foldDiacritics(s string) string {
	t := transform.Chain(unorm.NFD, runes.Remove(runes.In(unicode.Mn)), unorm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}
