// Package textnorm provides language detection and script-aware
// normalisation used before keyword matching.
//
// Every function in this package is total: it accepts any string,
// never panics, and never returns an error.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// Devanagari block bounds.
const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097F'
)

// IsDevanagari reports whether r is in the Devanagari block.
func IsDevanagari(r rune) bool {
	return r >= devanagariFirst && r <= devanagariLast
}

// ContainsDevanagari reports whether any rune of s is Devanagari.
func ContainsDevanagari(s string) bool {
	for _, r := range s {
		if IsDevanagari(r) {
			return true
		}
	}
	return false
}

// Normalize returns the matching view of text for lang.
//
// Hindi keeps Devanagari, whitespace and ASCII digits and replaces
// everything else with a space. English and any other tag lowercase the
// text and keep letters, combining marks and digits. Whitespace runs
// collapse to one space and the ends are trimmed. The result is NFC and
// Normalize(Normalize(x, l), l) == Normalize(x, l).
func Normalize(text string, lang domain.Language) string {
	if text == "" {
		return ""
	}

	var keep func(rune) bool
	if lang == domain.LanguageHindi {
		text = norm.NFC.String(text)
		keep = keepHindi
	} else {
		text = norm.NFC.String(strings.ToLower(norm.NFC.String(text)))
		keep = keepDefault
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if keep(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return CollapseSpace(b.String())
}

// CollapseSpace replaces whitespace runs with one space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func keepHindi(r rune) bool {
	return IsDevanagari(r) || unicode.IsSpace(r) || (r >= '0' && r <= '9')
}

func keepDefault(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || unicode.IsSpace(r)
}

// Views holds both normalised forms of one text so callers can match
// English and Hindi phrases without normalising twice.
type Views struct {
	// EN is Normalize(text, en).
	EN string

	// HI is Normalize(text, hi).
	HI string
}

// NewViews computes both views of text.
func NewViews(text string) Views {
	return Views{
		EN: Normalize(text, domain.LanguageEnglish),
		HI: Normalize(text, domain.LanguageHindi),
	}
}

// Contains reports whether phrase occurs in the view matching its script.
// Devanagari phrases match the Hindi view exactly; others match the
// lowercased English view. Phrases are normalised the same way first.
func (v Views) Contains(phrase string) bool {
	if ContainsDevanagari(phrase) {
		p := Normalize(phrase, domain.LanguageHindi)
		return p != "" && strings.Contains(v.HI, p)
	}
	p := Normalize(phrase, domain.LanguageEnglish)
	return p != "" && strings.Contains(v.EN, p)
}

// ContainsWordPrefix is Contains with English phrases anchored at a word
// start, so "term" matches "terms" and "termination" but not "determine".
// Devanagari phrases use plain substring matching.
func (v Views) ContainsWordPrefix(phrase string) bool {
	if ContainsDevanagari(phrase) {
		return v.Contains(phrase)
	}
	p := Normalize(phrase, domain.LanguageEnglish)
	if p == "" {
		return false
	}
	return strings.HasPrefix(v.EN, p) || strings.Contains(v.EN, " "+p)
}
