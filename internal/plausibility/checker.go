// Package plausibility flags documents that are unlikely to be legal
// contracts. The verdict is advisory and never blocks analysis.
package plausibility

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/textnorm"
)

// Defaults for the verdict.
const (
	DefaultMinRunes = 80
	DefaultMinScore = 2
)

// Signal names.
const (
	SignalKeywordPrefix = "keyword:"
	SignalNumberedList  = "numbered-list"
	SignalClauseSection = "clause-or-section"
	SignalParty         = "party"
	SignalResume        = "resume-markers"
)

var numberedList = regexp.MustCompile(`(?:^|\s)(?:[0-9\x{0966}-\x{096F}]{1,2}|[ivxIVX]{1,4})[.)]\s`)

var (
	sectionWords = []string{"clause", "clauses", "section", "sections", "धारा", "खंड"}
	partyWords   = []string{"party", "parties"}
)

// Checker scores documents for contract plausibility.
type Checker struct {
	keywordsEN    []string
	keywordsHI    []string
	resumeMarkers []string
	detector      *textnorm.Detector
	minRunes      int
	minScore      int
}

// Option configures the checker.
type Option func(*Checker)

// WithDetector sets the language detector used to pick the keyword set.
func WithDetector(d *textnorm.Detector) Option {
	return func(c *Checker) {
		if d != nil {
			c.detector = d
		}
	}
}

// WithMinRunes sets the minimum trimmed length of a plausible contract.
func WithMinRunes(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.minRunes = n
		}
	}
}

// WithMinScore sets the score needed for a plausible verdict.
func WithMinScore(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.minScore = n
		}
	}
}

// New creates a checker using the contract vocabulary of rules.
func New(rules domain.RuleSet, opts ...Option) *Checker {
	c := &Checker{
		keywordsEN:    append([]string(nil), rules.ContractKeywordsEN...),
		keywordsHI:    append([]string(nil), rules.ContractKeywordsHI...),
		resumeMarkers: append([]string(nil), rules.ResumeMarkers...),
		detector:      textnorm.NewDetector(),
		minRunes:      DefaultMinRunes,
		minScore:      DefaultMinScore,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsPlausible reports whether text looks like a legal contract.
func (c *Checker) IsPlausible(text string) bool {
	return c.Check(text).Plausible
}

// Check scores text: one point per distinct contract keyword of the
// detected language, one for a numbered list, one for "clause"/"section"
// and one for "party"/"parties".
func (c *Checker) Check(text string) domain.PlausibilityVerdict {
	v := domain.PlausibilityVerdict{Signals: []string{}}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return v
	}

	views := textnorm.NewViews(trimmed)
	lang := c.detector.Detect(trimmed)

	keywords := c.keywordsEN
	if lang == domain.LanguageHindi {
		keywords = c.keywordsHI
	}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		key := textnorm.Normalize(kw, lang)
		if key == "" || seen[key] {
			continue
		}
		if views.ContainsWordPrefix(kw) {
			seen[key] = true
			v.Score++
			v.Signals = append(v.Signals, SignalKeywordPrefix+kw)
		}
	}

	if numberedList.MatchString(trimmed) {
		v.Score++
		v.Signals = append(v.Signals, SignalNumberedList)
	}

	words := wordSet(views)
	if words.any(sectionWords) {
		v.Score++
		v.Signals = append(v.Signals, SignalClauseSection)
	}
	if words.any(partyWords) {
		v.Score++
		v.Signals = append(v.Signals, SignalParty)
	}

	if markers := c.countResumeMarkers(views); markers > 0 {
		v.Signals = append(v.Signals, SignalResume)
	}

	v.Plausible = v.Score >= c.minScore && utf8.RuneCountInString(trimmed) >= c.minRunes
	return v
}

func (c *Checker) countResumeMarkers(views textnorm.Views) int {
	n := 0
	for _, m := range c.resumeMarkers {
		if views.ContainsWordPrefix(m) {
			n++
		}
	}
	return n
}

type words map[string]bool

func wordSet(views textnorm.Views) words {
	w := words{}
	for _, f := range strings.Fields(views.EN) {
		w[f] = true
	}
	for _, f := range strings.Fields(views.HI) {
		w[f] = true
	}
	return w
}

func (w words) any(candidates []string) bool {
	for _, c := range candidates {
		if w[c] {
			return true
		}
	}
	return false
}
