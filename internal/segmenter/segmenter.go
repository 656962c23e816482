// Package segmenter splits extracted contract text into ordered clauses
// using a cascade of heuristics: numbered items, sentences, paragraphs,
// and finally the whole document.
package segmenter

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/textnorm"
)

// Default minimum lengths, in runes. A fragment must exceed a stage
// minimum unless the content gate lets it through.
const (
	DefaultMinRunes       = 40
	DefaultNumberedMin    = 60
	DefaultSentenceMin    = 80
	DefaultParagraphMin   = 100
	DefaultFinalMin       = 70
	minNumberedCandidates = 2
)

var (
	// Start of line or whitespace, a 1-2 digit number or roman numeral,
	// a delimiter, then whitespace. Group 1 is the item token.
	numberedItem = regexp.MustCompile(
		`(?:^|\s)((?:[0-9\x{0966}-\x{096F}]{1,2}|(?i:x{0,3}(?:ix|iv|vi{0,3}|i{1,3})|x{1,3}))[.)\-–—])\s`)

	sentenceEnd  = regexp.MustCompile(`[.!?।]+\s+`)
	blankLine    = regexp.MustCompile(`\n[ \t\f\v]*(?:\n[ \t\f\v]*)+`)
	markupTag    = regexp.MustCompile(`<\/?[A-Za-z][^<>\n]*>`)
	markupTail   = regexp.MustCompile(`<\/?[A-Za-z][^<>\n]*$`)
	lineEndings  = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	dandaNewline = strings.NewReplacer("।", "।\n")
)

// Result is the output of a segmentation run.
type Result struct {
	// Clauses are in document order with 1-based ordinals.
	Clauses []domain.Clause

	// Stage names the cascade stage that produced the clauses.
	Stage string
}

// Segmenter splits text into clauses. It holds no mutable state and is
// safe for concurrent use.
type Segmenter struct {
	keywords     []string
	minRunes     int
	numberedMin  int
	sentenceMin  int
	paragraphMin int
	finalMin     int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithMinRunes sets the minimum viable input length and the shortest
// fragment the keyword gate admits.
func WithMinRunes(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.minRunes = n
		}
	}
}

// WithStageMinimums sets the numbered, sentence, paragraph and final minimums.
func WithStageMinimums(numbered, sentence, paragraph, final int) Option {
	return func(s *Segmenter) {
		if numbered > 0 {
			s.numberedMin = numbered
		}
		if sentence > 0 {
			s.sentenceMin = sentence
		}
		if paragraph > 0 {
			s.paragraphMin = paragraph
		}
		if final > 0 {
			s.finalMin = final
		}
	}
}

// New creates a segmenter whose content gate uses the contract vocabulary
// and risk phrases of rules.
func New(rules domain.RuleSet, opts ...Option) *Segmenter {
	s := &Segmenter{
		minRunes:     DefaultMinRunes,
		numberedMin:  DefaultNumberedMin,
		sentenceMin:  DefaultSentenceMin,
		paragraphMin: DefaultParagraphMin,
		finalMin:     DefaultFinalMin,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.keywords = append(s.keywords, rules.ContractKeywordsEN...)
	s.keywords = append(s.keywords, rules.ContractKeywordsHI...)
	for _, list := range [][]domain.Keyword{rules.HighRiskEN, rules.HighRiskHI, rules.MediumRiskEN, rules.MediumRiskHI} {
		for _, kw := range list {
			s.keywords = append(s.keywords, kw.Phrase)
		}
	}

	return s
}

// Name returns the segmenter name.
func (s *Segmenter) Name() string {
	return "cascade"
}

// Clauses is Segment without the stage report.
func (s *Segmenter) Clauses(text string) []domain.Clause {
	return s.Segment(text).Clauses
}

// Segment splits text into clauses. Input shorter than the minimum viable
// length yields an empty result, never an error.
func (s *Segmenter) Segment(text string) Result {
	text = prepare(text)
	if utf8.RuneCountInString(strings.TrimSpace(text)) < s.minRunes {
		return Result{Stage: domain.StageNone}
	}

	if frags := s.usable(splitNumbered(text), s.numberedMin); len(frags) >= minNumberedCandidates {
		return result(frags, domain.StageNumbered)
	}
	if frags := s.usable(splitSentences(text), s.sentenceMin); len(frags) > 0 {
		return result(frags, domain.StageSentence)
	}
	if frags := s.usable(splitParagraphs(text), s.paragraphMin); len(frags) > 0 {
		return result(frags, domain.StageParagraph)
	}

	whole := clean(text)
	if whole == "" {
		return Result{Stage: domain.StageNone}
	}
	return result([]string{whole}, domain.StageWhole)
}

// usable cleans each piece and keeps those passing both the stage gate
// and the final acceptance gate.
func (s *Segmenter) usable(pieces []string, stageMin int) []string {
	var out []string
	for _, p := range pieces {
		c := clean(p)
		if c == "" {
			continue
		}
		n := utf8.RuneCountInString(c)
		if s.admit(c, n, stageMin) && s.admit(c, n, s.finalMin) {
			out = append(out, c)
		}
	}
	return out
}

// admit is the content gate: long fragments are presumed substantive;
// shorter ones must look like contract text.
func (s *Segmenter) admit(fragment string, runes, minimum int) bool {
	if runes > minimum {
		return true
	}
	if runes < s.minRunes {
		return false
	}
	return s.looksContractual(fragment)
}

func (s *Segmenter) looksContractual(fragment string) bool {
	v := textnorm.NewViews(fragment)
	for _, kw := range s.keywords {
		if v.ContainsWordPrefix(kw) {
			return true
		}
	}
	return false
}

func result(frags []string, stage string) Result {
	clauses := make([]domain.Clause, len(frags))
	for i, f := range frags {
		clauses[i] = domain.Clause{Ordinal: i + 1, Text: f}
	}
	return Result{Clauses: clauses, Stage: stage}
}

// prepare converts CRLF and CR to LF, blanks out markup so tags never
// hide item numbers or sentence ends, and collapses runs of blank lines.
func prepare(text string) string {
	text = lineEndings.Replace(text)
	text = markupTag.ReplaceAllString(text, " ")
	return blankLine.ReplaceAllString(text, "\n\n")
}

// splitNumbered cuts before each numbered item token and after each danda.
func splitNumbered(text string) []string {
	text = dandaNewline.Replace(text)

	var cuts []int
	for _, m := range numberedItem.FindAllStringSubmatchIndex(text, -1) {
		if m[2] > 0 {
			cuts = append(cuts, m[2])
		}
	}

	pieces := cutAt(text, cuts)
	var out []string
	for _, p := range pieces {
		out = append(out, strings.SplitAfter(p, "।\n")...)
	}
	return out
}

// splitSentences cuts after terminal punctuation followed by whitespace.
func splitSentences(text string) []string {
	var cuts []int
	for _, m := range sentenceEnd.FindAllStringIndex(text, -1) {
		cuts = append(cuts, m[1])
	}
	return cutAt(text, cuts)
}

// splitParagraphs cuts on blank lines.
func splitParagraphs(text string) []string {
	return strings.Split(text, "\n\n")
}

// cutAt splits text at ascending byte offsets.
func cutAt(text string, cuts []int) []string {
	out := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		if c <= prev || c >= len(text) {
			continue
		}
		out = append(out, text[prev:c])
		prev = c
	}
	return append(out, text[prev:])
}

// clean strips markup-like fragments and collapses whitespace.
func clean(fragment string) string {
	fragment = markupTag.ReplaceAllString(fragment, " ")
	fragment = markupTail.ReplaceAllString(fragment, " ")
	return textnorm.CollapseSpace(fragment)
}
