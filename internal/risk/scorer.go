// Package risk implements the deterministic keyword risk scorer.
//
// A clause is scanned for weighted phrases in a fixed order: English
// high-risk, Hindi high-risk, English medium-risk, Hindi medium-risk,
// then the obligation heuristic. Matches are reported in that order and
// their weights summed; the sum maps to a tier through inclusive
// thresholds.
package risk

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/textnorm"
)

// ScorerName identifies findings produced by this scorer.
const ScorerName = "keyword"

// ObligationReason is the synthetic reason added by the obligation heuristic.
const ObligationReason = "many obligations without payment-like term"

// Verify interface compliance at compile time.
var _ driven.Scorer = (*Scorer)(nil)

// Scorer is the keyword scorer. It copies what it needs from the rule set
// at construction and is safe for concurrent use.
type Scorer struct {
	keywords            []domain.Keyword
	obligationMarkers   [][]string
	paymentTerms        []string
	obligationThreshold int
	obligationPenalty   int
	thresholds          domain.Thresholds
	shortRunes          int
}

// New creates a keyword scorer from rules.
func New(rules domain.RuleSet) *Scorer {
	s := &Scorer{
		paymentTerms:        append([]string(nil), rules.PaymentTerms...),
		obligationThreshold: rules.ObligationThreshold,
		obligationPenalty:   rules.ObligationPenalty,
		thresholds:          rules.Thresholds,
		shortRunes:          rules.ShortClauseRunes,
	}

	for _, list := range [][]domain.Keyword{rules.HighRiskEN, rules.HighRiskHI, rules.MediumRiskEN, rules.MediumRiskHI} {
		s.keywords = append(s.keywords, list...)
	}
	for _, m := range rules.ObligationMarkers {
		if words := strings.Fields(textnorm.Normalize(m, domain.LanguageEnglish)); len(words) > 0 {
			s.obligationMarkers = append(s.obligationMarkers, words)
		}
	}

	return s
}

// Name returns the scorer name.
func (s *Scorer) Name() string {
	return ScorerName
}

// Score implements driven.Scorer. It never returns an error.
func (s *Scorer) Score(_ context.Context, clause string, lang domain.Language) (domain.RiskFinding, error) {
	return s.Assess(clause, lang), nil
}

// Assess scores a clause. lang selects the explanation language only;
// every keyword list is scanned regardless of it.
func (s *Scorer) Assess(clause string, lang domain.Language) domain.RiskFinding {
	if utf8.RuneCountInString(strings.TrimSpace(clause)) < s.shortRunes {
		return domain.RiskFinding{
			Tier:        domain.TierLow,
			Reasons:     []string{},
			Explanation: tooShortExplanation(lang),
			ScoredBy:    ScorerName,
		}
	}

	views := textnorm.NewViews(clause)
	reasons := []string{}
	score := 0

	for _, kw := range s.keywords {
		if views.ContainsWordPrefix(kw.Phrase) {
			reasons = append(reasons, kw.Phrase)
			score += kw.Weight
		}
	}

	if s.obligationHeavy(views) {
		reasons = append(reasons, ObligationReason)
		score += s.obligationPenalty
	}

	tier := s.thresholds.TierFor(score)
	return domain.RiskFinding{
		Tier:        tier,
		Score:       score,
		Reasons:     reasons,
		Explanation: explain(tier, reasons, lang),
		ScoredBy:    ScorerName,
	}
}

// obligationHeavy reports whether the clause has at least the threshold
// number of obligation markers and no payment-like term.
func (s *Scorer) obligationHeavy(views textnorm.Views) bool {
	if s.obligationThreshold <= 0 || len(s.obligationMarkers) == 0 {
		return false
	}

	words := strings.Fields(views.EN)
	count := 0
	for _, marker := range s.obligationMarkers {
		count += countSequence(words, marker)
	}
	if count < s.obligationThreshold {
		return false
	}

	for _, term := range s.paymentTerms {
		if views.ContainsWordPrefix(term) {
			return false
		}
	}
	return true
}

// countSequence counts non-overlapping occurrences of seq in words.
func countSequence(words, seq []string) int {
	n := 0
	for i := 0; i+len(seq) <= len(words); {
		if equalWords(words[i:i+len(seq)], seq) {
			n++
			i += len(seq)
			continue
		}
		i++
	}
	return n
}

func equalWords(a, b []string) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
