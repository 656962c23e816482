// Package suggest maps a scored clause to an optional rewrite suggestion.
package suggest

import (
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/textnorm"
)

// Engine is an ordered rule table. The first rule whose tier matches and
// whose trigger appears in the reasons or the clause wins.
type Engine struct {
	rules []domain.SuggestionRule
}

// New creates an engine from the suggestion rules of rs.
func New(rs domain.RuleSet) *Engine {
	rules := make([]domain.SuggestionRule, len(rs.Suggestions))
	for i, r := range rs.Suggestions {
		r.Triggers = append([]string(nil), r.Triggers...)
		rules[i] = r
	}
	return &Engine{rules: rules}
}

// Suggest returns the rewrite recommendation for a clause, or false when
// no rule applies.
func (e *Engine) Suggest(clause string, tier domain.Tier, reasons []string) (string, bool) {
	var clauseViews *textnorm.Views

	for _, rule := range e.rules {
		if rule.Tier != tier {
			continue
		}
		for _, trigger := range rule.Triggers {
			if reasonsContain(reasons, trigger) {
				return rule.Text, true
			}
			if clauseViews == nil {
				v := textnorm.NewViews(clause)
				clauseViews = &v
			}
			if clauseViews.Contains(trigger) {
				return rule.Text, true
			}
		}
	}
	return "", false
}

// SuggestFinding is Suggest for a RiskFinding, returning nil when absent.
func (e *Engine) SuggestFinding(clause string, f domain.RiskFinding) *string {
	s, ok := e.Suggest(clause, f.Tier, f.Reasons)
	if !ok {
		return nil
	}
	return &s
}

func reasonsContain(reasons []string, trigger string) bool {
	for _, r := range reasons {
		if textnorm.NewViews(r).Contains(trigger) {
			return true
		}
	}
	return false
}
