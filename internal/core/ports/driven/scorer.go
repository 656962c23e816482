package driven

import (
	"context"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// Scorer maps one clause to a RiskFinding.
// The keyword scorer never fails; alternate scorers (LLM) may, and are
// wrapped in a fallback chain that ends with the keyword scorer.
type Scorer interface {
	// Name returns the scorer name for logging, configuration and ScoredBy.
	Name() string

	// Score assesses a clause written in lang.
	Score(ctx context.Context, clause string, lang domain.Language) (domain.RiskFinding, error)
}

// LanguageIdentifier is an optional statistical language classifier.
type LanguageIdentifier interface {
	// Identify returns the most likely language and a confidence in [0, 1].
	// Languages other than en/hi are returned as LanguageUnknown.
	Identify(text string) (domain.Language, float64, error)
}
