package scorers

import (
	"time"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/risk"
	"github.com/custodia-labs/clauseguard/internal/scorers/llm"
)

// Dependencies are the collaborators built-in scorers may need.
type Dependencies struct {
	// Rules configures the keyword scorer and the LLM scorer thresholds.
	Rules domain.RuleSet

	// LLM backs the llm scorer. Nil leaves it unavailable.
	LLM driven.LLMService
}

// RegisterDefaults registers all built-in scorers with the registry.
func RegisterDefaults(r *Registry, deps Dependencies) {
	r.Register(risk.ScorerName, func(_ map[string]any) (driven.Scorer, error) {
		return risk.New(deps.Rules), nil
	})
	r.Register(llm.ScorerName, func(cfg map[string]any) (driven.Scorer, error) {
		return buildLLM(deps, cfg)
	})
}

// buildLLM creates an LLM scorer from generic config.
// Supported config keys:
//   - requests_per_second (float): Throttle for classification calls (default: 2)
//   - burst (int): Token bucket burst size (default: 1)
//   - timeout_seconds (int): Per-clause deadline (default: none beyond the client timeout)
//   - max_clause_runes (int): Clause text sent to the model is cut to this length (default: 2000)
func buildLLM(deps Dependencies, cfg map[string]any) (driven.Scorer, error) {
	if deps.LLM == nil {
		return nil, domain.ErrLLMUnavailable
	}

	opts := []llm.Option{llm.WithThresholds(deps.Rules.Thresholds)}
	if cfg != nil {
		if rps := getFloatFromConfig(cfg, "requests_per_second"); rps > 0 {
			opts = append(opts, llm.WithRateLimit(rps, getIntFromConfig(cfg, "burst")))
		}
		if secs := getIntFromConfig(cfg, "timeout_seconds"); secs > 0 {
			opts = append(opts, llm.WithTimeout(time.Duration(secs)*time.Second))
		}
		if n := getIntFromConfig(cfg, "max_clause_runes"); n > 0 {
			opts = append(opts, llm.WithMaxClauseRunes(n))
		}
	}

	return llm.New(deps.LLM, opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getFloatFromConfig is getIntFromConfig for fractional values.
func getFloatFromConfig(cfg map[string]any, key string) float64 {
	switch v := cfg[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
