// Package llm provides a risk scorer backed by a language model.
//
// It is an alternate scorer only: errors are returned rather than hidden
// so the scorer chain can fall back to keyword scoring.
package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// ScorerName identifies findings produced by this scorer.
const ScorerName = "llm"

// DefaultMaxClauseRunes bounds the clause text sent to the model.
const DefaultMaxClauseRunes = 2000

// Verify interface compliance at compile time.
var _ driven.Scorer = (*Scorer)(nil)

// Scorer classifies clauses with an LLM.
type Scorer struct {
	llm            driven.LLMService
	limiter        *rate.Limiter
	thresholds     domain.Thresholds
	timeout        time.Duration
	maxClauseRunes int
}

// Option configures the scorer.
type Option func(*Scorer)

// WithRateLimit throttles classification calls with a token bucket.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(s *Scorer) {
		if requestsPerSecond <= 0 {
			return
		}
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithThresholds sets the boundaries used when the model omits a tier.
func WithThresholds(th domain.Thresholds) Option {
	return func(s *Scorer) {
		if th.Medium > 0 && th.High > th.Medium {
			s.thresholds = th
		}
	}
}

// WithTimeout bounds each classification call.
func WithTimeout(d time.Duration) Option {
	return func(s *Scorer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxClauseRunes truncates long clauses before prompting.
func WithMaxClauseRunes(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.maxClauseRunes = n
		}
	}
}

// New creates an LLM scorer.
func New(svc driven.LLMService, opts ...Option) *Scorer {
	s := &Scorer{
		llm:            svc,
		thresholds:     domain.DefaultThresholds(),
		maxClauseRunes: DefaultMaxClauseRunes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the scorer name.
func (s *Scorer) Name() string {
	return ScorerName
}

// Score asks the model for a verdict on one clause.
func (s *Scorer) Score(ctx context.Context, clause string, lang domain.Language) (domain.RiskFinding, error) {
	if s.llm == nil {
		return domain.RiskFinding{}, domain.ErrLLMUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return domain.RiskFinding{}, fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
		}
	}

	resp, err := s.llm.Generate(ctx, buildPrompt(truncate(clause, s.maxClauseRunes), lang), driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0,
		JSON:        true,
	})
	if err != nil {
		return domain.RiskFinding{}, fmt.Errorf("classify clause: %w", err)
	}

	f, err := parseVerdict(resp, s.thresholds)
	if err != nil {
		return domain.RiskFinding{}, err
	}
	f.ScoredBy = ScorerName + ":" + s.llm.ModelName()
	return f, nil
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}
