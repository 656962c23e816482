// Package scorers assembles risk scorers into a fallback chain.
//
// The chain asks each scorer in order and returns the first finding
// produced without error. The keyword scorer never fails and always
// terminates a chain built by BuildChain, so an unreachable LLM degrades
// to keyword scoring instead of failing the analysis.
package scorers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/logger"
	"github.com/custodia-labs/clauseguard/internal/risk"
)

// Verify interface compliance at compile time.
var _ driven.Scorer = (*Chain)(nil)

// ErrNoScorers is returned when a chain has nothing to run.
var ErrNoScorers = errors.New("no scorers configured")

// Chain runs scorers in order until one succeeds.
type Chain struct {
	scorers []driven.Scorer
	metrics driven.MetricsRecorder
}

// NewChain creates a chain with the given scorers, tried in order.
func NewChain(scorers ...driven.Scorer) *Chain {
	return &Chain{scorers: scorers}
}

// SetMetrics attaches a recorder for fallback events. Nil disables recording.
func (c *Chain) SetMetrics(m driven.MetricsRecorder) {
	c.metrics = m
}

// Name lists the chain members, e.g. "llm>keyword".
func (c *Chain) Name() string {
	names := make([]string, len(c.scorers))
	for i, s := range c.scorers {
		names[i] = s.Name()
	}
	return strings.Join(names, ">")
}

// Score returns the first successful finding.
func (c *Chain) Score(ctx context.Context, clause string, lang domain.Language) (domain.RiskFinding, error) {
	if len(c.scorers) == 0 {
		return domain.RiskFinding{}, ErrNoScorers
	}

	var lastErr error
	for _, s := range c.scorers {
		f, err := s.Score(ctx, clause, lang)
		if err == nil {
			if f.ScoredBy == "" {
				f.ScoredBy = s.Name()
			}
			return f, nil
		}
		lastErr = err
		logger.Warn("scorer %s failed, falling back: %v", s.Name(), err)
		if c.metrics != nil {
			c.metrics.ObserveFallback(s.Name())
		}
	}

	return domain.RiskFinding{}, fmt.Errorf("all scorers failed: %w", lastErr)
}

// Add appends a scorer to the chain.
func (c *Chain) Add(s driven.Scorer) {
	c.scorers = append(c.scorers, s)
}

// Len returns the number of scorers in the chain.
func (c *Chain) Len() int {
	return len(c.scorers)
}

// BuildChain builds the configured scorers in order. Optional scorers that
// cannot be built are skipped with a warning. A keyword scorer is appended
// when the pipeline does not already end with one.
func BuildChain(r *Registry, p domain.ScoringPipeline) (*Chain, error) {
	chain := NewChain()

	for _, name := range p.Scorers {
		s, err := r.Build(name, p.GetScorerConfig(name))
		if err != nil {
			if name == risk.ScorerName {
				return nil, fmt.Errorf("build keyword scorer: %w", err)
			}
			logger.Warn("scorer %s disabled: %v", name, err)
			continue
		}
		chain.Add(s)
	}

	if chain.Len() == 0 || chain.scorers[chain.Len()-1].Name() != risk.ScorerName {
		s, err := r.Build(risk.ScorerName, p.GetScorerConfig(risk.ScorerName))
		if err != nil {
			return nil, fmt.Errorf("build keyword scorer: %w", err)
		}
		chain.Add(s)
	}

	return chain, nil
}
