package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// Ensure AnalysisStore implements the interface.
var _ driven.AnalysisStore = (*AnalysisStore)(nil)

// AnalysisStore is an in-memory implementation of driven.AnalysisStore.
// Records are copied on the way in and out, so callers never share
// slices with the store.
type AnalysisStore struct {
	mu       sync.RWMutex
	analyses map[string]domain.Analysis
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		analyses: make(map[string]domain.Analysis),
	}
}

// Save stores or replaces an analysis.
func (s *AnalysisStore) Save(_ context.Context, a *domain.Analysis) error {
	if a == nil || a.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[a.ID] = cloneAnalysis(*a)
	return nil
}

// Get retrieves an analysis by ID.
func (s *AnalysisStore) Get(_ context.Context, id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.analyses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneAnalysis(a)
	return &out, nil
}

// List returns summaries, newest first.
func (s *AnalysisStore) List(_ context.Context) ([]domain.AnalysisSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AnalysisSummary, 0, len(s.analyses))
	for id := range s.analyses {
		a := s.analyses[id]
		out = append(out, a.ToSummary())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete removes an analysis.
func (s *AnalysisStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.analyses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.analyses, id)
	return nil
}

// UpdateClauseComment sets the reviewer comment on one clause.
func (s *AnalysisStore) UpdateClauseComment(_ context.Context, id string, ordinal int, comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[id]
	if !ok {
		return domain.ErrNotFound
	}
	c, err := a.Clause(ordinal)
	if err != nil {
		return err
	}
	c.Comment = comment
	s.analyses[id] = a
	return nil
}

func cloneAnalysis(a domain.Analysis) domain.Analysis {
	a.Plausibility.Signals = append([]string(nil), a.Plausibility.Signals...)
	clauses := make([]domain.ClauseResult, len(a.Clauses))
	for i, c := range a.Clauses {
		c.Reasons = append([]string{}, c.Reasons...)
		if c.Suggestion != nil {
			v := *c.Suggestion
			c.Suggestion = &v
		}
		if c.Template != nil {
			v := *c.Template
			c.Template = &v
		}
		clauses[i] = c
	}
	a.Clauses = clauses
	return a
}
