package driven

import (
	"context"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// AnalysisStore persists analysis records keyed by an opaque ID.
type AnalysisStore interface {
	// Save stores or replaces an analysis with all its clause records.
	Save(ctx context.Context, a *domain.Analysis) error

	// Get retrieves an analysis by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Analysis, error)

	// List returns summaries, newest first.
	List(ctx context.Context) ([]domain.AnalysisSummary, error)

	// Delete removes an analysis and its clause records.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// UpdateClauseComment sets the reviewer comment on one clause.
	UpdateClauseComment(ctx context.Context, id string, ordinal int, comment string) error
}
