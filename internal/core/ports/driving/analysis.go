package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// AnalysisService runs the contract pipeline and manages stored analyses.
type AnalysisService interface {
	// AnalyzeDocument extracts text from raw bytes and analyses it.
	AnalyzeDocument(ctx context.Context, raw *domain.RawDocument, opts domain.AnalyzeOptions) (*domain.Analysis, error)

	// AnalyzeText analyses already extracted text.
	AnalyzeText(ctx context.Context, name, text string, opts domain.AnalyzeOptions) (*domain.Analysis, error)

	// Segment splits text into clauses and names the stage that produced them.
	Segment(text string) ([]domain.Clause, string)

	// ScoreClause scores one clause. An empty language is detected from the text.
	ScoreClause(ctx context.Context, clause string, lang domain.Language) (domain.RiskFinding, error)

	// Suggest returns a rewrite suggestion, or nil when none applies.
	Suggest(clause string, tier domain.Tier, reasons []string) *string

	// CheckPlausibility reports whether text looks like a legal contract.
	CheckPlausibility(text string) domain.PlausibilityVerdict

	// DetectLanguage returns en, hi or unknown.
	DetectLanguage(text string) domain.Language

	// Get retrieves a stored analysis.
	Get(ctx context.Context, id string) (*domain.Analysis, error)

	// List returns stored analyses, newest first.
	List(ctx context.Context) ([]domain.AnalysisSummary, error)

	// Delete removes a stored analysis.
	Delete(ctx context.Context, id string) error

	// Comment attaches a reviewer note to one clause of a stored analysis.
	Comment(ctx context.Context, id string, ordinal int, comment string) error

	// Export writes a stored analysis as indented JSON.
	Export(ctx context.Context, id string, w io.Writer) error
}
