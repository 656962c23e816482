package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
	"github.com/custodia-labs/clauseguard/internal/core/services"
)

const scenario = "1. The Employee shall indemnify the Company without limitation. " +
	"2. This Agreement is governed by the laws of Delhi."

// newTestServer wires the real pipeline over an in-memory store.
func newTestServer(t *testing.T) (*Server, *services.AnalysisService) {
	t.Helper()
	svc := services.NewAnalysisService(domain.DefaultRuleSet(), services.WithStore(memory.NewAnalysisStore()))
	server, err := NewServer(&Ports{Analysis: svc, Templates: services.NewTemplateService(nil)})
	require.NoError(t, err)
	return server, svc
}

// failingAnalysis fails every store-backed call.
type failingAnalysis struct {
	driving.AnalysisService
	err error
}

func (f *failingAnalysis) List(context.Context) ([]domain.AnalysisSummary, error) {
	return nil, f.err
}

func (f *failingAnalysis) Get(context.Context, string) (*domain.Analysis, error) {
	return nil, f.err
}

func (f *failingAnalysis) ScoreClause(context.Context, string, domain.Language) (domain.RiskFinding, error) {
	return domain.RiskFinding{}, f.err
}

func (f *failingAnalysis) AnalyzeText(context.Context, string, string, domain.AnalyzeOptions) (*domain.Analysis, error) {
	return nil, f.err
}

type failingTemplates struct{ err error }

func (f failingTemplates) List() ([]domain.ClauseTemplate, error) { return nil, f.err }
func (f failingTemplates) Path() string                           { return "" }
