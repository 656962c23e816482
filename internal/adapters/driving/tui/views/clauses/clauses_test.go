package clauses

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func sampleAnalysis() *domain.Analysis {
	a := &domain.Analysis{
		ID:           "a1",
		Name:         "vendor agreement",
		Language:     domain.LanguageEnglish,
		Segmentation: domain.StageNumbered,
		Plausibility: domain.PlausibilityVerdict{Plausible: true},
		Summary:      "This contract contains 2 clauses. 1 high risk and 1 medium risk found.",
		Clauses: []domain.ClauseResult{
			{Ordinal: 1, Text: "The Vendor shall indemnify the Client.", Tier: domain.TierHigh, Score: 5, Reasons: []string{"indemnify"}},
			{Ordinal: 2, Text: "Governed by the laws of Delhi.", Tier: domain.TierMedium, Score: 2, Reasons: []string{"laws of"}},
		},
	}
	a.Recount()
	return a
}

func TestView_Empty(t *testing.T) {
	v := NewView(nil)
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No analysis loaded.")
}

func TestView_RendersAnalysis(t *testing.T) {
	v := NewView(nil)
	v.SetDimensions(120, 30)
	v.SetAnalysis(sampleAnalysis())

	view := v.View()
	assert.Contains(t, view, "vendor agreement")
	assert.Contains(t, view, "1 high risk and 1 medium risk")
	assert.Contains(t, view, "1 high")
	assert.NotContains(t, view, "may not be a legal contract")
}

func TestView_ImplausibleWarning(t *testing.T) {
	a := sampleAnalysis()
	a.Plausibility.Plausible = false
	v := NewView(nil)
	v.SetAnalysis(a)
	assert.Contains(t, v.View(), "may not be a legal contract")
}

func TestView_FilterAndSelect(t *testing.T) {
	v := NewView(nil)
	v.SetAnalysis(sampleAnalysis())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	assert.Equal(t, domain.TierMedium, v.List().Filter())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sel, ok := cmd().(messages.ClauseSelected)
	require.True(t, ok)
	assert.Equal(t, 2, sel.Clause.Ordinal)
}

func TestView_BackToAnalyses(t *testing.T) {
	v := NewView(nil)
	v.SetAnalysis(sampleAnalysis())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewAnalyses}, cmd())
}

func TestView_CommentSaved(t *testing.T) {
	v := NewView(nil)
	v.SetAnalysis(sampleAnalysis())

	v.Update(messages.CommentSaved{AnalysisID: "other", Ordinal: 1, Comment: "x"})
	assert.Empty(t, v.List().Clauses()[0].Comment)

	v.Update(messages.CommentSaved{AnalysisID: "a1", Ordinal: 1, Comment: "cap at fees"})
	assert.Equal(t, "cap at fees", v.List().Clauses()[0].Comment)
}

func TestView_SetAnalysisResetsFilter(t *testing.T) {
	v := NewView(nil)
	v.SetAnalysis(sampleAnalysis())
	v.List().SetFilter(domain.TierLow)

	v.SetAnalysis(sampleAnalysis())
	assert.Equal(t, domain.Tier(""), v.List().Filter())
	assert.Equal(t, 2, v.List().Count())

	v.SetAnalysis(nil)
	assert.Nil(t, v.Analysis())
}
