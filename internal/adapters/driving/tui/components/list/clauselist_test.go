package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func sampleClauses() []domain.ClauseResult {
	return []domain.ClauseResult{
		{Ordinal: 1, Text: "The Employee shall indemnify the Company.", Tier: domain.TierHigh, Score: 6, Reasons: []string{"indemnify"}},
		{Ordinal: 2, Text: "Governed by the laws of Delhi.", Tier: domain.TierMedium, Score: 2, Reasons: []string{"laws of"}},
		{Ordinal: 3, Text: "Invoices are payable within thirty days.", Tier: domain.TierLow, Score: 0},
		{Ordinal: 4, Text: "The Vendor may terminate at any time.", Tier: domain.TierHigh, Score: 5, Reasons: []string{"terminate at any time"}},
	}
}

func TestNewClauseList(t *testing.T) {
	l := NewClauseList(nil)

	require.NotNil(t, l)
	assert.NotNil(t, l.styles)
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedClause())
	assert.Nil(t, l.Init())
}

func TestClauseList_Navigation(t *testing.T) {
	l := NewClauseList(nil)
	l.SetClauses(sampleClauses())

	assert.Equal(t, 4, l.Count())
	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.Update(tea.KeyMsg{Type: tea.KeyDown})
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 3, l.SelectedClause().Ordinal)

	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 3, l.Selected(), "selection stops at the end")

	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 2, l.Selected())
}

func TestClauseList_Filter(t *testing.T) {
	l := NewClauseList(nil)
	l.SetClauses(sampleClauses())

	l.SetFilter(domain.TierHigh)
	assert.Equal(t, 2, l.Count())
	l.MoveDown()
	assert.Equal(t, 4, l.SelectedClause().Ordinal)

	l.SetFilter(domain.TierMedium)
	assert.Equal(t, 1, l.Count())
	assert.Equal(t, 0, l.Selected(), "filter change resets selection")

	l.SetFilter("")
	assert.Equal(t, 4, l.Count())
}

func TestClauseList_CycleFilter(t *testing.T) {
	l := NewClauseList(nil)
	l.SetClauses(sampleClauses())

	var seen []domain.Tier
	for i := 0; i < 4; i++ {
		l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
		seen = append(seen, l.Filter())
	}
	assert.Equal(t, []domain.Tier{domain.TierHigh, domain.TierMedium, domain.TierLow, ""}, seen)
}

func TestClauseList_View(t *testing.T) {
	l := NewClauseList(nil)
	assert.Contains(t, l.View(), "No clauses")

	l.SetClauses(sampleClauses())
	l.SetDimensions(100, 40)
	view := l.View()
	assert.Contains(t, view, "#1")
	assert.Contains(t, view, "indemnify")
	assert.Contains(t, view, "Invoices are payable")

	l.SetClauses([]domain.ClauseResult{{Ordinal: 1, Tier: domain.TierLow, Text: "x"}})
	l.SetFilter(domain.TierHigh)
	assert.Contains(t, l.View(), "No High risk clauses")
}

func TestClauseList_ViewScrolls(t *testing.T) {
	l := NewClauseList(nil)
	l.SetClauses(sampleClauses())
	l.SetDimensions(80, 6)

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	view := l.View()
	assert.Contains(t, view, "#4")
	assert.NotContains(t, view, "#1 ")
	assert.Contains(t, view, "of 4]")
}

func TestClauseList_UpdateComment(t *testing.T) {
	l := NewClauseList(nil)
	l.SetClauses(sampleClauses())

	l.UpdateComment(2, "push for arbitration")
	assert.Equal(t, "push for arbitration", l.Clauses()[1].Comment)

	l.UpdateComment(99, "ignored")
	for _, c := range l.Clauses() {
		assert.NotEqual(t, "ignored", c.Comment)
	}
}
