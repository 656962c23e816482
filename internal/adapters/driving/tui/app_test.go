package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/services"
)

const scenario = "1. The Employee shall indemnify the Company without limitation. " +
	"2. This Agreement is governed by the laws of Delhi."

func newTestApp(t *testing.T) (*App, *services.AnalysisService, *domain.Analysis) {
	t.Helper()
	svc := services.NewAnalysisService(domain.DefaultRuleSet(), services.WithStore(memory.NewAnalysisStore()))
	a, err := svc.AnalyzeText(context.Background(), "nda", scenario, domain.AnalyzeOptions{Save: true})
	require.NoError(t, err)

	app, err := NewApp(&Ports{Analysis: svc})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app, svc, a
}

// run executes a command and feeds its message back into the app.
func run(app *App, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	if msg := cmd(); msg != nil {
		_, next := app.Update(msg)
		run(app, next)
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(app *App, keys ...string) {
	for _, k := range keys {
		_, cmd := app.Update(key(k))
		run(app, cmd)
	}
}

func TestNewApp(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingAnalysisService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingAnalysisService)

	app, _, _ := newTestApp(t)
	assert.Equal(t, messages.ViewAnalyses, app.CurrentView())
	assert.Equal(t, app, app.WithContext(context.Background()))
}

func TestApp_ViewBeforeReady(t *testing.T) {
	svc := services.NewAnalysisService(domain.DefaultRuleSet())
	app, err := NewApp(&Ports{Analysis: svc})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
}

func TestApp_ReviewFlow(t *testing.T) {
	app, svc, a := newTestApp(t)

	run(app, app.analysesView.Init())
	assert.Contains(t, app.View(), "nda")

	press(app, "enter")
	require.Equal(t, messages.ViewClauses, app.CurrentView())
	assert.Equal(t, a.ID, app.Analysis().ID)
	assert.Contains(t, app.View(), a.Summary)

	press(app, "f", "f")
	assert.Equal(t, domain.TierMedium, app.clausesView.List().Filter())

	press(app, "enter")
	require.Equal(t, messages.ViewClause, app.CurrentView())
	assert.Equal(t, 2, app.clauseView.Clause().Ordinal)
	assert.Contains(t, app.View(), "Specify neutral arbitration location within India.")

	press(app, "c")
	require.True(t, app.clauseView.Editing())
	press(app, "o", "k")
	press(app, "enter")
	assert.False(t, app.clauseView.Editing())
	assert.Equal(t, "ok", app.clauseView.Clause().Comment)

	stored, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ok", stored.Clauses[1].Comment)

	press(app, "esc")
	assert.Equal(t, messages.ViewClauses, app.CurrentView())
	assert.Equal(t, "ok", app.clausesView.List().Clauses()[1].Comment)

	press(app, "esc")
	assert.Equal(t, messages.ViewAnalyses, app.CurrentView())
}

func TestApp_WithAnalysisOpensDirectly(t *testing.T) {
	app, _, a := newTestApp(t)
	app.WithAnalysis(" " + a.ID + " ")

	run(app, app.loadAnalysis(app.startID))
	assert.Equal(t, messages.ViewClauses, app.CurrentView())
	assert.NotNil(t, app.Init())
}

func TestApp_UnknownAnalysis(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, cmd := app.Update(messages.AnalysisSelected{ID: "missing"})
	run(app, cmd)

	assert.Equal(t, messages.ViewAnalyses, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrNotFound)
	assert.Contains(t, app.View(), "not found")
}

func TestApp_Help(t *testing.T) {
	app, _, _ := newTestApp(t)

	press(app, "?")
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "filter tier")

	press(app, "esc")
	assert.Equal(t, messages.ViewAnalyses, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})
	assert.EqualError(t, app.Err(), "disk full")
	assert.Contains(t, app.View(), "disk full")
}
