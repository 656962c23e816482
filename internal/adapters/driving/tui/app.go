package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/views/analyses"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/views/clause"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/views/clauses"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// App is the clause review application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for service calls made by the app itself.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	analysesView *analyses.View
	clausesView  *clauses.View
	clauseView   *clause.View

	// startID opens an analysis directly instead of the listing.
	startID string

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help closes.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new review application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       keymap.DefaultKeyMap(),
		analysesView: analyses.NewView(s, ports.Analysis),
		clausesView:  clauses.NewView(s),
		clauseView:   clause.NewView(s, ports.Analysis),
		currentView:  messages.ViewAnalyses,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// WithAnalysis opens the given analysis on start.
func (a *App) WithAnalysis(id string) *App {
	a.startID = strings.TrimSpace(id)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	first := a.analysesView.Init()
	if a.startID != "" {
		first = a.loadAnalysis(a.startID)
	}
	return tea.Batch(
		tea.SetWindowTitle("clauseguard - contract review"),
		first,
	)
}

func (a *App) loadAnalysis(id string) tea.Cmd {
	return func() tea.Msg {
		an, err := a.ports.Analysis.Get(a.ctx, id)
		return messages.AnalysisLoaded{Analysis: an, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc || msg.String() == "?" {
				a.currentView = a.previousView
			}
			return a, nil
		}
		if msg.String() == "?" && !a.clauseView.Editing() {
			a.previousView = a.currentView
			a.currentView = messages.ViewHelp
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		if msg.View == messages.ViewAnalyses {
			return a, a.analysesView.Init()
		}
		return a, nil

	case messages.AnalysisSelected:
		return a, a.loadAnalysis(msg.ID)

	case messages.AnalysisLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.analysesView, cmd = a.analysesView.Update(messages.ErrorOccurred{Err: msg.Err})
			a.currentView = messages.ViewAnalyses
			return a, cmd
		}
		a.err = nil
		a.clausesView.SetAnalysis(msg.Analysis)
		a.currentView = messages.ViewClauses
		return a, nil

	case messages.ClauseSelected:
		if an := a.clausesView.Analysis(); an != nil {
			a.clauseView.SetClause(an.ID, msg.Clause)
			a.currentView = messages.ViewClause
		}
		return a, nil

	case messages.CommentSaved:
		var c1, c2 tea.Cmd
		a.clauseView, c1 = a.clauseView.Update(msg)
		a.clausesView, c2 = a.clausesView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		}
		return a, tea.Batch(c1, c2)

	case messages.AnalysesLoaded, messages.AnalysisDeleted:
		a.analysesView, cmd = a.analysesView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes a message to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewAnalyses:
		a.analysesView, cmd = a.analysesView.Update(msg)
	case messages.ViewClauses:
		a.clausesView, cmd = a.clausesView.Update(msg)
	case messages.ViewClause:
		a.clauseView, cmd = a.clauseView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewClauses:
		return a.clausesView.View()
	case messages.ViewClause:
		return a.clauseView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.analysesView.View()
	}
}

func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(fmt.Sprintf("  %-10s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] close help"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Analysis returns the analysis under review, if any.
func (a *App) Analysis() *domain.Analysis {
	return a.clausesView.Analysis()
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.analysesView.SetDimensions(width, height)
	a.clausesView.SetDimensions(width, height)
	a.clauseView.SetDimensions(width, height)
}
