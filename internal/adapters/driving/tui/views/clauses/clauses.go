// Package clauses provides the clause review list for one analysis.
package clauses

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// View shows the clauses of one analysis with a tier filter.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	list     *list.ClauseList
	bar      *status.Bar
	analysis *domain.Analysis
	width    int
	height   int
	err      error
}

// NewView creates a new clause list view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	km := keymap.DefaultKeyMap()
	return &View{
		styles: s,
		keymap: km,
		list:   list.NewClauseList(s),
		bar:    status.NewBar(s, km),
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetAnalysis loads an analysis into the view and clears the filter.
func (v *View) SetAnalysis(a *domain.Analysis) {
	v.analysis = a
	v.err = nil
	v.list.SetFilter("")
	if a == nil {
		v.list.SetClauses(nil)
		v.bar.Clear()
		return
	}
	v.list.SetClauses(a.Clauses)
	v.bar.SetState(status.StateReviewing)
	v.bar.SetCounts(a.Counts)
	v.bar.SetFilter("")
}

// Update handles messages for the clause list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Select):
			if c := v.list.SelectedClause(); c != nil {
				clause := *c
				return v, func() tea.Msg { return messages.ClauseSelected{Clause: clause} }
			}
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.Back):
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewAnalyses} }
		}
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		v.bar.SetFilter(v.list.Filter())
		return v, cmd

	case messages.CommentSaved:
		if msg.Err == nil && v.analysis != nil && msg.AnalysisID == v.analysis.ID {
			v.list.UpdateComment(msg.Ordinal, msg.Comment)
			v.bar.SetMessage("comment saved")
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

// View renders the clause list.
func (v *View) View() string {
	var b strings.Builder

	if v.analysis == nil {
		b.WriteString(v.styles.Muted.Render("No analysis loaded."))
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(v.analysis.Name))
	b.WriteString("  ")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%s · %s segmentation", v.analysis.Language, v.analysis.Segmentation)))
	b.WriteString("\n")
	b.WriteString(v.styles.Normal.Render(v.analysis.Summary))
	b.WriteString("\n")
	if !v.analysis.Plausibility.Plausible {
		b.WriteString(v.styles.Error.Render("This document may not be a legal contract."))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	b.WriteString(v.list.View())
	b.WriteString("\n\n")
	b.WriteString(v.bar.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	// header, summary, warnings and status bar
	v.list.SetDimensions(width, max(height-8, 2))
	v.bar.SetWidth(width)
}

// Analysis returns the analysis under review.
func (v *View) Analysis() *domain.Analysis {
	return v.analysis
}

// List exposes the clause list component.
func (v *View) List() *list.ClauseList {
	return v.list
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
