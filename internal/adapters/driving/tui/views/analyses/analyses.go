// Package analyses provides the stored analyses list view for the TUI.
package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
)

var errServiceUnavailable = errors.New("analysis service not available")

// View lists stored analyses, newest first.
type View struct {
	styles   *styles.Styles
	service  driving.AnalysisService
	analyses []domain.AnalysisSummary

	selected      int
	scrollOffset  int
	width         int
	height        int
	loading       bool
	confirmDelete bool
	err           error
}

// NewView creates a new analyses view.
func NewView(s *styles.Styles, service driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		service:  service,
		analyses: []domain.AnalysisSummary{},
	}
}

// Init loads the listing.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *View) load() tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.AnalysesLoaded{Err: errServiceUnavailable}
		}
		list, err := v.service.List(context.Background())
		return messages.AnalysesLoaded{Analyses: list, Err: err}
	}
}

func (v *View) remove(id string) tea.Cmd {
	return func() tea.Msg {
		if v.service == nil {
			return messages.AnalysisDeleted{ID: id, Err: errServiceUnavailable}
		}
		return messages.AnalysisDeleted{ID: id, Err: v.service.Delete(context.Background(), id)}
	}
}

// Update handles messages for the analyses view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirmDelete {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.AnalysesLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.analyses = msg.Analyses
			if v.selected >= len(v.analyses) {
				v.selected = max(len(v.analyses)-1, 0)
			}
		}
		return v, nil

	case messages.AnalysisDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.loading = true
		return v, v.load()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.analyses)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if a := v.SelectedAnalysis(); a != nil {
			id := a.ID
			return v, func() tea.Msg { return messages.AnalysisSelected{ID: id} }
		}
	case "d":
		if v.SelectedAnalysis() != nil {
			v.confirmDelete = true
		}
	case "r":
		v.loading = true
		return v, v.load()
	case "q", "esc":
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirmDelete = false
	if msg.String() == "y" {
		if a := v.SelectedAnalysis(); a != nil {
			return v, v.remove(a.ID)
		}
	}
	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, blank, footer and padding
	return max(v.height-6, 1)
}

// View renders the analyses list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Analyses (%d)", len(v.analyses))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading analyses..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.analyses) == 0:
		b.WriteString(v.styles.Muted.Render("No saved analyses. Run `clauseguard analyze --save <file>` first."))
	default:
		end := min(v.scrollOffset+v.visibleItemCount(), len(v.analyses))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderAnalysis(i, &v.analyses[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	if v.confirmDelete {
		if a := v.SelectedAnalysis(); a != nil {
			b.WriteString(v.styles.Error.Render(fmt.Sprintf("Delete %q? [y/N]", a.Name)))
			return b.String()
		}
	}
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] review  [d] delete  [r] reload  [q] quit"))
	return b.String()
}

func (v *View) renderAnalysis(index int, a *domain.AnalysisSummary) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := []rune(a.Name)
	maxName := max(v.width/2-4, 10)
	if len(name) > maxName {
		name = append(name[:maxName-3], []rune("...")...)
	}

	line := fmt.Sprintf("%s%-*s", indicator, maxName, string(name))
	counts := fmt.Sprintf("  %2d clauses  H%d M%d  %s",
		a.ClauseCount, a.Counts.High, a.Counts.Medium, a.CreatedAt.Local().Format("2006-01-02 15:04"))

	if index == v.selected {
		return v.styles.Selected.Render(line + counts)
	}
	return v.styles.Normal.Render(line) + v.styles.Muted.Render(counts)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Analyses returns the loaded listing.
func (v *View) Analyses() []domain.AnalysisSummary {
	return v.analyses
}

// SelectedAnalysis returns the highlighted analysis, or nil when the list is empty.
func (v *View) SelectedAnalysis() *domain.AnalysisSummary {
	if v.selected < 0 || v.selected >= len(v.analyses) {
		return nil
	}
	return &v.analyses[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
