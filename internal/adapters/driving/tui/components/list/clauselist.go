// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// filterCycle is the order the tier filter steps through. The empty
// tier shows every clause.
var filterCycle = []domain.Tier{"", domain.TierHigh, domain.TierMedium, domain.TierLow}

// ClauseList displays clause results in a navigable, tier-filterable list.
type ClauseList struct {
	clauses  []domain.ClauseResult
	visible  []int
	filter   domain.Tier
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewClauseList creates a new clause list component.
func NewClauseList(s *styles.Styles) *ClauseList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ClauseList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the clause list.
func (l *ClauseList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *ClauseList) Update(msg tea.Msg) (*ClauseList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		case "f", "tab":
			l.CycleFilter()
		}
	}
	return l, nil
}

// View renders the clause list.
func (l *ClauseList) View() string {
	if len(l.visible) == 0 {
		if len(l.clauses) == 0 {
			return l.styles.Muted.Render("No clauses")
		}
		return l.styles.Muted.Render(fmt.Sprintf("No %s risk clauses", l.filter))
	}

	lines := make([]string, 0, len(l.visible)*2)

	// Each clause takes two lines: header and preview
	visibleCount := (l.height - 2) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(l.visible) {
		end = len(l.visible)
	}

	for i := start; i < end; i++ {
		lines = append(lines, l.renderClause(i, &l.clauses[l.visible[i]]))
	}

	if len(l.visible) > visibleCount {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(l.visible))))
	}

	return strings.Join(lines, "\n")
}

func (l *ClauseList) renderClause(index int, c *domain.ClauseResult) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	header := fmt.Sprintf("%s#%-3d %-6s score %d", indicator, c.Ordinal, c.Tier, c.Score)
	var headerLine string
	if index == l.selected {
		headerLine = l.styles.Selected.Render(header)
	} else {
		headerLine = l.styles.Tier(c.Tier).Render(header)
	}
	if len(c.Reasons) > 0 {
		headerLine += l.styles.Muted.Render("  " + strings.Join(c.Reasons, ", "))
	}

	preview := []rune(strings.Join(strings.Fields(c.Text), " "))
	maxPreview := l.width - 8
	if maxPreview < 20 {
		maxPreview = 20
	}
	if len(preview) > maxPreview {
		preview = append(preview[:maxPreview-3], []rune("...")...)
	}

	return headerLine + "\n" + l.styles.Normal.Render("      "+string(preview))
}

// SetClauses replaces the list contents and keeps the current filter.
func (l *ClauseList) SetClauses(clauses []domain.ClauseResult) {
	l.clauses = clauses
	l.refilter()
}

// Clauses returns every clause, ignoring the filter.
func (l *ClauseList) Clauses() []domain.ClauseResult {
	return l.clauses
}

// SetFilter shows only clauses of the given tier. The empty tier shows all.
func (l *ClauseList) SetFilter(t domain.Tier) {
	l.filter = t
	l.refilter()
}

// Filter returns the active tier filter.
func (l *ClauseList) Filter() domain.Tier {
	return l.filter
}

// CycleFilter steps the filter through all, High, Medium and Low.
func (l *ClauseList) CycleFilter() {
	next := 0
	for i, t := range filterCycle {
		if t == l.filter {
			next = (i + 1) % len(filterCycle)
			break
		}
	}
	l.SetFilter(filterCycle[next])
}

// UpdateComment sets the comment on the clause with the given ordinal.
func (l *ClauseList) UpdateComment(ordinal int, comment string) {
	for i := range l.clauses {
		if l.clauses[i].Ordinal == ordinal {
			l.clauses[i].Comment = comment
			return
		}
	}
}

func (l *ClauseList) refilter() {
	l.visible = l.visible[:0]
	for i := range l.clauses {
		if l.filter == "" || l.clauses[i].Tier == l.filter {
			l.visible = append(l.visible, i)
		}
	}
	l.selected = 0
}

// Selected returns the index of the selected clause among the visible ones.
func (l *ClauseList) Selected() int {
	return l.selected
}

// SelectedClause returns the currently selected clause, or nil if none.
func (l *ClauseList) SelectedClause() *domain.ClauseResult {
	if l.selected < 0 || l.selected >= len(l.visible) {
		return nil
	}
	return &l.clauses[l.visible[l.selected]]
}

// MoveUp moves selection up.
func (l *ClauseList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *ClauseList) MoveDown() {
	if l.selected < len(l.visible)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *ClauseList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of clauses passing the filter.
func (l *ClauseList) Count() int {
	return len(l.visible)
}

// IsEmpty returns whether no clause passes the filter.
func (l *ClauseList) IsEmpty() bool {
	return len(l.visible) == 0
}
