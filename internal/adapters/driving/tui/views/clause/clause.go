// Package clause provides the clause detail view: the highlighted text,
// the risk finding, the rewrite suggestion and the reviewer comment.
package clause

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
)

// View is the clause detail view.
type View struct {
	styles     *styles.Styles
	service    driving.AnalysisService
	comment    *input.CommentInput
	analysisID string
	clause     *domain.ClauseResult

	lines        []string
	scrollOffset int
	editing      bool
	width        int
	height       int
	err          error
}

// NewView creates a new clause detail view.
func NewView(s *styles.Styles, service driving.AnalysisService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		service: service,
		comment: input.NewCommentInput(s),
		width:   80,
		height:  24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetClause shows a clause of the given analysis.
func (v *View) SetClause(analysisID string, c domain.ClauseResult) {
	v.analysisID = analysisID
	v.clause = &c
	v.scrollOffset = 0
	v.editing = false
	v.err = nil
	v.comment.Blur()
	v.comment.SetValue(c.Comment)
	v.layout()
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.CommentSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		if v.clause != nil && msg.Ordinal == v.clause.Ordinal {
			v.clause.Comment = msg.Comment
			v.layout()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "c":
		if v.clause != nil {
			v.editing = true
			return v, v.comment.Focus()
		}
	case "esc":
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewClauses} }
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type { //nolint:exhaustive // only submit and cancel are special
	case tea.KeyEnter:
		v.editing = false
		v.comment.Blur()
		return v, v.saveComment(v.comment.Value())
	case tea.KeyEsc:
		v.editing = false
		v.comment.Blur()
		if v.clause != nil {
			v.comment.SetValue(v.clause.Comment)
		}
		return v, nil
	}
	var cmd tea.Cmd
	v.comment, cmd = v.comment.Update(msg)
	return v, cmd
}

func (v *View) saveComment(text string) tea.Cmd {
	id, ordinal := v.analysisID, v.clause.Ordinal
	return func() tea.Msg {
		if v.service == nil {
			return messages.CommentSaved{AnalysisID: id, Ordinal: ordinal, Err: errors.New("analysis service not available")}
		}
		text = strings.TrimSpace(text)
		err := v.service.Comment(context.Background(), id, ordinal, text)
		return messages.CommentSaved{AnalysisID: id, Ordinal: ordinal, Comment: text, Err: err}
	}
}

// layout renders the clause body into wrapped lines for scrolling.
func (v *View) layout() {
	v.lines = nil
	if v.clause == nil {
		return
	}
	c := v.clause
	width := max(v.width-4, 20)
	wrap := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	b.WriteString(v.styles.Tier(c.Tier).Render(fmt.Sprintf("%s risk", c.Tier)))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  score %d", c.Score)))
	if c.ScoredBy != "" {
		b.WriteString(v.styles.Muted.Render("  scored by " + c.ScoredBy))
	}
	b.WriteString("\n\n")
	b.WriteString(wrap.Render(styles.Highlight(c.Text, c.Reasons, v.styles.Highlight)))
	b.WriteString("\n\n")

	if len(c.Reasons) > 0 {
		b.WriteString(v.styles.Subtitle.Render("Matched terms"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(strings.Join(c.Reasons, ", ")))
		b.WriteString("\n\n")
	}
	if c.Explanation != "" {
		b.WriteString(v.styles.Subtitle.Render("Why"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(c.Explanation))
		b.WriteString("\n\n")
	}
	if c.Suggestion != nil {
		b.WriteString(v.styles.Subtitle.Render("Suggested rewrite"))
		b.WriteString("\n")
		b.WriteString(v.styles.Suggestion.Width(width - 4).Render(*c.Suggestion))
		b.WriteString("\n\n")
	}
	if c.Template != nil {
		b.WriteString(v.styles.Muted.Render("Closest template: " + *c.Template))
		b.WriteString("\n\n")
	}
	if c.Comment != "" {
		b.WriteString(v.styles.Subtitle.Render("Reviewer comment"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(c.Comment))
	}

	v.lines = strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

func (v *View) visibleLines() int {
	// title, separator, input and help
	return max(v.height-8, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the clause detail view.
func (v *View) View() string {
	var b strings.Builder

	if v.clause == nil {
		b.WriteString(v.styles.Muted.Render("No clause selected."))
		return b.String()
	}

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Clause %d", v.clause.Ordinal)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	end := min(v.scrollOffset+v.visibleLines(), len(v.lines))
	b.WriteString(strings.Join(v.lines[v.scrollOffset:end], "\n"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	}

	if v.editing {
		b.WriteString(v.comment.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
		return b.String()
	}
	b.WriteString(v.styles.Help.Render("[↑/↓] scroll  [c] comment  [esc] back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.comment.SetWidth(width)
	v.layout()
}

// Clause returns the clause on display.
func (v *View) Clause() *domain.ClauseResult {
	return v.clause
}

// Editing reports whether the comment input has focus.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
