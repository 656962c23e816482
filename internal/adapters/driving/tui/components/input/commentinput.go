// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
)

// CommentInput wraps a bubbles textinput for reviewer comments.
type CommentInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewCommentInput creates a new comment input component.
func NewCommentInput(s *styles.Styles) *CommentInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Add a reviewer note..."
	ti.CharLimit = 1024
	ti.Width = 50

	return &CommentInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init initialises the comment input.
func (c *CommentInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (c *CommentInput) Update(msg tea.Msg) (*CommentInput, tea.Cmd) {
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the comment input.
func (c *CommentInput) View() string {
	label := c.styles.Title.Render("Comment: ")
	field := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (c *CommentInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *CommentInput) SetValue(value string) {
	c.textinput.SetValue(value)
}

// Focus sets focus on the input.
func (c *CommentInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *CommentInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *CommentInput) Focused() bool {
	return c.textinput.Focused()
}

// SetWidth sets the width of the input.
func (c *CommentInput) SetWidth(width int) {
	c.width = width
	inputWidth := width - 14
	if inputWidth < 20 {
		inputWidth = 20
	}
	c.textinput.Width = inputWidth
}

// Reset clears the input.
func (c *CommentInput) Reset() {
	c.textinput.Reset()
}
