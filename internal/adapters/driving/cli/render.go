package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// digestClauses is how many clauses `analysis show` prints without --all.
const digestClauses = 5

// renderer writes analyses for humans. Styling is applied only when
// stdout is a terminal.
type renderer struct {
	w      io.Writer
	color  bool
	styles *styles.Styles
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{
		w:      w,
		color:  w == io.Writer(os.Stdout) && term.IsTerminal(int(os.Stdout.Fd())),
		styles: styles.DefaultStyles(),
	}
}

func (r *renderer) style(s lipgloss.Style) lipgloss.Style {
	if r.color {
		return s
	}
	return lipgloss.NewStyle()
}

func (r *renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

// header prints the analysis identity, language and plausibility.
func (r *renderer) header(a *domain.Analysis) {
	r.printf("%s\n", r.style(r.styles.Title).Render(a.Name))
	if a.ID != "" {
		r.printf("  ID:           %s\n", a.ID)
	}
	if a.Format != "" {
		r.printf("  Format:       %s\n", a.Format)
	}
	r.printf("  Language:     %s\n", a.Language)
	r.printf("  Segmentation: %s\n", a.Segmentation)
	if !a.Plausibility.Plausible {
		r.printf("  %s\n", r.style(r.styles.Error).Render(
			"Warning: this document does not look like a contract. Results may be unreliable."))
	}
	r.printf("\n%s\n\n", a.Summary)
}

// clause prints one clause result with its matched terms highlighted.
func (r *renderer) clause(c domain.ClauseResult) {
	tier := r.style(r.styles.Tier(c.Tier)).Render(fmt.Sprintf("[%s]", c.Tier))
	r.printf("%d. %s score %d\n", c.Ordinal, tier, c.Score)
	r.printf("   %s\n", r.highlight(c.Text, c.Reasons))
	if len(c.Reasons) > 0 {
		r.printf("   Matched: %s\n", strings.Join(c.Reasons, ", "))
	}
	if c.Explanation != "" {
		r.printf("   Why: %s\n", c.Explanation)
	}
	if c.Suggestion != nil {
		r.printf("   %s %s\n", r.style(r.styles.Suggestion).Render("Suggested:"), *c.Suggestion)
	}
	if c.Template != nil {
		r.printf("   Template: %s\n", *c.Template)
	}
	if c.Comment != "" {
		r.printf("   Comment: %s\n", c.Comment)
	}
	r.printf("\n")
}

func (r *renderer) highlight(text string, phrases []string) string {
	if !r.color {
		return text
	}
	return styles.Highlight(text, phrases, r.styles.Highlight)
}

// analysis prints the full report, or the digest when limit > 0.
func (r *renderer) analysis(a *domain.Analysis, limit int) {
	r.header(a)
	clauses := a.Clauses
	if limit > 0 && len(clauses) > limit {
		clauses = clauses[:limit]
	}
	for _, c := range clauses {
		r.clause(c)
	}
	if rest := len(a.Clauses) - len(clauses); rest > 0 {
		r.printf("%s\n", r.style(r.styles.Muted).Render(
			fmt.Sprintf("... %d more clauses (use --all to show every clause)", rest)))
	}
}
