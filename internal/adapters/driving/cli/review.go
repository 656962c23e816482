package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/adapters/driving/tui"
)

var reviewCmd = &cobra.Command{
	Use:     "review [id]",
	Aliases: []string{"tui"},
	Short:   "Review saved analyses in the terminal UI",
	Long: `Launch the interactive review UI. Without an id it opens the list of
saved analyses; with an id it opens that analysis directly.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open
  f/Tab    - Cycle the risk filter
  c        - Comment on the selected clause
  d        - Delete an analysis
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("panic in review UI: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Analysis: analysisService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())
	if len(args) == 1 {
		app.WithAnalysis(args[0])
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
