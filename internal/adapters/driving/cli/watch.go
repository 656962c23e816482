package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/connectors/filesystem"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

var (
	watchScan   bool
	watchSettle time.Duration
	watchOnce   bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyse contracts dropped into an inbox directory",
	Long: `Watch a directory and analyse every contract file that appears in it.
Each analysis is saved so it can be reviewed with 'clauseguard review'.
Hidden files and unsupported formats are ignored.

Examples:
  clauseguard watch ~/contracts/inbox
  clauseguard watch --scan --once ./incoming`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "Analyse files already in the directory first")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Exit after the initial scan")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", filesystem.DefaultSettle,
		"How long a file must be unchanged before it is analysed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	ctx := cmd.Context()

	w := filesystem.New(args[0],
		filesystem.WithExtensions(watchExtensions),
		filesystem.WithSettle(watchSettle),
	)
	defer w.Close()

	if err := w.Validate(ctx); err != nil {
		return err
	}

	if watchScan || watchOnce {
		existing, err := w.Scan(ctx)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", args[0], err)
		}
		for _, c := range existing {
			analyzeChange(ctx, cmd, c)
		}
		if watchOnce {
			return nil
		}
	}

	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.RootPath())

	for c := range changes {
		analyzeChange(ctx, cmd, c)
	}
	return nil
}

// analyzeChange analyses and saves one inbox file. Failures are reported
// and the watch continues.
func analyzeChange(ctx context.Context, cmd *cobra.Command, c filesystem.Change) {
	name := filepath.Base(c.Path)

	data, err := os.ReadFile(c.Path)
	if err != nil {
		logger.Warn("inbox: %s: %v", c.Path, err)
		cmd.PrintErrf("skipped %s: %v\n", name, err)
		return
	}

	raw := &domain.RawDocument{Name: name, MIMEType: c.MIMEType, Content: data}
	a, err := analysisService.AnalyzeDocument(ctx, raw, domain.AnalyzeOptions{Save: true})
	if err != nil {
		logger.Warn("inbox: %s: %v", c.Path, err)
		cmd.PrintErrf("failed %s: %v\n", name, err)
		return
	}

	flag := ""
	if !a.Plausibility.Plausible {
		flag = " (not a contract?)"
	}
	cmd.Printf("%s  %s  %s%s\n", a.ID, name, a.Summary, flag)
}
