package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/core/services"
)

var (
	analysisJSON   bool
	analysisAll    bool
	analysisOutput string
)

var analysisCmd = &cobra.Command{
	Use:     "analysis",
	Aliases: []string{"analyses"},
	Short:   "Manage saved analyses",
	Long:    `List, inspect, annotate, export and delete saved contract analyses.`,
}

var analysisListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses",
	Args:  cobra.NoArgs,
	RunE:  runAnalysisList,
}

var analysisShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a saved analysis",
	Long: `Show the summary of a saved analysis followed by its first clauses.
Use --all to print every clause.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalysisShow,
}

var analysisDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysisDelete,
}

var analysisCommentCmd = &cobra.Command{
	Use:   "comment [id] [ordinal] [text]",
	Short: "Attach a reviewer comment to a clause",
	Long: `Attach a reviewer comment to one clause of a saved analysis.
An empty comment clears it.

Example:
  clauseguard analysis comment 3f2a... 4 "Negotiate a 12 month cap"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAnalysisComment,
}

var analysisExportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a saved analysis as JSON",
	Long:  `Write a saved analysis as indented UTF-8 JSON for audit, to stdout or a file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysisExport,
}

func init() {
	analysisListCmd.Flags().BoolVar(&analysisJSON, "json", false, "Print as JSON")
	analysisShowCmd.Flags().BoolVar(&analysisJSON, "json", false, "Print as JSON")
	analysisShowCmd.Flags().BoolVar(&analysisAll, "all", false, "Print every clause")
	analysisExportCmd.Flags().StringVarP(&analysisOutput, "output", "o", "", "Output file (default stdout)")

	analysisCmd.AddCommand(analysisListCmd)
	analysisCmd.AddCommand(analysisShowCmd)
	analysisCmd.AddCommand(analysisDeleteCmd)
	analysisCmd.AddCommand(analysisCommentCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	rootCmd.AddCommand(analysisCmd)
}

func runAnalysisList(cmd *cobra.Command, _ []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	list, err := analysisService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}

	if analysisJSON {
		return services.WriteJSON(cmd.OutOrStdout(), list)
	}

	if len(list) == 0 {
		cmd.Println("No saved analyses. Run 'clauseguard analyze --save <file>' to add one.")
		return nil
	}

	cmd.Printf("%-36s  %-30s  %-4s  %7s  %4s  %4s  %4s  %s\n",
		"ID", "NAME", "LANG", "CLAUSES", "HIGH", "MED", "LOW", "CREATED")
	for _, s := range list {
		name := s.Name
		if !s.Plausible {
			name = "! " + name
		}
		cmd.Printf("%-36s  %-30s  %-4s  %7d  %4d  %4d  %4d  %s\n",
			s.ID, truncate(name, 30), s.Language, s.ClauseCount,
			s.Counts.High, s.Counts.Medium, s.Counts.Low,
			s.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runAnalysisShow(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	a, err := analysisService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	if analysisJSON {
		return services.WriteJSON(cmd.OutOrStdout(), a)
	}

	limit := digestClauses
	if analysisAll {
		limit = 0
	}
	newRenderer(cmd.OutOrStdout()).analysis(a, limit)
	return nil
}

func runAnalysisDelete(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	if err := analysisService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	cmd.Printf("Deleted analysis %s\n", args[0])
	return nil
}

func runAnalysisComment(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	ordinal, err := strconv.Atoi(args[1])
	if err != nil || ordinal < 1 {
		return fmt.Errorf("invalid clause number %q", args[1])
	}
	comment := strings.TrimSpace(strings.Join(args[2:], " "))

	if err := analysisService.Comment(cmd.Context(), args[0], ordinal, comment); err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	if comment == "" {
		cmd.Printf("Cleared comment on clause %d\n", ordinal)
	} else {
		cmd.Printf("Saved comment on clause %d\n", ordinal)
	}
	return nil
}

func runAnalysisExport(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	if analysisOutput == "" {
		return analysisService.Export(cmd.Context(), args[0], cmd.OutOrStdout())
	}

	f, err := os.Create(analysisOutput)
	if err != nil {
		return fmt.Errorf("creating %s: %w", analysisOutput, err)
	}
	w := bufio.NewWriter(f)
	if err := analysisService.Export(cmd.Context(), args[0], w); err != nil {
		f.Close()
		os.Remove(analysisOutput)
		return fmt.Errorf("failed to export analysis: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	cmd.Printf("Exported analysis %s to %s\n", args[0], analysisOutput)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
