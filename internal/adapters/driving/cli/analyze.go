package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/services"
)

var (
	analyzeName    string
	analyzeJSON    bool
	analyzeSave    bool
	analyzeNoCache bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyse a contract for clause-level risk",
	Long: `Extract the text of a contract, split it into clauses and score each
clause for legal risk. Supported formats are plain text, Markdown, HTML,
e-mail (.eml), PDF and DOCX. Use "-" to read from standard input.

Examples:
  clauseguard analyze vendor_agreement.pdf
  clauseguard analyze --save --name "Vendor MSA" msa.docx
  clauseguard analyze --scorer llm --json agreement.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "Name to record instead of the file name")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "Save the analysis for later review")
	analyzeCmd.Flags().BoolVar(&analyzeNoCache, "no-cache", false, "Skip the result cache lookup")
	analyzeCmd.Flags().String("scorer", "", "Primary scorer for this run (keyword or llm)")
	analyzeCmd.Flags().Int("workers", 0, "Parallel clause scorers for this run (0 = setting)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}

	raw, err := readDocument(cmd, args[0])
	if err != nil {
		return err
	}

	a, err := analysisService.AnalyzeDocument(cmd.Context(), raw, domain.AnalyzeOptions{
		Name:    analyzeName,
		Save:    analyzeSave,
		NoCache: analyzeNoCache,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if analyzeJSON {
		return services.WriteJSON(cmd.OutOrStdout(), a)
	}

	newRenderer(cmd.OutOrStdout()).analysis(a, 0)
	if analyzeSave {
		cmd.Printf("Saved as %s\n", a.ID)
	}
	return nil
}

// readDocument loads a file, or standard input for "-", as a raw document.
func readDocument(cmd *cobra.Command, path string) (*domain.RawDocument, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return &domain.RawDocument{Name: "stdin", Content: data}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &domain.RawDocument{Name: filepath.Base(path), Content: data}, nil
}
