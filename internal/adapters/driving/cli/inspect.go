package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

var (
	inspectJSON   bool
	scoreLang     string
	suggestTier   string
	suggestReason []string
)

var segmentCmd = &cobra.Command{
	Use:   "segment [file]",
	Short: "Split a text contract into clauses",
	Long: `Split a UTF-8 text file into clauses without scoring them.
Prints the segmentation stage that produced the clauses. Use "-" for stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegment,
}

var scoreCmd = &cobra.Command{
	Use:   "score [text]",
	Short: "Score a single clause",
	Long: `Score one clause for legal risk. The language is detected unless --lang is set.

Examples:
  clauseguard score "The Vendor shall indemnify the Client without limitation."
  clauseguard score --lang hi "विक्रेता का असीमित दायित्व होगा।"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Suggest a safer rewrite for a clause",
	Long: `Look up the rewrite suggestion for a clause at the given risk tier.
Low-risk clauses never get a suggestion.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Check whether a text file looks like a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	for _, c := range []*cobra.Command{segmentCmd, scoreCmd, checkCmd} {
		c.Flags().BoolVar(&inspectJSON, "json", false, "Print the result as JSON")
	}
	scoreCmd.Flags().StringVar(&scoreLang, "lang", "", "Clause language (en or hi); detected when empty")
	suggestCmd.Flags().StringVar(&suggestTier, "tier", "", "Risk tier of the clause (Low, Medium or High)")
	suggestCmd.Flags().StringSliceVar(&suggestReason, "reason", nil, "Matched phrase (repeatable)")
	_ = suggestCmd.MarkFlagRequired("tier")

	rootCmd.AddCommand(segmentCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(checkCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	text, err := readText(cmd, args[0])
	if err != nil {
		return err
	}

	clauses, stage := analysisService.Segment(text)
	if inspectJSON {
		if clauses == nil {
			clauses = []domain.Clause{}
		}
		return printJSON(cmd, map[string]any{"stage": stage, "clauses": clauses})
	}

	if len(clauses) == 0 {
		cmd.Println("No clauses found.")
		return nil
	}
	cmd.Printf("%d clauses (%s)\n\n", len(clauses), stage)
	for _, c := range clauses {
		cmd.Printf("%d. %s\n\n", c.Ordinal, c.Text)
	}
	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	clause := strings.Join(args, " ")

	lang := domain.ParseLanguage(scoreLang)
	if scoreLang != "" && lang == domain.LanguageUnknown {
		return fmt.Errorf("invalid --lang %q: must be en or hi", scoreLang)
	}
	if lang == domain.LanguageUnknown {
		lang = analysisService.DetectLanguage(clause)
	}

	f, err := analysisService.ScoreClause(cmd.Context(), clause, lang)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	if inspectJSON {
		return printJSON(cmd, f)
	}

	cmd.Printf("Tier:      %s\n", f.Tier)
	cmd.Printf("Score:     %d\n", f.Score)
	cmd.Printf("Language:  %s\n", lang)
	if len(f.Reasons) > 0 {
		cmd.Printf("Matched:   %s\n", strings.Join(f.Reasons, ", "))
	}
	if f.Explanation != "" {
		cmd.Printf("Why:       %s\n", f.Explanation)
	}
	if f.ScoredBy != "" {
		cmd.Printf("Scored by: %s\n", f.ScoredBy)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	tier, err := domain.ParseTier(suggestTier)
	if err != nil {
		return err
	}

	s := analysisService.Suggest(strings.Join(args, " "), tier, suggestReason)
	if s == nil {
		cmd.Println("No suggestion.")
		return nil
	}
	cmd.Println(*s)
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := requireAnalysis(); err != nil {
		return err
	}
	text, err := readText(cmd, args[0])
	if err != nil {
		return err
	}

	v := analysisService.CheckPlausibility(text)
	if inspectJSON {
		if v.Signals == nil {
			v.Signals = []string{}
		}
		return printJSON(cmd, v)
	}

	if v.Plausible {
		cmd.Printf("Looks like a contract (score %d)\n", v.Score)
	} else {
		cmd.Printf("Does not look like a contract (score %d)\n", v.Score)
	}
	if len(v.Signals) > 0 {
		cmd.Printf("Signals: %s\n", strings.Join(v.Signals, ", "))
	}
	return nil
}

// readText loads a UTF-8 text file. Binary formats go through analyze.
func readText(cmd *cobra.Command, path string) (string, error) {
	raw, err := readDocument(cmd, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw.Content) {
		return "", fmt.Errorf("%s is not UTF-8 text; use analyze for PDF and DOCX files", raw.Name)
	}
	return string(raw.Content), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
