package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:         "templates",
	Short:       "Browse the clause template library",
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clause templates",
	Long: `List the reviewed clause templates used as rewrite starting points.
Edit templates.toml in the clauseguard home to add your own.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runTemplatesList,
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	list, err := templateService.List()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	if len(list) == 0 {
		cmd.Println("No templates.")
		return nil
	}
	for i, t := range list {
		cmd.Printf("%d. %s\n", i+1, t.Title)
		if t.Description != "" {
			cmd.Printf("   %s\n", t.Description)
		}
		cmd.Printf("   %s\n\n", t.Text)
	}
	if p := templateService.Path(); p != "" {
		cmd.Printf("Source: %s\n", p)
	}
	return nil
}
