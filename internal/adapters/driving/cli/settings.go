package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change storage, scoring, AI provider, cache and server settings.

Settings live in config.toml in the clauseguard home. Any key can be overridden
with an environment variable, e.g. llm.model -> CLAUSEGUARD_LLM_MODEL. API keys
are read only from CLAUSEGUARD_LLM_API_KEY and CLAUSEGUARD_EMBEDDING_API_KEY.`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Validate and save one setting.

Examples:
  clauseguard settings set scoring.scorer llm
  clauseguard settings set cache.backend redis
  clauseguard settings set storage.backend memory`,
	Args:        cobra.ExactArgs(2),
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsSet,
}

var settingsPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsPath,
}

var settingsLLMCmd = &cobra.Command{
	Use:         "llm",
	Short:       "Configure the LLM clause classifier",
	Long:        `Interactively choose the LLM provider and model used by the llm scorer.`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsLLM,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:         "embedding",
	Short:       "Configure the embedding provider",
	Long:        `Interactively choose the embedding provider used to match clause templates.`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsEmbedding,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	values, err := settingsService.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")

	section := ""
	for _, key := range settingsService.Keys() {
		if s, _, _ := strings.Cut(key, "."); s != section {
			section = s
			cmd.Printf("\n[%s]\n", section)
		}
		v := values[key]
		if v == "" {
			v = "(not set)"
		}
		cmd.Printf("  %-26s %s\n", key, v)
	}
	cmd.Println()

	cmd.Printf("LLM API key:       %s\n", apiKeyStatus(settings.LLM.Provider, settings.LLM.APIKey))
	cmd.Printf("Embedding API key: %s\n", apiKeyStatus(settings.Embedding.Provider, settings.Embedding.APIKey))
	cmd.Println()

	cmd.Printf("LLM classifier:    %s\n", configured(settings.LLM.IsConfigured()))
	cmd.Printf("Template matching: %s\n", configured(settings.Embedding.IsConfigured()))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s = %s\n", strings.ToLower(args[0]), strings.TrimSpace(args[1]))
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	cmd.Println(settingsService.Path())
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return configureProvider(cmd, reader, "llm", domain.DefaultLLMModels(), services.EnvLLMAPIKey)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return configureProvider(cmd, reader, "embedding", domain.DefaultEmbeddingModels(), services.EnvEmbeddingAPIKey)
}

var providerChoices = []domain.AIProvider{
	domain.AIProviderOllama,
	domain.AIProviderOpenAI,
	domain.AIProviderNone,
}

// configureProvider prompts for provider, model and base URL under the
// given key prefix ("llm" or "embedding").
func configureProvider(
	cmd *cobra.Command, reader *bufio.Reader, prefix string,
	models map[domain.AIProvider]string, apiKeyEnv string,
) error {
	cmd.Printf("Select %s provider\n", strings.ToUpper(prefix[:1])+prefix[1:])
	for i, p := range providerChoices {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	selected := providerChoices[parseChoice(readLine(reader), len(providerChoices), 1)-1]

	if err := settingsService.Set(prefix+".provider", string(selected)); err != nil {
		return fmt.Errorf("failed to set provider: %w", err)
	}
	if selected == domain.AIProviderNone {
		cmd.Printf("%s disabled.\n", prefix)
		return nil
	}

	defaultModel := models[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}
	if err := settingsService.Set(prefix+".model", model); err != nil {
		return fmt.Errorf("failed to set model: %w", err)
	}

	cmd.Print("Enter base URL (blank for the provider default): ")
	if url := readLine(reader); url != "" {
		if err := settingsService.Set(prefix+".base_url", url); err != nil {
			return fmt.Errorf("failed to set base URL: %w", err)
		}
	}

	cmd.Printf("%s provider configured: %s (%s)\n", prefix, selected.Description(), model)
	if selected.RequiresAPIKey() {
		cmd.Printf("Export %s before running clauseguard.\n", apiKeyEnv)
	}
	return nil
}

func apiKeyStatus(p domain.AIProvider, key string) string {
	if !p.RequiresAPIKey() {
		return "not required"
	}
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configured(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
