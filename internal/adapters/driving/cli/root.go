// Package cli provides the cobra command tree for clauseguard.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Annotation values that tell the root command how much to bootstrap.
const (
	annotationBootstrap = "bootstrap"
	bootstrapNone       = "none"
	bootstrapConfig     = "config"
)

// Options carries command-line overrides into the bootstrap.
type Options struct {
	// Home overrides the clauseguard home directory.
	Home string

	// ConfigOnly asks for settings and templates without the pipeline.
	ConfigOnly bool

	// Scorer overrides scoring.scorer for this run.
	Scorer string

	// Workers overrides scoring.workers for this run. Zero keeps the setting.
	Workers int
}

// Services are the driving ports the commands run against.
type Services struct {
	Analysis  driving.AnalysisService
	Settings  driving.SettingsService
	Templates driving.TemplateService

	// Metrics serves the Prometheus exposition for `serve`. Optional.
	Metrics http.Handler

	// Extensions limits `watch` to files the extractors can read.
	Extensions []string
}

// BootstrapFunc builds the services for one invocation. The returned
// function releases whatever the services hold open.
type BootstrapFunc func(opts Options) (*Services, func(), error)

var (
	analysisService driving.AnalysisService
	settingsService driving.SettingsService
	templateService driving.TemplateService
	metricsHandler  http.Handler
	watchExtensions []string

	bootstrap BootstrapFunc
	release   func()

	verbose bool
	homeDir string
)

var rootCmd = &cobra.Command{
	Use:   "clauseguard",
	Short: "Clause-level risk review for English and Hindi contracts",
	Long: `clauseguard splits a contract into clauses, scores each clause for legal
risk, explains the verdict and proposes a safer rewrite.

Documents may be plain text, Markdown, HTML, e-mail (.eml), PDF or DOCX,
in English or Hindi.
Analyses can be saved, reviewed in a terminal UI, and served over REST or MCP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) { teardown() },
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "clauseguard home directory (default ~/.clauseguard)")
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing the bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	analysisService = s.Analysis
	settingsService = s.Settings
	templateService = s.Templates
	metricsHandler = s.Metrics
	watchExtensions = s.Extensions
}

// SetVersion records the build version printed by `version`.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	teardown()

	mode := cmd.Annotations[annotationBootstrap]
	if bootstrap == nil || mode == bootstrapNone {
		return nil
	}

	opts, err := overrides(cmd)
	if err != nil {
		return err
	}
	opts.Home = homeDir
	opts.ConfigOnly = mode == bootstrapConfig

	svcs, done, err := bootstrap(opts)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(svcs)
	release = done
	return nil
}

func teardown() {
	if release != nil {
		release()
		release = nil
	}
}

// overrides reads the per-run scorer flags when the command defines them.
func overrides(cmd *cobra.Command) (Options, error) {
	var opts Options
	if f := cmd.Flags().Lookup("scorer"); f != nil && f.Changed {
		switch f.Value.String() {
		case "keyword", "llm":
			opts.Scorer = f.Value.String()
		default:
			return opts, fmt.Errorf("invalid --scorer %q: must be keyword or llm", f.Value.String())
		}
	}
	if f := cmd.Flags().Lookup("workers"); f != nil && f.Changed {
		n, err := cmd.Flags().GetInt("workers")
		if err != nil {
			return opts, err
		}
		if n < 0 {
			return opts, errors.New("invalid --workers: must not be negative")
		}
		opts.Workers = n
	}
	return opts, nil
}

func requireAnalysis() error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}
	return nil
}
