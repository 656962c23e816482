package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/services"
	"github.com/custodia-labs/clauseguard/internal/extractors"
)

const scenario = "1. The Employee shall indemnify the Company without limitation. " +
	"2. This Agreement is governed by the laws of Delhi."

// newTestServices wires a keyword-only pipeline over in-memory storage.
func newTestServices() *Services {
	return &Services{
		Analysis: services.NewAnalysisService(domain.DefaultRuleSet(),
			services.WithExtractors(extractors.NewDefaultRegistry()),
			services.WithStore(memory.NewAnalysisStore()),
			services.WithWorkers(2),
		),
		Settings:  services.NewSettingsService(memory.NewConfigStore()),
		Templates: services.NewTemplateService(nil),
	}
}

// setupTestServices installs test services and returns a cleanup that
// restores the package state, including flag variables.
func setupTestServices() func() {
	origBootstrap := bootstrap
	bootstrap = nil
	SetServices(newTestServices())

	return func() {
		SetServices(nil)
		bootstrap = origBootstrap
		resetFlags()
	}
}

func resetFlags() {
	verbose, homeDir = false, ""
	analyzeName, analyzeJSON, analyzeSave, analyzeNoCache = "", false, false, false
	inspectJSON, scoreLang, suggestTier, suggestReason = false, "", "", nil
	analysisJSON, analysisAll, analysisOutput = false, false, ""
	serveAddr, serveMCP, mcpAddr = "", false, ""
	watchScan, watchOnce, watchSettle = false, false, 0
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func saveScenario(t *testing.T) *domain.Analysis {
	t.Helper()
	a, err := analysisService.AnalyzeText(context.Background(), "msa.txt", scenario, domain.AnalyzeOptions{Save: true})
	require.NoError(t, err)
	return a
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "clauseguard", rootCmd.Use)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	want := []string{
		"analyze", "segment", "score", "suggest", "check", "analysis",
		"templates", "settings", "serve", "mcp", "watch", "review", "version",
	}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "missing command %s", name)
	}
}

func TestSetServices_NilClears(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	SetServices(nil)

	assert.Nil(t, analysisService)
	assert.Nil(t, settingsService)
	assert.Nil(t, templateService)
}

func TestSetup_BootstrapReceivesOverrides(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var got Options
	released := false
	SetBootstrap(func(opts Options) (*Services, func(), error) {
		got = opts
		return newTestServices(), func() { released = true }, nil
	})

	path := writeFile(t, "msa.txt", scenario)
	_, err := execute(t, "--home", "/tmp/cg-home", "analyze", "--scorer", "keyword", "--workers", "3", path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/cg-home", got.Home)
	assert.Equal(t, "keyword", got.Scorer)
	assert.Equal(t, 3, got.Workers)
	assert.False(t, got.ConfigOnly)
	assert.True(t, released)
}

func TestSetup_ConfigOnlyForSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	var got Options
	SetBootstrap(func(opts Options) (*Services, func(), error) {
		got = opts
		return newTestServices(), nil, nil
	})

	out, err := execute(t, "settings", "path")

	require.NoError(t, err)
	assert.True(t, got.ConfigOnly)
	assert.Contains(t, out, ":memory:")
}

func TestSetup_BootstrapError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	SetBootstrap(func(Options) (*Services, func(), error) {
		return nil, nil, errors.New("disk full")
	})

	_, err := execute(t, "analysis", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialising")
	assert.Contains(t, err.Error(), "disk full")
}

func TestOverrides_RejectsUnknownScorer(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	SetBootstrap(func(Options) (*Services, func(), error) {
		t.Fatal("bootstrap should not run")
		return nil, nil, nil
	})

	_, err := execute(t, "analyze", "--scorer", "magic", "x.txt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --scorer")
}

func TestCommands_WithoutServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	SetServices(nil)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"analyze", "x.txt"}, "analysis service not configured"},
		{[]string{"segment", "x.txt"}, "analysis service not configured"},
		{[]string{"analysis", "list"}, "analysis service not configured"},
		{[]string{"templates", "list"}, "template service not configured"},
		{[]string{"settings", "show"}, "settings service not configured"},
		{[]string{"watch", "."}, "analysis service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
