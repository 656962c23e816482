package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func TestAnalysisListCmd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "analysis", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No saved analyses")
}

func TestAnalysisListCmd_Table(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	out, err := execute(t, "analysis", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "CLAUSES")
	assert.Contains(t, out, a.ID)
	assert.Contains(t, out, "msa.txt")
}

func TestAnalysisListCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	out, err := execute(t, "analyses", "list", "--json")
	require.NoError(t, err)

	var list []domain.AnalysisSummary
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, 1, list[0].Counts.High)
}

func TestAnalysisShowCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	out, err := execute(t, "analysis", "show", a.ID)

	require.NoError(t, err)
	assert.Contains(t, out, a.Summary)
	assert.Contains(t, out, "1. [High]")
	assert.Contains(t, out, "Matched: ")
	assert.Contains(t, out, "indemnify")
}

func TestAnalysisShowCmd_NotFound(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "analysis", "show", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisCommentCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	out, err := execute(t, "analysis", "comment", a.ID, "1", "Negotiate", "a", "cap")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved comment on clause 1")

	stored, err := analysisService.Get(t.Context(), a.ID)
	require.NoError(t, err)
	c, err := stored.Clause(1)
	require.NoError(t, err)
	assert.Equal(t, "Negotiate a cap", c.Comment)

	out, err = execute(t, "analysis", "comment", a.ID, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared comment on clause 1")
}

func TestAnalysisCommentCmd_Errors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	_, err := execute(t, "analysis", "comment", a.ID, "first", "note")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid clause number")

	_, err = execute(t, "analysis", "comment", a.ID, "9", "note")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisExportCmd_Stdout(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	out, err := execute(t, "analysis", "export", a.ID)
	require.NoError(t, err)

	var got domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, scenario, got.RawText)
}

func TestAnalysisExportCmd_File(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a, err := analysisService.AnalyzeText(t.Context(), "hindi.txt",
		"1. इस अनुबंध के अंतर्गत विक्रेता का असीमित दायित्व होगा और वह सभी हानि की भरपाई करेगा।",
		domain.AnalyzeOptions{Save: true})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "audit.json")
	out, err := execute(t, "analysis", "export", a.ID, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported analysis")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "असीमित दायित्व")
	assert.NotContains(t, string(data), `\u0905`)
}

func TestAnalysisExportCmd_MissingRemovesFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "audit.json")
	_, err := execute(t, "analysis", "export", "missing", "-o", path)

	require.Error(t, err)
	assert.NoFileExists(t, path)
}

func TestAnalysisDeleteCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	a := saveScenario(t)

	out, err := execute(t, "analysis", "delete", a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted analysis "+a.ID)

	_, err = execute(t, "analysis", "delete", a.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "अनुब…", truncate("अनुबंध", 5))
}
