package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadRuleSet_EmptyPath(t *testing.T) {
	rs, err := LoadRuleSet("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRuleSet(), rs)
}

func TestLoadRuleSet_MissingFile(t *testing.T) {
	rs, err := LoadRuleSet(filepath.Join(t.TempDir(), "rules.toml"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRulesVersion, rs.Version)
}

func TestLoadRuleSet_Overrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.toml", `
version = "acme-2"
short_clause_runes = 20

[thresholds]
high = 6
medium = 3

[[high_risk_en]]
phrase = "perpetual license"
weight = 5

[[suggestions]]
tier = "high"
triggers = ["perpetual license"]
text = "Limit the license term."
`)

	rs, err := LoadRuleSet(path)
	require.NoError(t, err)

	assert.Equal(t, "acme-2", rs.Version)
	assert.Equal(t, 20, rs.ShortClauseRunes)
	assert.Equal(t, domain.Thresholds{High: 6, Medium: 3}, rs.Thresholds)
	assert.Equal(t, []domain.Keyword{{Phrase: "perpetual license", Weight: 5}}, rs.HighRiskEN)
	require.Len(t, rs.Suggestions, 1)
	assert.Equal(t, domain.TierHigh, rs.Suggestions[0].Tier)

	// Lists absent from the file keep their defaults.
	assert.Equal(t, domain.DefaultRuleSet().HighRiskHI, rs.HighRiskHI)
	assert.Equal(t, domain.DefaultRuleSet().PaymentTerms, rs.PaymentTerms)
}

func TestLoadRuleSet_DerivedVersion(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rules.toml", "obligation_threshold = 4\n")

	rs, err := LoadRuleSet(path)
	require.NoError(t, err)
	assert.Equal(t, 4, rs.ObligationThreshold)
	assert.Regexp(t, `^file-[0-9a-f]{12}$`, rs.Version)
}

func TestLoadRuleSet_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "high_risk_en = ["},
		{"zero weight", "[[high_risk_en]]\nphrase = \"x\"\nweight = 0\n"},
		{"bad thresholds", "[thresholds]\nhigh = 2\nmedium = 5\n"},
		{"bad suggestion tier", "[[suggestions]]\ntier = \"severe\"\ntriggers = [\"x\"]\ntext = \"y\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "rules.toml", tt.content)
			_, err := LoadRuleSet(path)
			assert.ErrorIs(t, err, domain.ErrInvalidRules)
		})
	}
}
