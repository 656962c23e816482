package cli

import (
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func stringReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestSegmentCmd_NumberedClauses(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeFile(t, "msa.txt", scenario)
	out, err := execute(t, "segment", path)

	require.NoError(t, err)
	assert.Contains(t, out, "2 clauses (numbered)")
	assert.Contains(t, out, "1. The Employee shall indemnify the Company without limitation.")
	assert.Contains(t, out, "2. This Agreement is governed by the laws of Delhi.")
}

func TestSegmentCmd_JSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeFile(t, "short.txt", "Too short.")
	out, err := execute(t, "segment", "--json", path)
	require.NoError(t, err)

	var got struct {
		Stage   string          `json:"stage"`
		Clauses []domain.Clause `json:"clauses"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotNil(t, got.Clauses)
	assert.Empty(t, got.Clauses)
}

func TestSegmentCmd_RejectsBinary(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeFile(t, "contract.pdf", "%PDF-1.4\xff\xfe\x00")
	_, err := execute(t, "segment", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not UTF-8 text")
}

func TestScoreCmd_DetectsHindi(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "score", "इस अनुबंध के अंतर्गत विक्रेता का असीमित दायित्व होगा।")

	require.NoError(t, err)
	assert.Contains(t, out, "Tier:      High")
	assert.Contains(t, out, "Language:  hi")
	assert.Contains(t, out, "असीमित दायित्व")
	assert.Contains(t, out, "Scored by: keyword")
}

func TestScoreCmd_JoinsArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "score", "--json", "--lang", "en",
		"The", "Supplier", "may", "terminate", "at", "any", "time", "without", "notice", "to", "the", "Buyer.")
	require.NoError(t, err)

	var f domain.RiskFinding
	require.NoError(t, json.Unmarshal([]byte(out), &f))
	assert.Equal(t, domain.TierHigh, f.Tier)
	assert.Contains(t, f.Reasons, "terminate at any time")
	assert.Contains(t, f.Reasons, "without notice")
}

func TestScoreCmd_InvalidLanguage(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "score", "--lang", "fr", "Le fournisseur peut résilier.")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --lang")
}

func TestSuggestCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "high indemnity",
			args: []string{"suggest", "--tier", "High", "The Vendor shall indemnify the Client."},
			want: "Limit indemnity to direct damages and cap liability to contract value.",
		},
		{
			name: "medium jurisdiction",
			args: []string{"suggest", "--tier", "medium", "Courts of Mumbai have exclusive jurisdiction."},
			want: "Specify neutral arbitration location within India.",
		},
		{
			name: "low never suggests",
			args: []string{"suggest", "--tier", "Low", "The Vendor shall indemnify the Client."},
			want: "No suggestion.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanup := setupTestServices()
			defer cleanup()

			out, err := execute(t, tt.args...)

			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestSuggestCmd_InvalidTier(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "suggest", "--tier", "Severe", "anything")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	resume := "Curriculum Vitae\nSkills: Go, Python, SQL\nExperience: five years as a backend engineer " +
		"at a logistics startup, leading the platform team.\nEducation: B.Tech, IIT Delhi"
	path := writeFile(t, "resume.txt", resume)

	out, err := execute(t, "check", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Does not look like a contract")
}
