package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

const promptTemplate = `You are a contract risk reviewer for small and medium businesses in India.
Classify the legal risk of the clause below for the party receiving the contract.

Answer with one JSON object and nothing else:
{"tier": "Low" | "Medium" | "High", "score": <integer 0-10>, "reasons": [<short phrases quoted from the clause>], "explanation": "<one sentence in %s>"}

Clause:
"""
%s
"""`

func buildPrompt(clause string, lang domain.Language) string {
	language := "English"
	if lang == domain.LanguageHindi {
		language = "Hindi"
	}
	return fmt.Sprintf(promptTemplate, language, clause)
}

// verdict is the model's JSON answer.
type verdict struct {
	Tier        string   `json:"tier"`
	Score       *int     `json:"score"`
	Reasons     []string `json:"reasons"`
	Explanation string   `json:"explanation"`
}

// parseVerdict extracts the first JSON object from resp. A missing tier is
// derived from the score; a missing score from the tier's lower boundary.
func parseVerdict(resp string, th domain.Thresholds) (domain.RiskFinding, error) {
	start := strings.Index(resp, "{")
	end := strings.LastIndex(resp, "}")
	if start < 0 || end <= start {
		return domain.RiskFinding{}, fmt.Errorf("%w: no JSON object in model response", domain.ErrInvalidInput)
	}

	var v verdict
	if err := json.Unmarshal([]byte(resp[start:end+1]), &v); err != nil {
		return domain.RiskFinding{}, fmt.Errorf("%w: decode model response: %w", domain.ErrInvalidInput, err)
	}

	f := domain.RiskFinding{
		Reasons:     v.Reasons,
		Explanation: strings.TrimSpace(v.Explanation),
	}
	if f.Reasons == nil {
		f.Reasons = []string{}
	}

	switch {
	case v.Tier != "":
		tier, err := domain.ParseTier(v.Tier)
		if err != nil {
			return domain.RiskFinding{}, err
		}
		f.Tier = tier
		if v.Score != nil {
			f.Score = *v.Score
		} else {
			f.Score = floorScore(tier, th)
		}
	case v.Score != nil:
		f.Score = *v.Score
		f.Tier = th.TierFor(f.Score)
	default:
		return domain.RiskFinding{}, fmt.Errorf("%w: model response has neither tier nor score", domain.ErrInvalidInput)
	}

	return f, nil
}

func floorScore(t domain.Tier, th domain.Thresholds) int {
	switch t {
	case domain.TierHigh:
		return th.High
	case domain.TierMedium:
		return th.Medium
	default:
		return 0
	}
}
