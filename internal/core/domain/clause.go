package domain

// Clause is a segmented, contiguous unit of contract text.
type Clause struct {
	// Ordinal is the 1-based position in document order.
	Ordinal int `json:"ordinal"`

	// Text is the cleaned clause text.
	Text string `json:"text"`
}

// ClauseResult is the serialisable per-clause record of an analysis.
type ClauseResult struct {
	Ordinal     int      `json:"ordinal"`
	Text        string   `json:"text"`
	Tier        Tier     `json:"tier"`
	Score       int      `json:"score"`
	Reasons     []string `json:"reasons"`
	Explanation string   `json:"explanation,omitempty"`
	ScoredBy    string   `json:"scored_by,omitempty"`

	// Suggestion is nil when no rewrite applies.
	Suggestion *string `json:"suggestion"`

	// Template names the closest library template, when similarity matching is enabled.
	Template *string `json:"template,omitempty"`

	// Comment is a free-text reviewer note attached after analysis.
	Comment string `json:"comment,omitempty"`
}

// NewClauseResult combines a clause, its finding and an optional suggestion.
func NewClauseResult(c Clause, f RiskFinding, suggestion *string) ClauseResult {
	reasons := f.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return ClauseResult{
		Ordinal:     c.Ordinal,
		Text:        c.Text,
		Tier:        f.Tier,
		Score:       f.Score,
		Reasons:     reasons,
		Explanation: f.Explanation,
		ScoredBy:    f.ScoredBy,
		Suggestion:  suggestion,
	}
}

// Finding returns the risk portion of the record.
func (r ClauseResult) Finding() RiskFinding {
	return RiskFinding{
		Tier:        r.Tier,
		Score:       r.Score,
		Reasons:     r.Reasons,
		Explanation: r.Explanation,
		ScoredBy:    r.ScoredBy,
	}
}
