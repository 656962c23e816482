package domain

// PlausibilityVerdict annotates whether a document looks like a legal contract.
// It is advisory only and never blocks analysis.
type PlausibilityVerdict struct {
	Plausible bool `json:"plausible"`
	Score     int  `json:"score"`

	// Signals names each contributing feature, e.g. "keyword:indemnify" or "numbered-list".
	Signals []string `json:"signals"`
}
