package domain

import (
	"fmt"
	"time"
)

// Segmentation stages, reported on each analysis.
const (
	StageNone      = "none"
	StageNumbered  = "numbered"
	StageSentence  = "sentence"
	StageParagraph = "paragraph"
	StageWhole     = "whole"
)

// TierCounts tallies clauses per tier.
type TierCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Add counts one clause of the given tier.
func (c *TierCounts) Add(t Tier) {
	switch t {
	case TierHigh:
		c.High++
	case TierMedium:
		c.Medium++
	case TierLow:
		c.Low++
	}
}

// Total returns the number of counted clauses.
func (c TierCounts) Total() int {
	return c.High + c.Medium + c.Low
}

// Analysis is the complete result of analysing one contract.
// It is the record handed to persistence and export.
type Analysis struct {
	// ID is an opaque identifier assigned when the analysis is created.
	ID string `json:"id"`

	// Name is the uploaded file name or a user-supplied label.
	Name string `json:"name"`

	// Format is the extractor format that produced the text (txt, pdf, docx, ...).
	Format string `json:"format,omitempty"`

	Language     Language            `json:"language"`
	Plausibility PlausibilityVerdict `json:"plausibility"`

	// Segmentation names the segmenter stage that produced the clauses.
	Segmentation string `json:"segmentation"`

	Clauses []ClauseResult `json:"clauses"`
	Counts  TierCounts     `json:"counts"`

	// Summary is the one-line plain-language digest.
	Summary string `json:"summary"`

	// RulesVersion records which rule set scored the clauses.
	RulesVersion string `json:"rules_version,omitempty"`

	// RawText is the extracted text the analysis was run on.
	RawText string `json:"raw_text,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Recount recomputes Counts from Clauses.
func (a *Analysis) Recount() {
	var c TierCounts
	for i := range a.Clauses {
		c.Add(a.Clauses[i].Tier)
	}
	a.Counts = c
}

// Clause returns the clause record with the given 1-based ordinal.
func (a *Analysis) Clause(ordinal int) (*ClauseResult, error) {
	for i := range a.Clauses {
		if a.Clauses[i].Ordinal == ordinal {
			return &a.Clauses[i], nil
		}
	}
	return nil, fmt.Errorf("%w: clause %d", ErrNotFound, ordinal)
}

// ToSummary returns the listing view of the analysis.
func (a *Analysis) ToSummary() AnalysisSummary {
	return AnalysisSummary{
		ID:          a.ID,
		Name:        a.Name,
		Language:    a.Language,
		Plausible:   a.Plausibility.Plausible,
		ClauseCount: len(a.Clauses),
		Counts:      a.Counts,
		CreatedAt:   a.CreatedAt,
	}
}

// AnalysisSummary is the compact listing form of an Analysis.
type AnalysisSummary struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Language    Language   `json:"language"`
	Plausible   bool       `json:"plausible"`
	ClauseCount int        `json:"clause_count"`
	Counts      TierCounts `json:"counts"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AnalyzeOptions controls one analysis run.
type AnalyzeOptions struct {
	// Name overrides the document name on the record.
	Name string

	// Save persists the analysis after it completes.
	Save bool

	// NoCache skips the result cache lookup. The result is still cached.
	NoCache bool
}
