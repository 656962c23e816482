package domain

import (
	"fmt"
	"strings"
)

// Tier is the categorical risk verdict for a clause.
type Tier string

// Risk tiers, lowest first.
const (
	TierLow    Tier = "Low"
	TierMedium Tier = "Medium"
	TierHigh   Tier = "High"
)

// IsValid returns true if the tier is recognised.
func (t Tier) IsValid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	default:
		return false
	}
}

// Rank orders tiers for sorting and filtering. Unknown tiers rank below Low.
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 1
	case TierMedium:
		return 2
	case TierHigh:
		return 3
	default:
		return 0
	}
}

// String returns the string representation.
func (t Tier) String() string {
	return string(t)
}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TierLow, nil
	case "medium":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	default:
		return "", fmt.Errorf("%w: unknown risk tier %q", ErrInvalidInput, s)
	}
}

// Thresholds are the inclusive score boundaries between tiers.
type Thresholds struct {
	// High is the minimum score for TierHigh.
	High int

	// Medium is the minimum score for TierMedium.
	Medium int
}

// DefaultThresholds returns the canonical boundaries: >=5 High, >=2 Medium.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 5, Medium: 2}
}

// TierFor maps a score to its tier. Boundaries are inclusive.
func (th Thresholds) TierFor(score int) Tier {
	switch {
	case score >= th.High:
		return TierHigh
	case score >= th.Medium:
		return TierMedium
	default:
		return TierLow
	}
}

// RiskFinding is the scorer's verdict for exactly one clause.
type RiskFinding struct {
	// Tier is the categorical verdict.
	Tier Tier `json:"tier"`

	// Score is the sum of weighted keyword hits and heuristic penalties.
	Score int `json:"score"`

	// Reasons lists matched phrases in evaluation order.
	Reasons []string `json:"reasons"`

	// Explanation is a short human-language summary of the verdict.
	Explanation string `json:"explanation,omitempty"`

	// ScoredBy names the scorer that produced the finding.
	ScoredBy string `json:"scored_by,omitempty"`
}
