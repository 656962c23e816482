package domain

import (
	"fmt"
	"strings"
)

// Keyword is a weighted risk phrase.
type Keyword struct {
	// Phrase is reported verbatim in reasons and normalised for matching.
	Phrase string

	// Weight is added to the clause score on a match.
	Weight int
}

// SuggestionRule maps a tier and trigger phrases to a rewrite recommendation.
type SuggestionRule struct {
	// Tier is the exact tier the rule applies to.
	Tier Tier

	// Triggers are matched against the reasons and the normalised clause.
	Triggers []string

	// Text is the recommendation shown to the reviewer.
	Text string
}

// RuleSet is the keyword configuration shared by the scorer, segmenter,
// suggestion engine and plausibility check. It is loaded once at startup
// and treated as read-only; consumers copy what they keep.
type RuleSet struct {
	// Version identifies the rule set in cache keys and analysis records.
	Version string

	// Risk phrases, scanned in the order: HighRiskEN, HighRiskHI, MediumRiskEN, MediumRiskHI.
	HighRiskEN   []Keyword
	HighRiskHI   []Keyword
	MediumRiskEN []Keyword
	MediumRiskHI []Keyword

	// ObligationMarkers are counted by the obligation heuristic.
	ObligationMarkers []string

	// PaymentTerms suppress the obligation heuristic when present.
	PaymentTerms []string

	// ObligationThreshold is the marker count that triggers the heuristic.
	ObligationThreshold int

	// ObligationPenalty is added to the score when the heuristic fires.
	ObligationPenalty int

	// Thresholds are the tier boundaries.
	Thresholds Thresholds

	// ShortClauseRunes is the trimmed length below which a clause is not assessed.
	ShortClauseRunes int

	// Contract vocabulary used by the segmenter content gate and the plausibility check.
	ContractKeywordsEN []string
	ContractKeywordsHI []string

	// ResumeMarkers flag CV-like documents in plausibility signals.
	ResumeMarkers []string

	// Suggestions are evaluated in order; the first match wins.
	Suggestions []SuggestionRule
}

// DefaultRulesVersion is the version tag of DefaultRuleSet.
const DefaultRulesVersion = "builtin-1"

// DefaultRuleSet returns the built-in bilingual rule set.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Version: DefaultRulesVersion,
		HighRiskEN: []Keyword{
			{"unlimited liability", 4},
			{"terminate at any time", 4},
			{"without limitation", 3},
			{"without notice", 3},
			{"no compensation", 3},
			{"indemnify", 3},
			{"hold harmless", 3},
			{"assign all rights", 3},
			{"sole discretion", 3},
			{"irrevocable", 3},
			{"own negligence", 3},
			{"exclusive property", 3},
		},
		HighRiskHI: []Keyword{
			{"असीमित दायित्व", 4},
			{"एकतरफा समाप्ति", 4},
			{"भुगतान रोका", 4},
			{"भविष्य के दावों का परित्याग", 4},
			{"क्षतिपूर्ति", 3},
			{"बिना सूचना", 3},
			{"एकमात्र विवेक", 3},
		},
		MediumRiskEN: []Keyword{
			{"governing law", 2},
			{"laws of", 2},
			{"jurisdiction", 2},
			{"liquidated damages", 2},
			{"terminate", 1},
			{"liability", 1},
			{"compensation", 1},
			{"penalty", 1},
			{"auto-renew", 1},
			{"renewal", 1},
			{"lock-in", 1},
			{"confidential", 1},
			{"dispute", 1},
		},
		MediumRiskHI: []Keyword{
			{"न्यायालय", 2},
			{"विवाद", 1},
			{"गोपनीय", 1},
			{"दंड", 1},
			{"कानूनी", 1},
			{"दायित्व", 1},
			{"समाप्ति", 1},
		},
		ObligationMarkers: []string{"shall", "must", "agree to"},
		PaymentTerms: []string{
			"pay", "payment", "paid", "fee", "fees", "compensation", "remuneration",
			"salary", "consideration", "price", "invoice", "भुगतान", "शुल्क", "वेतन",
		},
		ObligationThreshold: 3,
		ObligationPenalty:   1,
		Thresholds:          DefaultThresholds(),
		ShortClauseRunes:    30,
		ContractKeywordsEN: []string{
			"party", "agreement", "term", "terminate", "liability", "indemnify",
			"governing law", "jurisdiction", "confidential", "warranty", "payment",
			"deliverable", "service", "termination", "notice", "compensation", "contract",
		},
		ContractKeywordsHI: []string{
			"अनुबंध", "समझौता", "दायित्व", "क्षतिपूर्ति", "समाप्ति", "उल्लंघन",
			"पक्ष", "भुगतान", "गोपनीयता", "न्यायालय", "कानूनी",
		},
		ResumeMarkers: []string{
			"experience", "education", "skills", "objective", "linkedin", "curriculum vitae", "projects",
		},
		Suggestions: []SuggestionRule{
			{
				Tier:     TierHigh,
				Triggers: []string{"indemnify", "indemnity", "indemnification", "hold harmless", "क्षतिपूर्ति"},
				Text:     "Limit indemnity to direct damages and cap liability to contract value.",
			},
			{
				Tier:     TierHigh,
				Triggers: []string{"unlimited liability", "असीमित दायित्व"},
				Text:     "Add a liability cap and exclude indirect damages.",
			},
			{
				Tier:     TierHigh,
				Triggers: []string{"terminate at any time", "without notice", "एकतरफा समाप्ति", "बिना सूचना"},
				Text:     "Add notice period and cure period.",
			},
			{
				Tier:     TierHigh,
				Triggers: []string{"sole discretion", "एकमात्र विवेक"},
				Text:     "Replace sole discretion with a reasonableness standard or mutual agreement.",
			},
			{
				Tier:     TierHigh,
				Triggers: []string{"assign all rights", "exclusive property"},
				Text:     "Limit assignment to paid deliverables and retain pre-existing intellectual property.",
			},
			{
				Tier:     TierMedium,
				Triggers: []string{"jurisdiction", "governing law", "laws of", "न्यायालय"},
				Text:     "Specify neutral arbitration location within India.",
			},
			{
				Tier:     TierMedium,
				Triggers: []string{"auto-renew", "renewal", "lock-in"},
				Text:     "Require written consent before renewal and allow exit on 30 days notice.",
			},
			{
				Tier:     TierMedium,
				Triggers: []string{"liquidated damages", "penalty", "दंड"},
				Text:     "Cap liquidated damages at a genuine pre-estimate of loss.",
			},
		},
	}
}

// Validate reports the first structural problem in the rule set.
func (rs RuleSet) Validate() error {
	lists := []struct {
		name string
		kws  []Keyword
	}{
		{"high_risk_en", rs.HighRiskEN},
		{"high_risk_hi", rs.HighRiskHI},
		{"medium_risk_en", rs.MediumRiskEN},
		{"medium_risk_hi", rs.MediumRiskHI},
	}
	for _, l := range lists {
		for i, kw := range l.kws {
			if strings.TrimSpace(kw.Phrase) == "" {
				return fmt.Errorf("%w: %s[%d] has an empty phrase", ErrInvalidRules, l.name, i)
			}
			if kw.Weight <= 0 {
				return fmt.Errorf("%w: %s %q has non-positive weight %d", ErrInvalidRules, l.name, kw.Phrase, kw.Weight)
			}
		}
	}
	if rs.Thresholds.Medium <= 0 || rs.Thresholds.High <= rs.Thresholds.Medium {
		return fmt.Errorf("%w: thresholds must satisfy 0 < medium < high (got medium=%d high=%d)",
			ErrInvalidRules, rs.Thresholds.Medium, rs.Thresholds.High)
	}
	if rs.ObligationThreshold < 0 || rs.ObligationPenalty < 0 {
		return fmt.Errorf("%w: obligation threshold and penalty must not be negative", ErrInvalidRules)
	}
	if rs.ShortClauseRunes < 0 {
		return fmt.Errorf("%w: short clause length must not be negative", ErrInvalidRules)
	}
	for i, s := range rs.Suggestions {
		if !s.Tier.IsValid() {
			return fmt.Errorf("%w: suggestion %d has unknown tier %q", ErrInvalidRules, i, s.Tier)
		}
		if len(s.Triggers) == 0 || strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: suggestion %d needs triggers and text", ErrInvalidRules, i)
		}
	}
	return nil
}
