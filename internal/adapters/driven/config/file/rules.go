package file

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// RulesFileName is the default rules override file in the config directory.
const RulesFileName = "rules.toml"

// rulesFile is the on-disk shape of rules.toml. Every list is optional;
// a list that is present replaces the built-in list entirely.
type rulesFile struct {
	Version             string          `toml:"version"`
	HighRiskEN          []keywordEntry  `toml:"high_risk_en"`
	HighRiskHI          []keywordEntry  `toml:"high_risk_hi"`
	MediumRiskEN        []keywordEntry  `toml:"medium_risk_en"`
	MediumRiskHI        []keywordEntry  `toml:"medium_risk_hi"`
	ObligationMarkers   []string        `toml:"obligation_markers"`
	PaymentTerms        []string        `toml:"payment_terms"`
	ObligationThreshold *int            `toml:"obligation_threshold"`
	ObligationPenalty   *int            `toml:"obligation_penalty"`
	Thresholds          *thresholdEntry `toml:"thresholds"`
	ShortClauseRunes    *int            `toml:"short_clause_runes"`
	ContractKeywordsEN  []string        `toml:"contract_keywords_en"`
	ContractKeywordsHI  []string        `toml:"contract_keywords_hi"`
	ResumeMarkers       []string        `toml:"resume_markers"`
	Suggestions         []suggestEntry  `toml:"suggestions"`
}

type keywordEntry struct {
	Phrase string `toml:"phrase"`
	Weight int    `toml:"weight"`
}

type thresholdEntry struct {
	High   int `toml:"high"`
	Medium int `toml:"medium"`
}

type suggestEntry struct {
	Tier     string   `toml:"tier"`
	Triggers []string `toml:"triggers"`
	Text     string   `toml:"text"`
}

// LoadRuleSet reads a rules override file on top of domain.DefaultRuleSet.
// An empty path or a missing file yields the defaults. The result is
// validated; a file without a version gets one derived from its content.
func LoadRuleSet(path string) (domain.RuleSet, error) {
	rs := domain.DefaultRuleSet()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rs, nil
		}
		return domain.RuleSet{}, fmt.Errorf("read rules file: %w", err)
	}

	var f rulesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.RuleSet{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidRules, path, err)
	}

	if err := f.apply(&rs); err != nil {
		return domain.RuleSet{}, err
	}

	if f.Version != "" {
		rs.Version = f.Version
	} else {
		sum := sha256.Sum256(data)
		rs.Version = "file-" + hex.EncodeToString(sum[:6])
	}

	if err := rs.Validate(); err != nil {
		return domain.RuleSet{}, err
	}
	return rs, nil
}

func (f *rulesFile) apply(rs *domain.RuleSet) error {
	replaceKeywords(&rs.HighRiskEN, f.HighRiskEN)
	replaceKeywords(&rs.HighRiskHI, f.HighRiskHI)
	replaceKeywords(&rs.MediumRiskEN, f.MediumRiskEN)
	replaceKeywords(&rs.MediumRiskHI, f.MediumRiskHI)

	replaceStrings(&rs.ObligationMarkers, f.ObligationMarkers)
	replaceStrings(&rs.PaymentTerms, f.PaymentTerms)
	replaceStrings(&rs.ContractKeywordsEN, f.ContractKeywordsEN)
	replaceStrings(&rs.ContractKeywordsHI, f.ContractKeywordsHI)
	replaceStrings(&rs.ResumeMarkers, f.ResumeMarkers)

	if f.ObligationThreshold != nil {
		rs.ObligationThreshold = *f.ObligationThreshold
	}
	if f.ObligationPenalty != nil {
		rs.ObligationPenalty = *f.ObligationPenalty
	}
	if f.ShortClauseRunes != nil {
		rs.ShortClauseRunes = *f.ShortClauseRunes
	}
	if f.Thresholds != nil {
		rs.Thresholds = domain.Thresholds{High: f.Thresholds.High, Medium: f.Thresholds.Medium}
	}

	if f.Suggestions != nil {
		rules := make([]domain.SuggestionRule, 0, len(f.Suggestions))
		for i, s := range f.Suggestions {
			tier, err := domain.ParseTier(s.Tier)
			if err != nil {
				return fmt.Errorf("%w: suggestions[%d]: %v", domain.ErrInvalidRules, i, err)
			}
			rules = append(rules, domain.SuggestionRule{Tier: tier, Triggers: s.Triggers, Text: s.Text})
		}
		rs.Suggestions = rules
	}
	return nil
}

func replaceKeywords(dst *[]domain.Keyword, src []keywordEntry) {
	if src == nil {
		return
	}
	out := make([]domain.Keyword, len(src))
	for i, k := range src {
		out[i] = domain.Keyword{Phrase: k.Phrase, Weight: k.Weight}
	}
	*dst = out
}

func replaceStrings(dst *[]string, src []string) {
	if src != nil {
		*dst = append([]string(nil), src...)
	}
}
