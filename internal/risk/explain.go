package risk

import (
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

const (
	tooShortEN = "clause too short to assess"
	tooShortHI = "यह केवल शीर्षक या अधूरा क्लॉज है।"
)

func tooShortExplanation(lang domain.Language) string {
	if lang == domain.LanguageHindi {
		return tooShortHI
	}
	return tooShortEN
}

// explain renders a one-line explanation of a verdict.
func explain(tier domain.Tier, reasons []string, lang domain.Language) string {
	list := strings.Join(reasons, ", ")

	if lang == domain.LanguageHindi {
		switch {
		case tier == domain.TierHigh:
			return "उच्च जोखिम: " + list
		case tier == domain.TierMedium:
			return "मध्यम जोखिम: समीक्षा आवश्यक। " + list
		case len(reasons) > 0:
			return "कम जोखिम: " + list
		default:
			return "कोई गंभीर कानूनी जोखिम नहीं मिला।"
		}
	}

	switch {
	case tier == domain.TierHigh:
		return "High risk: " + list
	case tier == domain.TierMedium:
		return "Medium risk, review recommended: " + list
	case len(reasons) > 0:
		return "Low risk: " + list
	default:
		return "No significant legal risk found."
	}
}
