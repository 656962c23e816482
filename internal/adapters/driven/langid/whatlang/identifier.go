// Package whatlang provides a statistical language identifier backed by
// whatlanggo (trigram models, no network access).
package whatlang

import (
	"github.com/abadojack/whatlanggo"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// Ensure Identifier implements the interface.
var _ driven.LanguageIdentifier = (*Identifier)(nil)

// Identifier classifies text as English or Hindi.
type Identifier struct {
	opts whatlanggo.Options
}

// New creates an identifier restricted to the supported languages.
func New() *Identifier {
	return &Identifier{
		opts: whatlanggo.Options{
			Whitelist: map[whatlanggo.Lang]bool{
				whatlanggo.Eng: true,
				whatlanggo.Hin: true,
			},
		},
	}
}

// Identify returns the detected language and the classifier's confidence.
func (i *Identifier) Identify(text string) (domain.Language, float64, error) {
	info := whatlanggo.DetectWithOptions(text, i.opts)
	switch info.Lang {
	case whatlanggo.Eng:
		return domain.LanguageEnglish, info.Confidence, nil
	case whatlanggo.Hin:
		return domain.LanguageHindi, info.Confidence, nil
	default:
		return domain.LanguageUnknown, info.Confidence, nil
	}
}
