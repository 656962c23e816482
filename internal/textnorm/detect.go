package textnorm

import (
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// DefaultMinConfidence is the classifier confidence needed to trust its answer.
const DefaultMinConfidence = 0.5

// Detector detects the language of a text. A statistical classifier is
// consulted first when configured; the Devanagari heuristic always
// decides when the classifier is absent, fails, or answers something
// other than English or Hindi.
type Detector struct {
	identifier    driven.LanguageIdentifier
	minConfidence float64
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithIdentifier sets the statistical classifier. Nil leaves it disabled.
func WithIdentifier(id driven.LanguageIdentifier) DetectorOption {
	return func(d *Detector) {
		d.identifier = id
	}
}

// WithMinConfidence sets the confidence needed to accept the classifier.
func WithMinConfidence(c float64) DetectorOption {
	return func(d *Detector) {
		if c >= 0 && c <= 1 {
			d.minConfidence = c
		}
	}
}

// NewDetector creates a Detector with the given options.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{minConfidence: DefaultMinConfidence}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns en, hi, or unknown for empty/whitespace-only text.
func (d *Detector) Detect(text string) domain.Language {
	if strings.TrimSpace(text) == "" {
		return domain.LanguageUnknown
	}

	if d != nil && d.identifier != nil {
		if lang, ok := d.classify(text); ok {
			return lang
		}
	}

	return DetectLanguage(text)
}

// classify asks the classifier and recovers from panics so a faulty
// implementation can never escape Detect.
func (d *Detector) classify(text string) (lang domain.Language, ok bool) {
	defer func() {
		if recover() != nil {
			lang, ok = "", false
		}
	}()

	got, confidence, err := d.identifier.Identify(text)
	if err != nil || confidence < d.minConfidence {
		return "", false
	}
	if got != domain.LanguageEnglish && got != domain.LanguageHindi {
		return "", false
	}
	return got, true
}

// DetectLanguage is the deterministic fallback: any Devanagari rune means
// Hindi, otherwise English. Empty or whitespace-only text is unknown.
func DetectLanguage(text string) domain.Language {
	if strings.TrimSpace(text) == "" {
		return domain.LanguageUnknown
	}
	if ContainsDevanagari(text) {
		return domain.LanguageHindi
	}
	return domain.LanguageEnglish
}
