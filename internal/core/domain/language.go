package domain

import "strings"

// Language is a detected document language tag.
type Language string

// Supported language tags.
const (
	// LanguageEnglish is English text (also the default script handling).
	LanguageEnglish Language = "en"

	// LanguageHindi is Hindi text written in Devanagari.
	LanguageHindi Language = "hi"

	// LanguageUnknown is returned for empty or whitespace-only input.
	LanguageUnknown Language = "unknown"
)

// IsValid returns true if the language tag is recognised.
func (l Language) IsValid() bool {
	switch l {
	case LanguageEnglish, LanguageHindi, LanguageUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// ParseLanguage maps a loose tag ("EN", "hindi", "") to a Language.
// Unrecognised values map to LanguageUnknown.
func ParseLanguage(s string) Language {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "eng", "english":
		return LanguageEnglish
	case "hi", "hin", "hindi":
		return LanguageHindi
	default:
		return LanguageUnknown
	}
}
