package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

var corpus = []string{
	"",
	"   ",
	"The Employee SHALL indemnify the Company, without limitation!",
	"  Multiple\t\tspaces\nand\r\nlines  ",
	"ठेकेदार असीमित दायित्व स्वीकार करता है। (धारा 4.2)",
	"Mixed: Contract अनुबंध 2024 — ₹5,00,000",
	"İstanbul ǅemal Ⅻ ﬁnal café café",
	"क़ानून ज़मीन", // precomposed nukta forms
	"<p>1. Section&nbsp;One</p>",
	string([]byte{0xff, 0xfe, 'a', 0x00}),
}

func TestNormalize_Idempotent(t *testing.T) {
	langs := []domain.Language{domain.LanguageEnglish, domain.LanguageHindi, domain.LanguageUnknown}

	for _, lang := range langs {
		for _, in := range corpus {
			once := Normalize(in, lang)
			assert.Equal(t, once, Normalize(once, lang), "lang=%s input=%q", lang, in)
		}
	}
}

func TestNormalize_English(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Employee SHALL indemnify, without limitation!", "the employee shall indemnify without limitation"},
		{"auto-renew / lock-in", "auto renew lock in"},
		{"  a\t\tb\n\nc  ", "a b c"},
		{"Clause 4.2(b)", "clause 4 2 b"},
		{"", ""},
		{"!!!", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in, domain.LanguageEnglish), tt.in)
	}
}

func TestNormalize_Hindi(t *testing.T) {
	got := Normalize("ठेकेदार (Contractor) असीमित दायित्व, 2024!", domain.LanguageHindi)

	assert.Equal(t, "ठेकेदार असीमित दायित्व 2024", got)
}

func TestNormalize_HindiKeepsDanda(t *testing.T) {
	assert.Equal(t, "समाप्ति होगी।", Normalize("समाप्ति होगी।", domain.LanguageHindi))
}

func TestNormalize_UnknownUsesDefault(t *testing.T) {
	assert.Equal(t,
		Normalize("Governing LAW.", domain.LanguageEnglish),
		Normalize("Governing LAW.", domain.LanguageUnknown))
}

func TestNormalize_NoDoubleSpaces(t *testing.T) {
	for _, in := range corpus {
		out := Normalize(in, domain.LanguageEnglish)
		assert.NotContains(t, out, "  ")
		assert.Equal(t, strings.TrimSpace(out), out)
	}
}

func TestViews_Contains(t *testing.T) {
	v := NewViews("The Vendor may TERMINATE at any time. कंपनी असीमित  दायित्व स्वीकार करती है।")

	assert.True(t, v.Contains("terminate at any time"))
	assert.True(t, v.Contains("Terminate At Any Time"))
	assert.True(t, v.Contains("असीमित दायित्व"))
	assert.False(t, v.Contains("hold harmless"))
	assert.False(t, v.Contains(""))
	assert.False(t, v.Contains("!!"))
}

func TestViews_ContainsWordPrefix(t *testing.T) {
	v := NewViews("The parties determine the termination fee.")

	assert.True(t, v.ContainsWordPrefix("part"))
	assert.True(t, v.ContainsWordPrefix("termination"))
	assert.True(t, v.ContainsWordPrefix("term"))
	assert.False(t, v.ContainsWordPrefix("mine"))
	assert.True(t, v.ContainsWordPrefix("the"))
	assert.False(t, v.ContainsWordPrefix(""))
}

func TestContainsDevanagari(t *testing.T) {
	assert.True(t, ContainsDevanagari("abc क"))
	assert.False(t, ContainsDevanagari("abc"))
	assert.True(t, IsDevanagari('ऀ'))
	assert.True(t, IsDevanagari('ॿ'))
	assert.False(t, IsDevanagari('ঀ'))
}
