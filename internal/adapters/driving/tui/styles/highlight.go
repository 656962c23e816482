package styles

import (
	"sort"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// Span is a half-open rune range [Start, End) inside a text.
type Span struct {
	Start int
	End   int
}

// MatchSpans finds non-overlapping, case-insensitive occurrences of the
// phrases in text. Longer phrases claim their runes first. Spans are
// returned in text order.
func MatchSpans(text string, phrases []string) []Span {
	runes := []rune(text)
	folded := foldRunes(runes)

	needles := make([][]rune, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n := foldRunes([]rune(p))
		if seen[string(n)] {
			continue
		}
		seen[string(n)] = true
		needles = append(needles, n)
	}
	sort.SliceStable(needles, func(i, j int) bool { return len(needles[i]) > len(needles[j]) })

	claimed := make([]bool, len(runes))
	var spans []Span
	for _, n := range needles {
		for i := 0; i+len(n) <= len(folded); {
			if runesEqual(folded[i:i+len(n)], n) && free(claimed[i:i+len(n)]) {
				for k := i; k < i+len(n); k++ {
					claimed[k] = true
				}
				spans = append(spans, Span{Start: i, End: i + len(n)})
				i += len(n)
				continue
			}
			i++
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

// Highlight renders every phrase occurrence in text with style.
func Highlight(text string, phrases []string, style lipgloss.Style) string {
	spans := MatchSpans(text, phrases)
	if len(spans) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		b.WriteString(string(runes[pos:sp.Start]))
		b.WriteString(style.Render(string(runes[sp.Start:sp.End])))
		pos = sp.End
	}
	b.WriteString(string(runes[pos:]))
	return b.String()
}

func foldRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func free(claimed []bool) bool {
	for _, c := range claimed {
		if c {
			return false
		}
	}
	return true
}
