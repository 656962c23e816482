// Package html extracts readable text from HTML documents.
package html

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/extractors/plaintext"
	"github.com/custodia-labs/clauseguard/internal/extractors/title"
)

// Format is the format name reported for HTML.
const Format = "html"

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format name.
func (e *Extractor) Format() string {
	return Format
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50 // Higher than plaintext
}

// Extract strips markup. Block elements become paragraph breaks so the
// segmenter can fall back to paragraphs.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := plaintext.Decode(raw.Content)
	return &domain.ExtractedText{
		Name:   raw.Name,
		Title:  extractHTMLTitle(content, raw.Name),
		Format: Format,
		Text:   stripHTML(content),
	}, nil
}

// Pre-compiled regular expressions for HTML parsing.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|ol|ul)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|ol|ul)(\s[^>]*)?>`)
	breakTags         = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t\x{00A0}]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// extractHTMLTitle returns the <title> text or falls back to the file name.
func extractHTMLTitle(content, name string) string {
	if m := titleTag.FindStringSubmatch(content); len(m) > 1 {
		if t := strings.TrimSpace(html.UnescapeString(m[1])); t != "" {
			return t
		}
	}
	return title.FromName(name)
}

// Text converts an HTML fragment to plain paragraphs.
func Text(content string) string {
	return stripHTML(content)
}

// stripHTML removes tags and returns paragraphs separated by blank lines.
func stripHTML(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}

	content = openBlockElements.ReplaceAllString(content, "\n\n")
	content = blockElements.ReplaceAllString(content, "\n\n")
	content = breakTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = multiNewlines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")

	return strings.TrimSpace(content)
}
