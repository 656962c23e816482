// Package markdown extracts contract text from Markdown drafts.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/extractors/plaintext"
	"github.com/custodia-labs/clauseguard/internal/extractors/title"
)

// Format is the format name reported for Markdown.
const Format = "markdown"

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct{}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format name.
func (e *Extractor) Format() string {
	return Format
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract strips Markdown formatting. Numbered list markers are kept
// because they delimit clauses; bullets, emphasis and links are removed.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := plaintext.Decode(raw.Content)
	return &domain.ExtractedText{
		Name:   raw.Name,
		Title:  headingTitle(text, raw.Name),
		Format: Format,
		Text:   Strip(text),
	}, nil
}

var (
	fencedCode   = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	images       = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	links        = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headings     = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+`)
	emphasis     = regexp.MustCompile(`(\*\*|__|\*)([^*\n]+?)(\*\*|__|\*)`)
	underscores  = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	blockquote   = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	hrules       = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullets      = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	tableRule    = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*:?-{3,}[-:| \t]*$`)
	tablePipes   = regexp.MustCompile(`[ \t]*\|[ \t]*`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	trailSpaces  = regexp.MustCompile(`(?m)[ \t]+$`)
	leadSpaces   = regexp.MustCompile(`(?m)^[ \t]+`)
	headingMatch = regexp.MustCompile(`(?m)^[ \t]{0,3}#[ \t]+(.+)$`)
)

// Strip removes Markdown syntax and leaves the prose.
func Strip(content string) string {
	content = fencedCode.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = hrules.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = bullets.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = underscores.ReplaceAllString(content, "$1")
	content = tableRule.ReplaceAllString(content, "")
	content = tablePipes.ReplaceAllString(content, " ")
	content = trailSpaces.ReplaceAllString(content, "")
	content = leadSpaces.ReplaceAllString(content, "")
	content = blankRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// headingTitle returns the first level-one heading or falls back to the file name.
func headingTitle(content, name string) string {
	if m := headingMatch.FindStringSubmatch(content); len(m) > 1 {
		if t := strings.TrimSpace(Strip(m[1])); t != "" {
			return t
		}
	}
	return title.FromName(name)
}
