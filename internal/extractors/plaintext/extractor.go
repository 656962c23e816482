// Package plaintext extracts text from plain text documents.
package plaintext

import (
	"context"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/extractors/title"
)

// Format is the format name reported for plain text.
const Format = "text"

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text documents.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format name.
func (e *Extractor) Format() string {
	return Format
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 5 // Fallback extractor
}

// Extract decodes the content as text. A UTF-8 or UTF-16 byte order mark
// selects the encoding; otherwise UTF-8 is assumed and invalid sequences
// are replaced.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.ExtractedText{
		Name:   raw.Name,
		Title:  title.FromName(raw.Name),
		Format: Format,
		Text:   Decode(raw.Content),
	}, nil
}

// Decode converts bytes to valid UTF-8 text.
func Decode(content []byte) string {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, content)
	if err != nil {
		out = content
	}
	return strings.ToValidUTF8(string(out), "�")
}
