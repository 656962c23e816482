package driven

import (
	"context"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// Extractor turns raw document bytes into UTF-8 text.
// Each extractor handles specific formats (e.g., PDF, DOCX).
type Extractor interface {
	// Format names the handled format ("txt", "pdf", "docx", ...).
	Format() string

	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns file extensions, including the dot.
	SupportedExtensions() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract returns the document text.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error)
}

// ExtractorRegistry selects the appropriate extractor for a document.
// It maintains a priority-ordered list and dispatches on MIME type,
// falling back to the file extension.
type ExtractorRegistry interface {
	// Extract transforms a raw document using the best matching extractor.
	Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string

	// SupportedExtensions returns all file extensions that can be extracted.
	SupportedExtensions() []string
}
