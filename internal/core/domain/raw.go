package domain

// RawDocument represents the opaque bytes of an uploaded contract,
// before text extraction.
type RawDocument struct {
	// Name is the file name or label (used for format detection and titles).
	Name string

	// MIMEType is the declared content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}

// ExtractedText is the UTF-8 output of a text extractor.
type ExtractedText struct {
	// Name is carried over from the RawDocument.
	Name string

	// Title is a human-readable title from document metadata, or the
	// file name without its extension when none is present.
	Title string

	// Format names the extractor that handled the document.
	Format string

	// Text is the extracted body. Empty when nothing could be read.
	Text string
}
