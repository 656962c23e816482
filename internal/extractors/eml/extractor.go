// Package eml extracts contract text from e-mail messages.
package eml

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/extractors/html"
	"github.com/custodia-labs/clauseguard/internal/extractors/plaintext"
	"github.com/custodia-labs/clauseguard/internal/extractors/title"
)

// Format is the format name reported for e-mail.
const Format = "eml"

// maxDepth bounds nested multipart recursion.
const maxDepth = 8

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles RFC 822 messages.
type Extractor struct{}

// New creates a new EML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format name.
func (e *Extractor) Format() string {
	return Format
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".eml"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract returns the message body. Plain text parts are preferred over
// HTML; attachments are ignored. The subject becomes the title.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, errors.Join(domain.ErrExtractionFailed, err)
	}

	body, err := readPart(textproto.MIMEHeader(msg.Header), msg.Body, 0)
	if err != nil {
		return nil, errors.Join(domain.ErrExtractionFailed, err)
	}

	name := decodeHeader(msg.Header.Get("Subject"))
	if name == "" {
		name = title.FromName(raw.Name)
	}

	return &domain.ExtractedText{
		Name:   raw.Name,
		Title:  name,
		Format: Format,
		Text:   strings.TrimSpace(body),
	}, nil
}

// decodeHeader decodes RFC 2047 encoded words, returning the header as-is
// when decoding fails.
func decodeHeader(header string) string {
	if header == "" {
		return ""
	}
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(header)
	if err != nil {
		return header
	}
	return strings.TrimSpace(decoded)
}

// readPart returns the readable text of one MIME entity.
func readPart(header textproto.MIMEHeader, r io.Reader, depth int) (string, error) {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		if depth >= maxDepth {
			return "", nil
		}
		return readMultipart(r, params["boundary"], depth+1)
	}

	switch strings.ToLower(header.Get("Content-Transfer-Encoding")) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	switch mediaType {
	case "text/html":
		return html.Text(plaintext.Decode(content)), nil
	case "text/plain":
		return plaintext.Decode(content), nil
	default:
		return "", nil
	}
}

// readMultipart walks the parts of a multipart body. Plain text parts win
// over HTML alternatives.
func readMultipart(r io.Reader, boundary string, depth int) (string, error) {
	if boundary == "" {
		return "", nil
	}

	mr := multipart.NewReader(r, boundary)
	var textParts, htmlParts []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		if isAttachment(part.Header) {
			part.Close()
			continue
		}

		mediaType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		text, err := readPart(part.Header, part, depth)
		part.Close()
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if mediaType == "text/html" {
			htmlParts = append(htmlParts, text)
		} else {
			textParts = append(textParts, text)
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "\n\n"), nil
	}
	return strings.Join(htmlParts, "\n\n"), nil
}

func isAttachment(h textproto.MIMEHeader) bool {
	disposition, _, err := mime.ParseMediaType(h.Get("Content-Disposition"))
	return err == nil && disposition == "attachment"
}
