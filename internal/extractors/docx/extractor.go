// Package docx extracts text from Office Open XML word processing documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/extractors/title"
)

const (
	// Format is the format name reported for DOCX.
	Format = "docx"

	// MIMEType is the registered DOCX content type.
	MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// maxPartSize bounds how much of a single archive member is read.
	maxPartSize = 32 << 20
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Format returns the format name.
func (e *Extractor) Format() string {
	return Format
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx"}
}

// Priority returns the selection priority.
func (e *Extractor) Priority() int {
	return 50
}

// Extract reads word/document.xml and returns one paragraph per block,
// separated by blank lines.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", domain.ErrExtractionFailed, err)
	}

	body, err := readPart(reader, "word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", domain.ErrExtractionFailed, err)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: docx: missing word/document.xml", domain.ErrExtractionFailed)
	}

	text, err := parseDocumentXML(body)
	if err != nil {
		return nil, fmt.Errorf("%w: docx: %v", domain.ErrExtractionFailed, err)
	}

	return &domain.ExtractedText{
		Name:   raw.Name,
		Title:  extractTitle(reader, raw.Name),
		Format: Format,
		Text:   text,
	}, nil
}

// readPart returns the named archive member, or nil if it is absent.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxPartSize))
	}
	return nil, nil
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
		Tables     []table     `xml:"tbl"`
	} `xml:"body"`
}

type table struct {
	Rows []struct {
		Cells []struct {
			Paragraphs []paragraph `xml:"p"`
		} `xml:"tc"`
	} `xml:"tr"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
	Tabs []struct{}    `xml:"tab"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

func (p paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if len(r.Tabs) > 0 {
			b.WriteString(" ")
		}
		for _, t := range r.Text {
			b.WriteString(t.Content)
		}
	}
	return strings.TrimSpace(b.String())
}

// parseDocumentXML extracts paragraph text. Table cells follow the body
// paragraphs.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}

	var blocks []string
	add := func(p paragraph) {
		if s := p.text(); s != "" {
			blocks = append(blocks, s)
		}
	}
	for _, para := range doc.Body.Paragraphs {
		add(para)
	}
	for _, tbl := range doc.Body.Tables {
		for _, row := range tbl.Rows {
			for _, cell := range row.Cells {
				for _, para := range cell.Paragraphs {
					add(para)
				}
			}
		}
	}

	return strings.Join(blocks, "\n\n"), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle reads docProps/core.xml or falls back to the file name.
func extractTitle(reader *zip.Reader, name string) string {
	if content, err := readPart(reader, "docProps/core.xml"); err == nil && content != nil {
		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil && strings.TrimSpace(core.Title) != "" {
			return strings.TrimSpace(core.Title)
		}
	}
	return title.FromName(name)
}
