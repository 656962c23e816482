package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.args = args
	return m.output, m.err
}

func TestNew(t *testing.T) {
	extractor := New()
	require.NotNil(t, extractor)
	assert.Equal(t, "pdf", extractor.Format())
	assert.Equal(t, []string{"application/pdf"}, extractor.SupportedMIMETypes())
	assert.Equal(t, []string{".pdf"}, extractor.SupportedExtensions())
	assert.Equal(t, 50, extractor.Priority())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestExtract_NilDocument(t *testing.T) {
	result, err := New().Extract(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestExtract_WithMockRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("SERVICE AGREEMENT  \n\n1. Scope of work.\f2. Payment terms.\n")}
	extractor := NewWithRunner(runner)

	raw := &domain.RawDocument{
		Name:     "/path/to/document.pdf",
		MIMEType: "application/pdf",
		Content:  []byte("%PDF-1.4 fake pdf content"),
	}

	result, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "SERVICE AGREEMENT", result.Title)
	assert.Equal(t, "SERVICE AGREEMENT\n\n1. Scope of work.\n\n2. Payment terms.", result.Text)
	assert.Equal(t, "pdf", result.Format)
	require.NotEmpty(t, runner.args)
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("pdftotext crashed")}

	result, err := NewWithRunner(runner).Extract(context.Background(), &domain.RawDocument{
		Name:    "/path/to/document.pdf",
		Content: []byte("%PDF-1.4"),
	})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, result)
}

func TestExtract_ToolMissing(t *testing.T) {
	runner := &mockRunner{err: ErrPDFToolNotFound}

	_, err := NewWithRunner(runner).Extract(context.Background(), &domain.RawDocument{Name: "a.pdf"})
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{"first line as title", "Document Title\n\nSome content here.", "/doc.pdf", "Document Title"},
		{"skip empty lines", "\n\n\nActual Title\nContent", "/doc.pdf", "Actual Title"},
		{"fallback to filename", "", "/path/to/my_document.pdf", "my document"},
		{"skip very long first line", string(make([]byte, 250)) + "\nShort Title\nContent", "/doc.pdf", "Short Title"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.uri))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}

func TestExtract_Integration(t *testing.T) {
	if err := CheckAvailable(); err != nil {
		t.Skip("pdftotext not in PATH, skipping integration test")
	}
	// Invalid PDF bytes make pdftotext exit non-zero.
	_, err := New().Extract(context.Background(), &domain.RawDocument{Name: "bad.pdf", Content: []byte("not a pdf")})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}
