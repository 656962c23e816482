package extractors

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/extractors/docx"
	"github.com/custodia-labs/clauseguard/internal/extractors/eml"
	"github.com/custodia-labs/clauseguard/internal/extractors/html"
	"github.com/custodia-labs/clauseguard/internal/extractors/markdown"
	"github.com/custodia-labs/clauseguard/internal/extractors/pdf"
	"github.com/custodia-labs/clauseguard/internal/extractors/plaintext"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches documents to the highest-priority matching extractor.
// Selection order: declared MIME type, file extension, sniffed content.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.Extractor
	metrics    driven.MetricsRecorder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with every built-in extractor.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(eml.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	return r
}

// SetMetrics attaches a recorder for extraction outcomes.
func (r *Registry) SetMetrics(m driven.MetricsRecorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics = m
}

// Register adds an extractor, keeping the list ordered by priority.
func (r *Registry) Register(e driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, e)
	sort.SliceStable(r.extractors, func(i, j int) bool {
		return r.extractors[i].Priority() > r.extractors[j].Priority()
	})
}

// SupportedMIMETypes returns all MIME types that can be extracted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.extractors, driven.Extractor.SupportedMIMETypes)
}

// SupportedExtensions returns all file extensions that can be extracted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return collect(r.extractors, driven.Extractor.SupportedExtensions)
}

// Extract selects an extractor and runs it.
func (r *Registry) Extract(ctx context.Context, raw *domain.RawDocument) (*domain.ExtractedText, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	e := r.selectFor(raw)
	if e == nil {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedType, raw.Name, raw.MIMEType)
	}
	logger.Debug("extracting %s with %s extractor", raw.Name, e.Format())

	out, err := e.Extract(ctx, raw)

	r.mu.RLock()
	m := r.metrics
	r.mu.RUnlock()
	if m != nil {
		m.ObserveExtraction(e.Format(), err)
	}

	return out, err
}

func (r *Registry) selectFor(raw *domain.RawDocument) driven.Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if mt := baseMIME(raw.MIMEType); mt != "" && mt != "application/octet-stream" {
		if e := find(r.extractors, driven.Extractor.SupportedMIMETypes, mt); e != nil {
			return e
		}
	}
	if ext := strings.ToLower(filepath.Ext(raw.Name)); ext != "" {
		if e := find(r.extractors, driven.Extractor.SupportedExtensions, ext); e != nil {
			return e
		}
	}
	return find(r.extractors, driven.Extractor.SupportedMIMETypes, sniff(raw.Content))
}

// sniff guesses a MIME type from magic bytes.
func sniff(content []byte) string {
	switch {
	case bytes.HasPrefix(content, []byte("%PDF-")):
		return "application/pdf"
	case bytes.HasPrefix(content, []byte("PK\x03\x04")):
		return docx.MIMEType
	}
	return baseMIME(http.DetectContentType(content))
}

func baseMIME(mt string) string {
	if mt == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		return parsed
	}
	return strings.ToLower(strings.TrimSpace(mt))
}

func find(list []driven.Extractor, keys func(driven.Extractor) []string, want string) driven.Extractor {
	if want == "" {
		return nil
	}
	for _, e := range list {
		for _, k := range keys(e) {
			if k == want {
				return e
			}
		}
	}
	return nil
}

func collect(list []driven.Extractor, keys func(driven.Extractor) []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range list {
		for _, k := range keys(e) {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	sort.Strings(out)
	return out
}
