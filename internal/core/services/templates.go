package services

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

// Ensure TemplateService implements the interface.
var _ driving.TemplateService = (*TemplateService)(nil)

// TemplateService exposes the clause template library.
type TemplateService struct {
	store driven.TemplateStore
}

// NewTemplateService creates a template service. A nil store serves the
// built-in templates only.
func NewTemplateService(store driven.TemplateStore) *TemplateService {
	return &TemplateService{store: store}
}

// List returns built-in templates followed by user templates.
func (s *TemplateService) List() ([]domain.ClauseTemplate, error) {
	if s.store == nil {
		return domain.DefaultTemplates(), nil
	}
	return s.store.List()
}

// Path returns where user templates are read from.
func (s *TemplateService) Path() string {
	if s.store == nil {
		return ""
	}
	return s.store.Path()
}

// DefaultMinSimilarity is the cosine similarity needed to attach a template.
const DefaultMinSimilarity = 0.75

// TemplateMatcher attaches the most similar library template to Medium
// and High clauses using vector embeddings.
type TemplateMatcher struct {
	embedding     driven.EmbeddingService
	templates     driving.TemplateService
	minSimilarity float64

	mu      sync.Mutex
	vectors map[string][]float32 // template text -> embedding
}

// NewTemplateMatcher creates a matcher. Returns nil when embedding is nil,
// which disables matching.
func NewTemplateMatcher(embedding driven.EmbeddingService, templates driving.TemplateService, minSimilarity float64) *TemplateMatcher {
	if embedding == nil || templates == nil {
		return nil
	}
	if minSimilarity <= 0 || minSimilarity > 1 {
		minSimilarity = DefaultMinSimilarity
	}
	return &TemplateMatcher{
		embedding:     embedding,
		templates:     templates,
		minSimilarity: minSimilarity,
		vectors:       make(map[string][]float32),
	}
}

// Attach sets Template on risky results whose best match clears the
// similarity threshold. Failures are logged and leave results untouched.
func (m *TemplateMatcher) Attach(ctx context.Context, results []domain.ClauseResult) {
	if m == nil {
		return
	}

	var idx []int
	var texts []string
	for i := range results {
		if results[i].Tier == domain.TierLow {
			continue
		}
		idx = append(idx, i)
		texts = append(texts, results[i].Text)
	}
	if len(texts) == 0 {
		return
	}

	templates, vectors, err := m.templateVectors(ctx)
	if err != nil {
		logger.Warn("template matching disabled: %v", err)
		return
	}
	if len(templates) == 0 {
		return
	}

	clauseVecs, err := m.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("template matching failed: %v", err)
		return
	}

	for n, vec := range clauseVecs {
		best, bestSim := -1, m.minSimilarity
		for t, tv := range vectors {
			if sim := CosineSimilarity(vec, tv); sim >= bestSim {
				best, bestSim = t, sim
			}
		}
		if best >= 0 {
			title := templates[best].Title
			results[idx[n]].Template = &title
			logger.Debug("Clause %d matches template %q (%.2f)", results[idx[n]].Ordinal, title, bestSim)
		}
	}
}

// templateVectors embeds templates, reusing vectors across calls.
func (m *TemplateMatcher) templateVectors(ctx context.Context) ([]domain.ClauseTemplate, [][]float32, error) {
	templates, err := m.templates.List()
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []string
	for _, t := range templates {
		if _, ok := m.vectors[t.Text]; !ok {
			missing = append(missing, t.Text)
		}
	}
	if len(missing) > 0 {
		vecs, err := m.embedding.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, nil, err
		}
		if len(vecs) != len(missing) {
			return nil, nil, errors.New("embedding count mismatch")
		}
		for i, text := range missing {
			m.vectors[text] = vecs[i]
		}
	}

	out := make([][]float32, len(templates))
	for i, t := range templates {
		out[i] = m.vectors[t.Text]
	}
	return templates, out, nil
}

// CosineSimilarity returns the cosine of the angle between a and b,
// or 0 when lengths differ or either vector is zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
