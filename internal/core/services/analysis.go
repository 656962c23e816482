package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
	"github.com/custodia-labs/clauseguard/internal/logger"
	"github.com/custodia-labs/clauseguard/internal/plausibility"
	"github.com/custodia-labs/clauseguard/internal/risk"
	"github.com/custodia-labs/clauseguard/internal/segmenter"
	"github.com/custodia-labs/clauseguard/internal/suggest"
	"github.com/custodia-labs/clauseguard/internal/textnorm"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisOption configures an AnalysisService.
type AnalysisOption func(*AnalysisService)

// WithExtractors sets the registry used by AnalyzeDocument.
func WithExtractors(r driven.ExtractorRegistry) AnalysisOption {
	return func(s *AnalysisService) {
		s.extractors = r
	}
}

// WithScorer replaces the keyword scorer, typically with a fallback chain.
func WithScorer(sc driven.Scorer) AnalysisOption {
	return func(s *AnalysisService) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithLanguageIdentifier adds a statistical classifier to language detection.
func WithLanguageIdentifier(id driven.LanguageIdentifier) AnalysisOption {
	return func(s *AnalysisService) {
		s.detector = textnorm.NewDetector(textnorm.WithIdentifier(id))
	}
}

// WithStore sets where analyses are saved.
func WithStore(store driven.AnalysisStore) AnalysisOption {
	return func(s *AnalysisService) {
		s.store = store
	}
}

// WithCache enables the result cache. A zero ttl keeps entries forever.
func WithCache(cache driven.ResultCache, ttl time.Duration) AnalysisOption {
	return func(s *AnalysisService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m driven.MetricsRecorder) AnalysisOption {
	return func(s *AnalysisService) {
		s.metrics = m
	}
}

// WithWorkers bounds parallel clause scoring. Values below one mean one per CPU.
func WithWorkers(n int) AnalysisOption {
	return func(s *AnalysisService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithTemplateMatcher attaches the closest library template to risky clauses.
func WithTemplateMatcher(m *TemplateMatcher) AnalysisOption {
	return func(s *AnalysisService) {
		s.matcher = m
	}
}

// AnalysisService runs the contract pipeline: extraction, language
// detection, plausibility, segmentation, scoring and suggestions.
type AnalysisService struct {
	rules      domain.RuleSet
	extractors driven.ExtractorRegistry
	detector   *textnorm.Detector
	segmenter  *segmenter.Segmenter
	scorer     driven.Scorer
	suggester  *suggest.Engine
	checker    *plausibility.Checker
	store      driven.AnalysisStore
	cache      driven.ResultCache
	cacheTTL   time.Duration
	metrics    driven.MetricsRecorder
	matcher    *TemplateMatcher
	workers    int

	now   func() time.Time
	newID func() string
}

// NewAnalysisService creates the service for a validated rule set.
// Without options it scores with keywords only and keeps nothing.
func NewAnalysisService(rules domain.RuleSet, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		rules:     rules,
		detector:  textnorm.NewDetector(),
		segmenter: segmenter.New(rules),
		scorer:    risk.New(rules),
		suggester: suggest.New(rules),
		workers:   runtime.NumCPU(),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.checker = plausibility.New(rules, plausibility.WithDetector(s.detector))
	return s
}

// AnalyzeDocument extracts text from raw bytes and analyses it.
func (s *AnalysisService) AnalyzeDocument(
	ctx context.Context, raw *domain.RawDocument, opts domain.AnalyzeOptions,
) (*domain.Analysis, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no document", domain.ErrInvalidInput)
	}
	if s.extractors == nil {
		return nil, fmt.Errorf("%w: no extractors configured", domain.ErrUnsupportedType)
	}

	logger.Section("Extraction")
	logger.Debug("Document %q (%s, %d bytes)", raw.Name, raw.MIMEType, len(raw.Content))

	extracted, err := s.extractors.Extract(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", raw.Name, err)
	}
	logger.Info("Extracted %d bytes of %s text", len(extracted.Text), extracted.Format)

	name := opts.Name
	if name == "" {
		name = extracted.Title
	}
	if name == "" {
		name = raw.Name
	}
	opts.Name = name

	a, err := s.analyze(ctx, extracted.Text, opts)
	if err != nil {
		return nil, err
	}
	a.Format = extracted.Format
	return s.finish(ctx, a, opts)
}

// AnalyzeText analyses already extracted text.
func (s *AnalysisService) AnalyzeText(
	ctx context.Context, name, text string, opts domain.AnalyzeOptions,
) (*domain.Analysis, error) {
	if opts.Name == "" {
		opts.Name = name
	}
	a, err := s.analyze(ctx, text, opts)
	if err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = "text"
	}
	return s.finish(ctx, a, opts)
}

// analyze returns a fresh analysis without an ID, name or timestamp.
func (s *AnalysisService) analyze(ctx context.Context, text string, opts domain.AnalyzeOptions) (*domain.Analysis, error) {
	key := s.cacheKey(text)
	if cached := s.lookup(ctx, key, opts); cached != nil {
		return cached, nil
	}

	start := time.Now()
	logger.Section("Analysis")

	lang := s.detector.Detect(text)
	verdict := s.checker.Check(text)
	logger.Debug("Language: %s, plausible: %t (score %d)", lang, verdict.Plausible, verdict.Score)

	seg := s.segmenter.Segment(text)
	logger.Info("Segmented %d clauses (%s stage)", len(seg.Clauses), seg.Stage)

	results, err := s.scoreAll(ctx, seg.Clauses, lang)
	if err != nil {
		return nil, err
	}
	if s.matcher != nil {
		s.matcher.Attach(ctx, results)
	}

	a := &domain.Analysis{
		Language:     lang,
		Plausibility: verdict,
		Segmentation: seg.Stage,
		Clauses:      results,
		RulesVersion: s.rules.Version,
		RawText:      text,
	}
	a.Recount()
	a.Summary = Summarize(len(a.Clauses), a.Counts)

	if s.metrics != nil {
		s.metrics.ObserveAnalysis(lang, seg.Stage, a.Counts, time.Since(start))
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, a, s.cacheTTL); err != nil {
			logger.Warn("cache store failed: %v", err)
		}
	}
	return a, nil
}

// scoreAll scores clauses in parallel; results keep clause order.
func (s *AnalysisService) scoreAll(
	ctx context.Context, clauses []domain.Clause, lang domain.Language,
) ([]domain.ClauseResult, error) {
	results := make([]domain.ClauseResult, len(clauses))
	if len(clauses) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range clauses {
		g.Go(func() error {
			f, err := s.scorer.Score(gctx, c.Text, lang)
			if err != nil {
				return fmt.Errorf("score clause %d: %w", c.Ordinal, err)
			}
			results[i] = domain.NewClauseResult(c, f, s.suggester.SuggestFinding(c.Text, f))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// lookup returns a cached analysis, or nil on miss or when caching is off.
func (s *AnalysisService) lookup(ctx context.Context, key string, opts domain.AnalyzeOptions) *domain.Analysis {
	if s.cache == nil || opts.NoCache {
		return nil
	}
	a, err := s.cache.Get(ctx, key)
	hit := err == nil
	if s.metrics != nil {
		s.metrics.ObserveCache(hit)
	}
	switch {
	case hit:
		logger.Info("Cache hit %s", key[:12])
		return a
	case errors.Is(err, domain.ErrCacheMiss):
		logger.Debug("Cache miss %s", key[:12])
	default:
		logger.Warn("cache lookup failed: %v", err)
	}
	return nil
}

// finish stamps identity and saves when asked.
func (s *AnalysisService) finish(ctx context.Context, a *domain.Analysis, opts domain.AnalyzeOptions) (*domain.Analysis, error) {
	a.ID = s.newID()
	a.Name = opts.Name
	if a.Name == "" {
		a.Name = "untitled"
	}
	a.CreatedAt = s.now()

	if opts.Save {
		if s.store == nil {
			return nil, errors.New("analysis store not configured")
		}
		if err := s.store.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("save analysis: %w", err)
		}
		logger.Info("Saved analysis %s", a.ID)
	}
	return a, nil
}

// cacheKey combines the text digest with everything that changes results.
func (s *AnalysisService) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:]) + ":" + s.rules.Version + ":" + s.scorer.Name()
}

// Segment splits text into clauses.
func (s *AnalysisService) Segment(text string) ([]domain.Clause, string) {
	r := s.segmenter.Segment(text)
	return r.Clauses, r.Stage
}

// ScoreClause scores one clause.
func (s *AnalysisService) ScoreClause(ctx context.Context, clause string, lang domain.Language) (domain.RiskFinding, error) {
	if lang == "" {
		lang = s.detector.Detect(clause)
	}
	return s.scorer.Score(ctx, clause, lang)
}

// Suggest returns a rewrite suggestion, or nil.
func (s *AnalysisService) Suggest(clause string, tier domain.Tier, reasons []string) *string {
	text, ok := s.suggester.Suggest(clause, tier, reasons)
	if !ok {
		return nil
	}
	return &text
}

// CheckPlausibility reports whether text looks like a legal contract.
func (s *AnalysisService) CheckPlausibility(text string) domain.PlausibilityVerdict {
	return s.checker.Check(text)
}

// DetectLanguage returns en, hi or unknown.
func (s *AnalysisService) DetectLanguage(text string) domain.Language {
	return s.detector.Detect(text)
}

// Get retrieves a stored analysis.
func (s *AnalysisService) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, strings.TrimSpace(id))
}

// List returns stored analyses, newest first.
func (s *AnalysisService) List(ctx context.Context) ([]domain.AnalysisSummary, error) {
	if err := s.requireStore(); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// Delete removes a stored analysis.
func (s *AnalysisService) Delete(ctx context.Context, id string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	return s.store.Delete(ctx, strings.TrimSpace(id))
}

// Comment attaches a reviewer note to one clause.
func (s *AnalysisService) Comment(ctx context.Context, id string, ordinal int, comment string) error {
	if err := s.requireStore(); err != nil {
		return err
	}
	if ordinal < 1 {
		return fmt.Errorf("%w: ordinal must be 1 or more", domain.ErrInvalidInput)
	}
	return s.store.UpdateClauseComment(ctx, strings.TrimSpace(id), ordinal, strings.TrimSpace(comment))
}

// Export writes a stored analysis as indented JSON. Devanagari and markup
// characters are written unescaped.
func (s *AnalysisService) Export(ctx context.Context, id string, w io.Writer) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return WriteJSON(w, a)
}

func (s *AnalysisService) requireStore() error {
	if s.store == nil {
		return errors.New("analysis store not configured")
	}
	return nil
}

// WriteJSON encodes v as indented UTF-8 JSON without HTML escaping.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Summarize returns the one-line digest shown with every analysis.
func Summarize(clauses int, counts domain.TierCounts) string {
	return fmt.Sprintf("This contract contains %d clauses. %d high risk and %d medium risk found.",
		clauses, counts.High, counts.Medium)
}
