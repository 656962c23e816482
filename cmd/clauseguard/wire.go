package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/clauseguard/internal/adapters/driven/ai"
	cachemem "github.com/custodia-labs/clauseguard/internal/adapters/driven/cache/memory"
	cacheredis "github.com/custodia-labs/clauseguard/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/clauseguard/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clauseguard/internal/adapters/driven/langid/whatlang"
	"github.com/custodia-labs/clauseguard/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/clauseguard/internal/adapters/driving/cli"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/core/services"
	"github.com/custodia-labs/clauseguard/internal/extractors"
	"github.com/custodia-labs/clauseguard/internal/logger"
	"github.com/custodia-labs/clauseguard/internal/scorers"
	"github.com/custodia-labs/clauseguard/internal/scorers/llm"
)

// Environment variables read only by the composition root.
const (
	envHome          = "CLAUSEGUARD_HOME"
	envRedisPassword = "CLAUSEGUARD_REDIS_PASSWORD"
)

// redisPingTimeout bounds the startup connectivity check.
const redisPingTimeout = 3 * time.Second

// bootstrap builds the services for one command invocation.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	home, err := resolveHome(opts.Home)
	if err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, nil, err
	}
	settingsService := services.NewSettingsService(configStore)

	templateStore, err := file.NewTemplateStore(home)
	if err != nil {
		return nil, nil, err
	}
	templateService := services.NewTemplateService(templateStore)

	out := &cli.Services{Settings: settingsService, Templates: templateService}
	if opts.ConfigOnly {
		return out, func() {}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, err
	}
	if opts.Scorer != "" {
		settings.Scoring.Scorer = opts.Scorer
	}
	if opts.Workers > 0 {
		settings.Scoring.Workers = opts.Workers
	}

	rulesPath := settings.Scoring.RulesFile
	if rulesPath == "" {
		rulesPath = filepath.Join(home, file.RulesFileName)
	}
	rules, err := file.LoadRuleSet(rulesPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Rules version %s", rules.Version)

	var closers []func()
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	recorder := prometheus.New(prometheus.Options{RuntimeMetrics: true})

	registry := extractors.NewDefaultRegistry()
	registry.SetMetrics(recorder)

	aiSettings := *settings
	if aiSettings.Scoring.Scorer != llm.ScorerName {
		aiSettings.LLM.Provider = domain.AIProviderNone
	}
	aiServices := ai.Init(aiSettings)
	closers = append(closers, aiServices.Close)

	chain, err := buildScorer(rules, settings, aiServices.LLM)
	if err != nil {
		release()
		return nil, nil, err
	}
	chain.SetMetrics(recorder)

	store, closeStore, err := openStore(home, settings.Storage)
	if err != nil {
		release()
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	analysisOpts := []services.AnalysisOption{
		services.WithExtractors(registry),
		services.WithScorer(chain),
		services.WithLanguageIdentifier(whatlang.New()),
		services.WithStore(store),
		services.WithMetrics(recorder),
		services.WithWorkers(settings.Scoring.Workers),
	}

	if cache := openCache(settings.Cache); cache != nil {
		closers = append(closers, func() { _ = cache.Close() })
		analysisOpts = append(analysisOpts, services.WithCache(cache, settings.Cache.TTL))
	}

	if aiServices.Embedding != nil {
		matcher := services.NewTemplateMatcher(aiServices.Embedding, templateService, settings.Embedding.MinSimilarity)
		analysisOpts = append(analysisOpts, services.WithTemplateMatcher(matcher))
	}

	out.Analysis = services.NewAnalysisService(rules, analysisOpts...)
	out.Metrics = recorder.Handler()
	out.Extensions = registry.SupportedExtensions()
	return out, release, nil
}

func resolveHome(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(envHome); env != "" {
		return env, nil
	}
	return file.DefaultDir()
}

// buildScorer assembles the configured scorer chain ending in keywords.
func buildScorer(rules domain.RuleSet, settings *domain.AppSettings, llmService driven.LLMService) (*scorers.Chain, error) {
	registry := scorers.NewRegistry()
	scorers.RegisterDefaults(registry, scorers.Dependencies{Rules: rules, LLM: llmService})

	pipeline := settings.Scoring.PipelineFor()
	pipeline.ScorerConfigs[llm.ScorerName] = map[string]any{
		"requests_per_second": settings.LLM.RequestsPerSecond,
		"timeout_seconds":     int(settings.LLM.Timeout / time.Second),
	}
	return scorers.BuildChain(registry, pipeline)
}

func openStore(home string, cfg domain.StorageSettings) (driven.AnalysisStore, func(), error) {
	if cfg.Backend == domain.StorageMemory {
		return memory.NewAnalysisStore(), func() {}, nil
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(home, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Analyses stored in %s", store.Path())
	return store, func() { _ = store.Close() }, nil
}

// openCache returns the configured result cache, or nil when caching is
// off or redis cannot be reached.
func openCache(cfg domain.CacheSettings) driven.ResultCache {
	switch cfg.Backend {
	case domain.CacheMemory:
		return cachemem.New()
	case domain.CacheRedis:
		c := cacheredis.New(cacheredis.Config{
			Addr:     cfg.RedisAddr,
			Password: os.Getenv(envRedisPassword),
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			logger.Warn("redis cache disabled: %v", err)
			_ = c.Close()
			return nil
		}
		return c
	default:
		return nil
	}
}
