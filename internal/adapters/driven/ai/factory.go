// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/clauseguard/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/clauseguard/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/clauseguard/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/clauseguard/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// Services holds the optional AI services for a run.
type Services struct {
	LLM       driven.LLMService
	Embedding driven.EmbeddingService

	// Warnings lists non-fatal issues that disabled a service.
	Warnings []string
}

// Close releases all resources held by the services.
func (s *Services) Close() {
	if s.LLM != nil {
		s.LLM.Close()
	}
	if s.Embedding != nil {
		s.Embedding.Close()
	}
}

// Init creates and validates the configured AI services. A service that
// cannot be created or reached is left nil and a warning is recorded, so
// analysis continues with keyword scoring and no template matching.
func Init(settings domain.AppSettings) *Services {
	out := &Services{}

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		out.Warnings = append(out.Warnings, err.Error())
		logger.Warn("LLM disabled: %v", err)
	}
	out.LLM = llm

	emb, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		out.Warnings = append(out.Warnings, err.Error())
		logger.Warn("embeddings disabled: %v", err)
	}
	out.Embedding = emb

	return out
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns nil without error when no provider is configured.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns nil without error when no provider is configured.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateLLMService creates the LLM service for the configured provider.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || settings.Provider == domain.AIProviderNone {
		return nil, nil
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("llm provider %q is incomplete (model and API key)", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil
	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateEmbeddingService creates the embedding service for the configured provider.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || settings.Provider == domain.AIProviderNone {
		return nil, nil
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q is incomplete (model and API key)", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}
