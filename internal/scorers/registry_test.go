package scorers

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// registryMockScorer is a simple mock for testing registry functionality.
type registryMockScorer struct {
	name string
}

func (m *registryMockScorer) Name() string { return m.name }
func (m *registryMockScorer) Score(_ context.Context, _ string, _ domain.Language) (domain.RiskFinding, error) {
	return domain.RiskFinding{Tier: domain.TierLow}, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.builders) != 0 {
		t.Errorf("expected empty builders, got %d", len(r.builders))
	}
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()

	r.Register("test", func(cfg map[string]any) (driven.Scorer, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockScorer{name: name}, nil
	})

	s, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", s.Name())
	}
}

func TestRegistry_Build_UnknownScorer(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("unknown", nil)
	if !errors.Is(err, domain.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestRegistry_HasAndNames(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r, Dependencies{Rules: domain.DefaultRuleSet()})

	if !r.Has("keyword") || !r.Has("llm") {
		t.Error("expected keyword and llm to be registered")
	}
	if r.Has("nonexistent") {
		t.Error("expected nonexistent to be absent")
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "keyword" || names[1] != "llm" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestGetIntFromConfig(t *testing.T) {
	cfg := map[string]any{"a": 3, "b": int64(4), "c": 5.9, "d": "6"}

	tests := map[string]int{"a": 3, "b": 4, "c": 5, "d": 0, "missing": 0}
	for key, want := range tests {
		if got := getIntFromConfig(cfg, key); got != want {
			t.Errorf("getIntFromConfig(%q) = %d, want %d", key, got, want)
		}
	}
}

func TestGetFloatFromConfig(t *testing.T) {
	cfg := map[string]any{"a": 1.5, "b": 2, "c": int64(3), "d": true}

	tests := map[string]float64{"a": 1.5, "b": 2, "c": 3, "d": 0, "missing": 0}
	for key, want := range tests {
		if got := getFloatFromConfig(cfg, key); got != want {
			t.Errorf("getFloatFromConfig(%q) = %v, want %v", key, got, want)
		}
	}
}
