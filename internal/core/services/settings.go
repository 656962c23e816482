package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes environment overrides: llm.model -> CLAUSEGUARD_LLM_MODEL.
const EnvPrefix = "CLAUSEGUARD_"

// API keys are read from the environment only.
//
//nolint:gosec // G101: These are environment variable names, not credentials.
const (
	EnvLLMAPIKey       = "CLAUSEGUARD_LLM_API_KEY"
	EnvEmbeddingAPIKey = "CLAUSEGUARD_EMBEDDING_API_KEY"
	envRedisAddrAlias  = "CLAUSEGUARD_REDIS_ADDR"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// setting describes one config key: how to parse, validate, apply and show it.
type setting struct {
	kind     valueKind
	validate func(string) error
	apply    func(s *domain.AppSettings, v string)
	show     func(s domain.AppSettings) string
}

var settingDefs = map[string]setting{
	"storage.backend": {
		validate: func(v string) error {
			if !domain.StorageBackend(v).IsValid() {
				return fmt.Errorf("must be %s or %s", domain.StorageSQLite, domain.StorageMemory)
			}
			return nil
		},
		apply: func(s *domain.AppSettings, v string) { s.Storage.Backend = domain.StorageBackend(v) },
		show:  func(s domain.AppSettings) string { return string(s.Storage.Backend) },
	},
	"storage.data_dir": {
		apply: func(s *domain.AppSettings, v string) { s.Storage.DataDir = v },
		show:  func(s domain.AppSettings) string { return s.Storage.DataDir },
	},
	"scoring.scorer": {
		validate: oneOf("keyword", "llm"),
		apply:    func(s *domain.AppSettings, v string) { s.Scoring.Scorer = v },
		show:     func(s domain.AppSettings) string { return s.Scoring.Scorer },
	},
	"scoring.workers": {
		kind:     kindInt,
		validate: nonNegativeInt,
		apply:    func(s *domain.AppSettings, v string) { s.Scoring.Workers = atoi(v) },
		show:     func(s domain.AppSettings) string { return strconv.Itoa(s.Scoring.Workers) },
	},
	"scoring.rules_file": {
		apply: func(s *domain.AppSettings, v string) { s.Scoring.RulesFile = v },
		show:  func(s domain.AppSettings) string { return s.Scoring.RulesFile },
	},
	"llm.provider": {
		validate: providerValue,
		apply:    func(s *domain.AppSettings, v string) { s.LLM.Provider = domain.AIProvider(v) },
		show:     func(s domain.AppSettings) string { return string(s.LLM.Provider) },
	},
	"llm.model": {
		apply: func(s *domain.AppSettings, v string) { s.LLM.Model = v },
		show:  func(s domain.AppSettings) string { return s.LLM.Model },
	},
	"llm.base_url": {
		apply: func(s *domain.AppSettings, v string) { s.LLM.BaseURL = v },
		show:  func(s domain.AppSettings) string { return s.LLM.BaseURL },
	},
	"llm.timeout_seconds": {
		kind:     kindInt,
		validate: nonNegativeInt,
		apply: func(s *domain.AppSettings, v string) {
			if n := atoi(v); n > 0 {
				s.LLM.Timeout = time.Duration(n) * time.Second
			}
		},
		show: func(s domain.AppSettings) string { return strconv.Itoa(int(s.LLM.Timeout / time.Second)) },
	},
	"llm.requests_per_second": {
		kind:     kindFloat,
		validate: nonNegativeFloat,
		apply:    func(s *domain.AppSettings, v string) { s.LLM.RequestsPerSecond = atof(v) },
		show:     func(s domain.AppSettings) string { return formatFloat(s.LLM.RequestsPerSecond) },
	},
	"embedding.provider": {
		validate: providerValue,
		apply:    func(s *domain.AppSettings, v string) { s.Embedding.Provider = domain.AIProvider(v) },
		show:     func(s domain.AppSettings) string { return string(s.Embedding.Provider) },
	},
	"embedding.model": {
		apply: func(s *domain.AppSettings, v string) { s.Embedding.Model = v },
		show:  func(s domain.AppSettings) string { return s.Embedding.Model },
	},
	"embedding.base_url": {
		apply: func(s *domain.AppSettings, v string) { s.Embedding.BaseURL = v },
		show:  func(s domain.AppSettings) string { return s.Embedding.BaseURL },
	},
	"embedding.min_similarity": {
		kind: kindFloat,
		validate: func(v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 || f > 1 {
				return fmt.Errorf("must be a number in (0, 1]")
			}
			return nil
		},
		apply: func(s *domain.AppSettings, v string) { s.Embedding.MinSimilarity = atof(v) },
		show:  func(s domain.AppSettings) string { return formatFloat(s.Embedding.MinSimilarity) },
	},
	"cache.backend": {
		validate: func(v string) error {
			if !domain.CacheBackend(v).IsValid() {
				return fmt.Errorf("must be none, memory or redis")
			}
			return nil
		},
		apply: func(s *domain.AppSettings, v string) { s.Cache.Backend = domain.CacheBackend(v) },
		show:  func(s domain.AppSettings) string { return string(s.Cache.Backend) },
	},
	"cache.redis_addr": {
		apply: func(s *domain.AppSettings, v string) { s.Cache.RedisAddr = v },
		show:  func(s domain.AppSettings) string { return s.Cache.RedisAddr },
	},
	"cache.redis_db": {
		kind:     kindInt,
		validate: nonNegativeInt,
		apply:    func(s *domain.AppSettings, v string) { s.Cache.RedisDB = atoi(v) },
		show:     func(s domain.AppSettings) string { return strconv.Itoa(s.Cache.RedisDB) },
	},
	"cache.ttl_seconds": {
		kind:     kindInt,
		validate: nonNegativeInt,
		apply:    func(s *domain.AppSettings, v string) { s.Cache.TTL = time.Duration(atoi(v)) * time.Second },
		show:     func(s domain.AppSettings) string { return strconv.Itoa(int(s.Cache.TTL / time.Second)) },
	},
	"server.addr": {
		apply: func(s *domain.AppSettings, v string) { s.Server.Addr = v },
		show:  func(s domain.AppSettings) string { return s.Server.Addr },
	},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get returns defaults overlaid with the config file and then the environment.
// Invalid stored values are ignored in favour of the default.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()

	for _, key := range s.Keys() {
		def := settingDefs[key]
		if raw, ok := s.configStore.Get(key); ok {
			if v := stringify(raw); def.check(v) == nil {
				def.apply(&settings, v)
			}
		}
		if v, ok := s.env(key); ok && def.check(v) == nil {
			def.apply(&settings, v)
		}
	}

	if v, ok := s.lookupEnv(EnvLLMAPIKey); ok {
		settings.LLM.APIKey = v
	}
	if v, ok := s.lookupEnv(EnvEmbeddingAPIKey); ok {
		settings.Embedding.APIKey = v
	}

	fillModelDefaults(&settings)
	return &settings, nil
}

// env returns the override for key, honouring the short redis alias.
func (s *SettingsService) env(key string) (string, bool) {
	name := EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if v, ok := s.lookupEnv(name); ok {
		return v, true
	}
	if key == "cache.redis_addr" {
		return s.lookupEnv(envRedisAddrAlias)
	}
	return "", false
}

// fillModelDefaults picks the provider's default model when none is set.
func fillModelDefaults(s *domain.AppSettings) {
	if s.LLM.Provider.IsValid() && s.LLM.Model == "" {
		s.LLM.Model = domain.DefaultLLMModels()[s.LLM.Provider]
	}
	if s.Embedding.Provider.IsValid() && s.Embedding.Model == "" {
		s.Embedding.Model = domain.DefaultEmbeddingModels()[s.Embedding.Provider]
	}
}

// Set validates and persists one setting.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	def, ok := settingDefs[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)
	if err := def.check(value); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	var typed any = value
	switch def.kind {
	case kindInt:
		typed = int64(atoi(value))
	case kindFloat:
		typed = atof(value)
	case kindBool:
		typed, _ = strconv.ParseBool(value)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised setting key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingDefs))
	for k := range settingDefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the effective value of every key.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settingDefs))
	for key, def := range settingDefs {
		out[key] = def.show(*settings)
	}
	return out, nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the config file location.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (d setting) check(v string) error {
	switch d.kind {
	case kindInt:
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("must be an integer")
		}
	case kindFloat:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("must be a number")
		}
	case kindBool:
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("must be true or false")
		}
	}
	if d.validate != nil {
		return d.validate(v)
	}
	return nil
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
	}
}

func providerValue(v string) error {
	if v == "" || domain.AIProvider(v).IsValid() {
		return nil
	}
	return fmt.Errorf("must be empty, %s or %s", domain.AIProviderOllama, domain.AIProviderOpenAI)
}

func nonNegativeInt(v string) error {
	if atoi(v) < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func nonNegativeFloat(v string) error {
	if atof(v) < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func atoi(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}

func atof(v string) float64 {
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// stringify renders a stored TOML value for parsing.
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return formatFloat(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
