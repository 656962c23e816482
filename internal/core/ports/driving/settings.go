package driving

import "github.com/custodia-labs/clauseguard/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then CLAUSEGUARD_* environment overrides.
	Get() (*domain.AppSettings, error)

	// Set validates and persists one setting by dot-notation key.
	Set(key, value string) error

	// Keys returns every recognised setting key in sorted order.
	Keys() []string

	// Values returns the effective value of every key as display strings.
	Values() (map[string]string, error)

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns the config file location.
	Path() string
}
