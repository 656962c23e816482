package driving

import "github.com/custodia-labs/clauseguard/internal/core/domain"

// TemplateService exposes the clause template library.
type TemplateService interface {
	// List returns built-in templates followed by user templates.
	List() ([]domain.ClauseTemplate, error)

	// Path returns where user templates are read from.
	Path() string
}
