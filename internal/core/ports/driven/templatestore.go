package driven

import "github.com/custodia-labs/clauseguard/internal/core/domain"

// TemplateStore provides the clause template library.
type TemplateStore interface {
	// List returns built-in templates followed by user templates.
	List() ([]domain.ClauseTemplate, error)

	// Path returns where user templates are read from.
	Path() string
}
