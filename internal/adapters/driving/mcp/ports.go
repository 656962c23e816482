package mcp

import (
	"github.com/custodia-labs/clauseguard/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs the contract pipeline and reads stored analyses.
	Analysis driving.AnalysisService

	// Templates serves the clause template library. Optional.
	Templates driving.TemplateService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p == nil || p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
