// Package mcp provides an MCP (Model Context Protocol) server adapter for
// clauseguard. It lets AI assistants segment, score and review contracts.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
