package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for clauseguard resources.
	uriScheme = "clauseguard://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "analyses",
		Name:        "analyses",
		Description: "Stored contract analyses, newest first",
		MIMEType:    "application/json",
	}, s.handleAnalysesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "analyses/{analysisId}",
		Name:        "analysis",
		Description: "One stored analysis with every clause finding",
		MIMEType:    "application/json",
	}, s.handleAnalysisResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "templates",
		Name:        "templates",
		Description: "Clause template library",
		MIMEType:    "application/json",
	}, s.handleTemplatesResource)
}

// handleAnalysesResource returns the stored analysis summaries.
func (s *Server) handleAnalysesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	list, err := s.ports.Analysis.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing analyses: %w", err)
	}
	if list == nil {
		list = []domain.AnalysisSummary{}
	}
	return jsonResult(req.Params.URI, list)
}

// handleAnalysisResource returns one analysis.
func (s *Server) handleAnalysisResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractAnalysisID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	a, err := s.ports.Analysis.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting analysis: %w", err)
	}
	return jsonResult(req.Params.URI, a)
}

// handleTemplatesResource returns the template library.
func (s *Server) handleTemplatesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	templates := domain.DefaultTemplates()
	if s.ports.Templates != nil {
		var err error
		if templates, err = s.ports.Templates.List(); err != nil {
			return nil, fmt.Errorf("listing templates: %w", err)
		}
	}
	return jsonResult(req.Params.URI, templates)
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAnalysisID extracts the ID from a URI like clauseguard://analyses/{analysisId}.
func extractAnalysisID(uri string) string {
	const prefix = uriScheme + "analyses/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
