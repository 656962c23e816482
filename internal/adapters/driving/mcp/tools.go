package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// SegmentInput is the input schema for the segment_document tool.
type SegmentInput struct {
	Text string `json:"text" jsonschema:"the extracted contract text"`
}

// SegmentOutput is the output schema for the segment_document tool.
type SegmentOutput struct {
	Clauses []domain.Clause `json:"clauses"`
	Stage   string          `json:"stage"`
	Count   int             `json:"count"`
}

// ScoreInput is the input schema for the score_clause tool.
type ScoreInput struct {
	Clause   string `json:"clause" jsonschema:"the clause text to score"`
	Language string `json:"language,omitempty" jsonschema:"en, hi or unknown; detected when omitted"`
}

// ScoreOutput is the output schema for the score_clause tool.
type ScoreOutput struct {
	Tier        domain.Tier `json:"tier"`
	Score       int         `json:"score"`
	Reasons     []string    `json:"reasons"`
	Explanation string      `json:"explanation,omitempty"`
	ScoredBy    string      `json:"scored_by,omitempty"`
}

// SuggestInput is the input schema for the suggest_rewrite tool.
type SuggestInput struct {
	Clause  string   `json:"clause" jsonschema:"the clause text"`
	Tier    string   `json:"tier" jsonschema:"Low, Medium or High"`
	Reasons []string `json:"reasons,omitempty" jsonschema:"reason phrases returned by score_clause"`
}

// SuggestOutput is the output schema for the suggest_rewrite tool.
type SuggestOutput struct {
	Suggestion *string `json:"suggestion"`
}

// CheckInput is the input schema for the check_contract tool.
type CheckInput struct {
	Text string `json:"text" jsonschema:"the document text"`
}

// AnalyzeInput is the input schema for the analyze_contract tool.
type AnalyzeInput struct {
	Name string `json:"name,omitempty" jsonschema:"a label for the contract"`
	Text string `json:"text" jsonschema:"the extracted contract text"`
	Save bool   `json:"save,omitempty" jsonschema:"store the analysis for later review"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "segment_document",
		Description: "Split contract text into ordered clauses",
	}, s.handleSegment)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "score_clause",
		Description: "Score one contract clause for legal risk (English or Hindi)",
	}, s.handleScore)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "suggest_rewrite",
		Description: "Suggest a safer rewrite for a risky clause",
	}, s.handleSuggest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_contract",
		Description: "Check whether a document looks like a legal contract",
	}, s.handleCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_contract",
		Description: "Run the full pipeline: segment, score and suggest rewrites for every clause",
	}, s.handleAnalyze)
}

func (s *Server) handleSegment(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SegmentInput,
) (*mcp.CallToolResult, SegmentOutput, error) {
	clauses, stage := s.ports.Analysis.Segment(input.Text)
	if clauses == nil {
		clauses = []domain.Clause{}
	}
	return nil, SegmentOutput{Clauses: clauses, Stage: stage, Count: len(clauses)}, nil
}

func (s *Server) handleScore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ScoreInput,
) (*mcp.CallToolResult, ScoreOutput, error) {
	f, err := s.ports.Analysis.ScoreClause(ctx, input.Clause, parseLanguage(input.Language))
	if err != nil {
		return nil, ScoreOutput{}, err
	}

	reasons := f.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return nil, ScoreOutput{
		Tier:        f.Tier,
		Score:       f.Score,
		Reasons:     reasons,
		Explanation: f.Explanation,
		ScoredBy:    f.ScoredBy,
	}, nil
}

func (s *Server) handleSuggest(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SuggestInput,
) (*mcp.CallToolResult, SuggestOutput, error) {
	tier, err := domain.ParseTier(input.Tier)
	if err != nil {
		return nil, SuggestOutput{}, err
	}
	return nil, SuggestOutput{Suggestion: s.ports.Analysis.Suggest(input.Clause, tier, input.Reasons)}, nil
}

func (s *Server) handleCheck(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input CheckInput,
) (*mcp.CallToolResult, domain.PlausibilityVerdict, error) {
	return nil, s.ports.Analysis.CheckPlausibility(input.Text), nil
}

func (s *Server) handleAnalyze(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnalyzeInput,
) (*mcp.CallToolResult, domain.Analysis, error) {
	a, err := s.ports.Analysis.AnalyzeText(ctx, input.Name, input.Text, domain.AnalyzeOptions{Save: input.Save})
	if err != nil {
		return nil, domain.Analysis{}, err
	}
	out := *a
	out.RawText = ""
	return nil, out, nil
}

// parseLanguage maps an optional language tag; empty means detect.
func parseLanguage(s string) domain.Language {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return domain.ParseLanguage(s)
}
