// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewAnalyses lists stored analyses.
	ViewAnalyses ViewType = iota
	// ViewClauses lists the clauses of one analysis.
	ViewClauses
	// ViewClause shows one clause with its finding.
	ViewClause
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewAnalyses:
		return "analyses"
	case ViewClauses:
		return "clauses"
	case ViewClause:
		return "clause"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// AnalysesLoaded carries the stored analysis listing.
type AnalysesLoaded struct {
	Analyses []domain.AnalysisSummary
	Err      error
}

// AnalysisSelected asks the app to open one analysis.
type AnalysisSelected struct {
	ID string
}

// AnalysisLoaded carries a full analysis for review.
type AnalysisLoaded struct {
	Analysis *domain.Analysis
	Err      error
}

// AnalysisDeleted signals an analysis was removed.
type AnalysisDeleted struct {
	ID  string
	Err error
}

// ClauseSelected opens one clause for detail review.
type ClauseSelected struct {
	Clause domain.ClauseResult
}

// CommentSaved signals a reviewer comment was stored.
type CommentSaved struct {
	AnalysisID string
	Ordinal    int
	Comment    string
	Err        error
}
