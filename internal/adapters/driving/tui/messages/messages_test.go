package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewAnalyses, "analyses"},
		{ViewClauses, "clauses"},
		{ViewClause, "clause"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestMessages_CarryPayloads(t *testing.T) {
	err := errors.New("boom")

	loaded := AnalysisLoaded{Analysis: &domain.Analysis{ID: "a1"}, Err: err}
	assert.Equal(t, "a1", loaded.Analysis.ID)
	assert.ErrorIs(t, loaded.Err, err)

	saved := CommentSaved{AnalysisID: "a1", Ordinal: 2, Comment: "ok"}
	assert.Equal(t, 2, saved.Ordinal)
	assert.NoError(t, saved.Err)

	sel := ClauseSelected{Clause: domain.ClauseResult{Ordinal: 3, Tier: domain.TierHigh}}
	assert.Equal(t, domain.TierHigh, sel.Clause.Tier)
}
