// Package storagetest holds behaviour tests shared by every AnalysisStore
// implementation.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// Fixture returns a two-clause bilingual analysis created at the given time.
func Fixture(id string, created time.Time) *domain.Analysis {
	suggestion := "Limit indemnity to direct damages and cap liability to contract value."
	a := &domain.Analysis{
		ID:       id,
		Name:     "vendor agreement",
		Format:   "text",
		Language: domain.LanguageEnglish,
		Plausibility: domain.PlausibilityVerdict{
			Plausible: true,
			Score:     4,
			Signals:   []string{"keyword:indemnify", "numbered-list"},
		},
		Segmentation: domain.StageNumbered,
		Clauses: []domain.ClauseResult{
			{
				Ordinal:     1,
				Text:        "1. The Employee shall indemnify the Company without limitation.",
				Tier:        domain.TierHigh,
				Score:       6,
				Reasons:     []string{"without limitation", "indemnify"},
				Explanation: "High risk: without limitation, indemnify",
				ScoredBy:    "keyword",
				Suggestion:  &suggestion,
			},
			{
				Ordinal:     2,
				Text:        "2. यह अनुबंध दिल्ली के न्यायालय के अधीन है।",
				Tier:        domain.TierMedium,
				Score:       2,
				Reasons:     []string{"न्यायालय"},
				Explanation: "मध्यम जोखिम: समीक्षा आवश्यक। न्यायालय",
				ScoredBy:    "keyword",
			},
		},
		Summary:      "This contract contains 2 clauses. 1 high risk and 1 medium risk found.",
		RulesVersion: domain.DefaultRulesVersion,
		RawText:      "1. The Employee shall indemnify ...",
		CreatedAt:    created.UTC().Truncate(time.Millisecond),
	}
	a.Recount()
	return a
}

// Run exercises an AnalysisStore. newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) driven.AnalysisStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("save and get round trip", func(t *testing.T) {
		store := newStore(t)
		want := Fixture("a-1", base)
		require.NoError(t, store.Save(ctx, want))

		got, err := store.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Language, got.Language)
		assert.Equal(t, want.Plausibility, got.Plausibility)
		assert.Equal(t, want.Counts, got.Counts)
		assert.Equal(t, want.Summary, got.Summary)
		assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
		require.Len(t, got.Clauses, 2)
		assert.Equal(t, want.Clauses[0].Reasons, got.Clauses[0].Reasons)
		require.NotNil(t, got.Clauses[0].Suggestion)
		assert.Equal(t, *want.Clauses[0].Suggestion, *got.Clauses[0].Suggestion)
		assert.Nil(t, got.Clauses[1].Suggestion)
		assert.Equal(t, want.Clauses[1].Text, got.Clauses[1].Text)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := newStore(t).Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("save rejects empty id", func(t *testing.T) {
		err := newStore(t).Save(ctx, &domain.Analysis{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("save replaces clauses", func(t *testing.T) {
		store := newStore(t)
		a := Fixture("a-1", base)
		require.NoError(t, store.Save(ctx, a))

		a.Clauses = a.Clauses[:1]
		a.Recount()
		require.NoError(t, store.Save(ctx, a))

		got, err := store.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.Len(t, got.Clauses, 1)
		assert.Equal(t, 1, got.Counts.High)
		assert.Zero(t, got.Counts.Medium)
	})

	t.Run("list newest first", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, Fixture("old", base)))
		require.NoError(t, store.Save(ctx, Fixture("new", base.Add(time.Hour))))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "new", list[0].ID)
		assert.Equal(t, "old", list[1].ID)
		assert.Equal(t, 2, list[0].ClauseCount)
		assert.True(t, list[0].Plausible)
	})

	t.Run("list empty", func(t *testing.T) {
		list, err := newStore(t).List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, Fixture("a-1", base)))
		require.NoError(t, store.Delete(ctx, "a-1"))

		_, err := store.Get(ctx, "a-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "a-1"), domain.ErrNotFound)
	})

	t.Run("update clause comment", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Save(ctx, Fixture("a-1", base)))
		require.NoError(t, store.UpdateClauseComment(ctx, "a-1", 2, "ask for arbitration in Mumbai"))

		got, err := store.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, "ask for arbitration in Mumbai", got.Clauses[1].Comment)
		assert.Empty(t, got.Clauses[0].Comment)

		assert.ErrorIs(t, store.UpdateClauseComment(ctx, "a-1", 9, "x"), domain.ErrNotFound)
		assert.ErrorIs(t, store.UpdateClauseComment(ctx, "nope", 1, "x"), domain.ErrNotFound)
	})

	t.Run("returned records are independent", func(t *testing.T) {
		store := newStore(t)
		a := Fixture("a-1", base)
		require.NoError(t, store.Save(ctx, a))
		a.Clauses[0].Reasons[0] = "mutated"

		got, err := store.Get(ctx, "a-1")
		require.NoError(t, err)
		assert.Equal(t, "without limitation", got.Clauses[0].Reasons[0])
	})
}
