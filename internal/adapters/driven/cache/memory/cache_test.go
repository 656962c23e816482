package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clauseguard/internal/adapters/driven/storage/storagetest"
	"github.com/custodia-labs/clauseguard/internal/core/domain"
)

func TestCache_Miss(t *testing.T) {
	c := New()
	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New()
	a := storagetest.Fixture("a1", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	require.NoError(t, c.Set(ctx, "k", a, 0))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, a.Clauses, got.Clauses)
	assert.Equal(t, a.Counts, got.Counts)
}

func TestCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := New()
	a := storagetest.Fixture("a1", time.Now().UTC())
	require.NoError(t, c.Set(ctx, "k", a, 0))

	a.Clauses[0].Text = "mutated"
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.Clauses[0].Text)

	got.Name = "changed"
	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, a.Name, again.Name)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", storagetest.Fixture("a1", now), time.Minute))
	_, err := c.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.Equal(t, 0, c.Len())
}

func TestCache_NilAnalysis(t *testing.T) {
	err := New().Set(context.Background(), "k", nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCache_Close(t *testing.T) {
	ctx := context.Background()
	c := New()
	require.NoError(t, c.Set(ctx, "k", storagetest.Fixture("a1", time.Now()), 0))
	require.NoError(t, c.Close())
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
