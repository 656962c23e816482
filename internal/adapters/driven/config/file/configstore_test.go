package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("llm.model", "llama3.2"))

	val, ok := store.Get("llm.model")
	assert.True(t, ok)
	assert.Equal(t, "llama3.2", val)
	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("scoring.workers", 4))
	require.NoError(t, store.Set("cache.redis_db", "2"))
	require.NoError(t, store.Set("embedding.min_similarity", 0.8))
	require.NoError(t, store.Set("llm.requests_per_second", "1.5"))
	require.NoError(t, store.Set("feature.on", true))
	require.NoError(t, store.Set("feature.text", "true"))

	assert.Equal(t, 4, store.GetInt("scoring.workers"))
	assert.Equal(t, 2, store.GetInt("cache.redis_db"))
	assert.InDelta(t, 0.8, store.GetFloat("embedding.min_similarity"), 1e-9)
	assert.InDelta(t, 1.5, store.GetFloat("llm.requests_per_second"), 1e-9)
	assert.InDelta(t, 4.0, store.GetFloat("scoring.workers"), 1e-9)
	assert.True(t, store.GetBool("feature.on"))
	assert.True(t, store.GetBool("feature.text"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.Zero(t, store.GetFloat("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	require.NoError(t, store.Set("storage.backend", "memory"))
	require.NoError(t, store.Set("scoring.workers", 8))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[storage]")
	assert.Contains(t, string(raw), "[scoring]")

	reopened, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	assert.Equal(t, "memory", reopened.GetString("storage.backend"))
	assert.Equal(t, 8, reopened.GetInt("scoring.workers"))
	assert.Equal(t, []string{"scoring.workers", "storage.backend"}, reopened.Keys())
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(tmpDir)
	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("scoring.workers", n)
			_ = store.GetInt("scoring.workers")
		}(i)
	}
	wg.Wait()

	_, ok := store.Get("scoring.workers")
	assert.True(t, ok)
}

func TestFlattenAndNest(t *testing.T) {
	nested := map[string]any{
		"llm":   map[string]any{"model": "m", "provider": "ollama"},
		"debug": true,
	}
	flat := flattenMap(nested, "")
	assert.Equal(t, map[string]any{"llm.model": "m", "llm.provider": "ollama", "debug": true}, flat)
	assert.Equal(t, nested, nestMap(flat))
}
