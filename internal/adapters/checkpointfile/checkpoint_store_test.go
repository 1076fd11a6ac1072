package checkpointfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/adapters/checkpointfile"
	"github.com/cosminpetcu/carstat/internal/core/domain"
)

func newStore(t *testing.T) (*checkpointfile.CheckpointFileStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := checkpointfile.NewCheckpointFileStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewCheckpointFileStore_RequiresDir(t *testing.T) {
	t.Parallel()

	_, err := checkpointfile.NewCheckpointFileStore("")
	assert.Error(t, err)
}

func TestShardCheckpoint_Roundtrip(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	cp := domain.ShardCheckpoint{
		FirstURL: "https://www.olx.ro/d/oferta/a.html",
		LastURL:  "https://www.olx.ro/d/oferta/z.html",
		Done:     "https://www.olx.ro/d/oferta/m.html",
	}
	require.NoError(t, store.SaveShard(3, cp))

	loaded, err := store.LoadShard(3)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cp, *loaded)
}

func TestLoadShard_AbsentIsNil(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	loaded, err := store.LoadShard(7)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadShard_CorruptedFileIsAnError(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shard_0.json"), []byte("{not json"), 0o644))

	_, err := store.LoadShard(0)
	assert.Error(t, err)
}

func TestClearShards_RemovesOnlyShardFiles(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)
	require.NoError(t, store.SaveShard(0, domain.ShardCheckpoint{FirstURL: "a", LastURL: "b"}))
	require.NoError(t, store.SaveShard(1, domain.ShardCheckpoint{FirstURL: "c", LastURL: "d"}))
	require.NoError(t, store.SaveFrontier("https://www.olx.ro/d/oferta/m.html"))

	require.NoError(t, store.ClearShards())

	for _, shard := range []int{0, 1} {
		loaded, err := store.LoadShard(shard)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	}

	// Фронтир живет отдельно от шардовых отметок.
	frontier, err := store.LoadFrontier()
	require.NoError(t, err)
	assert.Equal(t, "https://www.olx.ro/d/oferta/m.html", frontier)
}

func TestFrontier_Lifecycle(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t)

	frontier, err := store.LoadFrontier()
	require.NoError(t, err)
	assert.Empty(t, frontier)

	require.NoError(t, store.SaveFrontier("https://www.olx.ro/d/oferta/k.html"))
	frontier, err = store.LoadFrontier()
	require.NoError(t, err)
	assert.Equal(t, "https://www.olx.ro/d/oferta/k.html", frontier)

	require.NoError(t, store.ClearFrontier())
	frontier, err = store.LoadFrontier()
	require.NoError(t, err)
	assert.Empty(t, frontier)

	// Повторная очистка безопасна.
	require.NoError(t, store.ClearFrontier())
}

func TestSaveShard_LeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t)
	require.NoError(t, store.SaveShard(0, domain.ShardCheckpoint{FirstURL: "a", LastURL: "b", Done: "a"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp-")
	}
}
