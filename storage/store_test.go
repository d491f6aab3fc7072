package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestStore_SetAndReadTokens(t *testing.T) {
	store := setupTestStore(t)

	err := store.SetTokens("access-abc", "id-xyz")
	require.NoError(t, err)

	access, err := store.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "access-abc", access)

	id, err := store.IDToken()
	require.NoError(t, err)
	assert.Equal(t, "id-xyz", id)
}

func TestStore_AbsentTokenIsEmptyNotError(t *testing.T) {
	store := setupTestStore(t)

	access, err := store.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestStore_TokensSurviveReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.SetTokens("persisted", ""))
	require.NoError(t, store.Close())

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	access, err := reopened.AccessToken()
	require.NoError(t, err)
	assert.Equal(t, "persisted", access)
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	empty, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.False(t, empty.IsAuthenticated, "empty store should load a zero snapshot")

	snap := Snapshot{IsAuthenticated: true}
	require.NoError(t, store.SaveSnapshot(snap))

	loaded, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.True(t, loaded.IsAuthenticated)
}

func TestStore_ClearRemovesEverything(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.SetTokens("access", "id"))
	require.NoError(t, store.SaveSnapshot(Snapshot{IsAuthenticated: true}))

	require.NoError(t, store.Clear())

	access, err := store.AccessToken()
	require.NoError(t, err)
	assert.Empty(t, access)

	id, err := store.IDToken()
	require.NoError(t, err)
	assert.Empty(t, id)

	snap, err := store.LoadSnapshot()
	require.NoError(t, err)
	assert.False(t, snap.IsAuthenticated)
}
