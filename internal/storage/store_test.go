package storage

import (
	"testing"

	"github.com/shhac/schemadesk/internal/domain"
	apperrors "github.com/shhac/schemadesk/internal/errors"
	"github.com/shhac/schemadesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewStore(backend, logging.NewNopLogger()), backend
}

func TestStore_GetMissingKeyIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	list, err := store.Get("nope")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	workspaces, err := store.Workspaces()
	require.NoError(t, err)
	assert.Empty(t, workspaces)
}

func TestStore_AppendDeduplicatesByID(t *testing.T) {
	kinds := []domain.Kind{domain.KindWorkspace, domain.KindAPI, domain.KindAPIVersion}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			store, _ := newTestStore(t)

			require.NoError(t, store.Append("key", domain.Record{ID: "a", Name: "first"}, kind))
			require.NoError(t, store.Append("key", domain.Record{ID: "b", Name: "second"}, kind))
			require.NoError(t, store.Append("key", domain.Record{ID: "a", Name: "renamed"}, kind))

			list, err := store.Get("key")
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "a", list[0].ID)
			assert.Equal(t, "first", list[0].Name, "first inserted entry wins")
			assert.Equal(t, "b", list[1].ID)
			for _, r := range list {
				assert.Equal(t, kind, r.Kind)
			}
		})
	}
}

func TestStore_SetListRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	in := []domain.Record{
		{ID: "v3", Name: "3.0"},
		{ID: "v1", Name: "1.0"},
		{ID: "v2", Name: "2.0", Kind: domain.KindWorkspace},
	}
	require.NoError(t, store.SetList("api-1", in, domain.KindAPIVersion))

	out, err := store.Get("api-1")
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.Equal(t, domain.KindAPIVersion, out[i].Kind)
	}

	// the caller's slice is not stamped in place
	assert.Equal(t, domain.KindWorkspace, in[2].Kind)
	assert.Empty(t, in[0].Kind)
}

func TestStore_SetListOverwrites(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SetList("api-1", []domain.Record{{ID: "old"}}, domain.KindAPIVersion))
	require.NoError(t, store.SetList("api-1", []domain.Record{{ID: "new"}}, domain.KindAPIVersion))

	out, err := store.Get("api-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "new", out[0].ID)
}

func TestStore_WorkspaceTypeSurvivesKindStamp(t *testing.T) {
	store, _ := newTestStore(t)

	ws := domain.WorkspaceRecord(domain.Workspace{ID: "ws-1", Name: "Team", Type: "team"})
	require.NoError(t, store.Append(RootKey, ws, domain.KindWorkspace))

	list, err := store.Workspaces()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "team", list[0].Type)
	assert.Equal(t, domain.KindWorkspace, list[0].Kind)
}

func TestStore_Clear(t *testing.T) {
	store, backend := newTestStore(t)

	require.NoError(t, store.Append("ws-1", domain.Record{ID: "api-1"}, domain.KindAPI))
	require.NoError(t, store.Clear("ws-1"))
	assert.Equal(t, 0, backend.Len())

	list, err := store.Get("ws-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStore_CorruptValue(t *testing.T) {
	store, backend := newTestStore(t)
	require.NoError(t, backend.Set("ws-1", "{oops"))

	_, err := store.Get("ws-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrCorruptState)

	err = store.Append("ws-1", domain.Record{ID: "x"}, domain.KindAPI)
	assert.ErrorIs(t, err, apperrors.ErrCorruptState)
}

func TestStore_Metadata(t *testing.T) {
	store, backend := newTestStore(t)

	_, err := store.Metadata("ver-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	first := domain.VersionMeta{FilePath: "Postman APIs/Pets/v1.json", APIID: "api-1", SchemaID: "s-1", SchemaLanguage: "json"}
	require.NoError(t, store.PutMetadata("ver-1", first))

	second := domain.VersionMeta{FilePath: "Postman APIs/Pets/v1.yaml", APIID: "api-1", SchemaID: "s-2"}
	require.NoError(t, store.PutMetadata("ver-1", second))

	got, err := store.Metadata("ver-1")
	require.NoError(t, err)
	assert.Equal(t, second, got, "metadata is overwritten, not merged")

	// metadata keys do not collide with list keys
	list, err := store.Get("ver-1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, backend.Set(metaKey("ver-2"), "nope"))
	_, err = store.Metadata("ver-2")
	assert.ErrorIs(t, err, apperrors.ErrCorruptState)
}

func TestStore_ClearAll(t *testing.T) {
	store, backend := newTestStore(t)

	require.NoError(t, store.Append(RootKey, domain.Record{ID: "ws-1"}, domain.KindWorkspace))
	require.NoError(t, store.Append(RootKey, domain.Record{ID: "ws-2"}, domain.KindWorkspace))
	require.NoError(t, store.Append("ws-1", domain.Record{ID: "api-1"}, domain.KindAPI))
	require.NoError(t, store.SetList("api-1", []domain.Record{{ID: "v1"}, {ID: "v2"}}, domain.KindAPIVersion))
	require.NoError(t, store.PutMetadata("v1", domain.VersionMeta{FilePath: "a"}))
	require.NoError(t, store.PutMetadata("v2", domain.VersionMeta{FilePath: "b"}))

	// unrelated keys survive
	require.NoError(t, backend.Set("other", "x"))

	require.NoError(t, store.ClearAll())
	assert.Equal(t, 1, backend.Len())

	workspaces, err := store.Workspaces()
	require.NoError(t, err)
	assert.Empty(t, workspaces)
	_, err = store.Metadata("v1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStore_WithJSONBackend(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(NewJSONBackend(dir, logging.NewNopLogger()), logging.NewNopLogger())

	require.NoError(t, store.Append(RootKey, domain.Record{ID: "ws-1", Name: "Mine"}, domain.KindWorkspace))

	reopened := NewStore(NewJSONBackend(dir, logging.NewNopLogger()), logging.NewNopLogger())
	list, err := reopened.Workspaces()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Mine", list[0].Name)
}
