package eventstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndBySession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "session-1", TypeSessionStarted, []byte(`{"mode":"dev"}`), nil))
	require.NoError(t, store.Append(ctx, "session-1", TypeMapResolved, []byte(`{"outcome":"found"}`), map[string]string{"path": "src/importMap.json"}))
	require.NoError(t, store.Append(ctx, "session-2", TypeSessionStarted, nil, nil))

	events, err := store.BySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, TypeSessionStarted, events[0].Type)
	assert.Equal(t, TypeMapResolved, events[1].Type)
	assert.Equal(t, "src/importMap.json", events[1].Metadata["path"])
}

func TestRecentNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "session-1", TypeTransformApplied, nil, nil))
	}
	require.NoError(t, store.Append(ctx, "session-1", TypeMapChanged, nil, nil))

	events, err := store.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, TypeMapChanged, events[0].Type)
}

func TestRecentDefaultLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "session-1", TypeSessionStarted, nil, nil))

	events, err := store.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestAppendPayload(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := TransformAppliedPayload{Document: "index.html", TagCount: 3, DurationMS: 12}
	require.NoError(t, AppendPayload(ctx, store, "session-1", TypeTransformApplied, payload))

	events, err := store.BySession(ctx, "session-1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	var got TransformAppliedPayload
	require.NoError(t, json.Unmarshal(events[0].Payload, &got))
	assert.Equal(t, payload, got)
}

func TestFileBackedStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Append(ctx, "session-1", TypeSessionStarted, nil, nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	events, err := reopened.BySession(ctx, "session-1")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
