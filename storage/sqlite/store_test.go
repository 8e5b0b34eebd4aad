package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sqlite")

	store, err := New(path)
	require.NoError(t, err)

	err = store.Close()
	assert.NoError(t, err)

	_, err = New("/invalidLocation/nested/db.sqlite")
	assert.ErrorContains(
		t,
		err,
		"no such file or directory",
		"should return an error indicating the location is invalid",
	)
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.sqlite")

	store, err := New(path)
	require.NoError(t, err)

	key := types.HashData([]byte("key"))
	value := types.HashData([]byte("value"))

	delta := storage.NewDelta()
	delta.Values[key] = value
	require.NoError(t, store.CommitBlock(ctx, types.Block{Number: 4}, nil, delta))
	require.NoError(t, store.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	latest, err := reopened.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), latest.Number)

	actual, err := reopened.Value(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, actual)
}
