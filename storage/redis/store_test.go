package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

func TestNewRejectsInvalidURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)
}

func TestStoreAgainstServer(t *testing.T) {
	url := os.Getenv("GW_TEST_REDIS_URL")
	if url == "" {
		t.Skip("GW_TEST_REDIS_URL is not set")
	}

	ctx := context.Background()

	store, err := New(url)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()
	require.NoError(t, store.Ping(ctx))

	blob := []byte("redis blob")
	hash := types.HashData(blob)

	delta := storage.NewDelta()
	delta.Data[hash] = blob
	require.NoError(t, store.CommitBlock(ctx, types.Block{Number: 1}, nil, delta))

	actual, err := store.Data(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, blob, actual)
}
