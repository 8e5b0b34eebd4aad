package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

func TestMemstore(t *testing.T) {
	ctx := context.Background()
	key := types.HashData([]byte("foo"))
	value := types.HashData([]byte("bar"))

	store := New()

	delta := storage.NewDelta()
	delta.Values[key] = value

	err := store.CommitBlock(ctx, types.Block{Number: 0}, nil, delta)
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			actualValue, err := store.Value(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, value, actualValue)
		}()
	}

	wg.Wait()
}

func TestMemstoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.SetBytes(ctx, "test", []byte("k"), []byte{1, 2, 3}))

	got, err := store.GetBytes(ctx, "test", []byte("k"))
	require.NoError(t, err)
	got[0] = 9

	again, err := store.GetBytes(ctx, "test", []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)

	_, err = store.GetBytes(ctx, "test", []byte("missing"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
