package state_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/state"
	"github.com/godwoken/gw-emulator/storage/memstore"
	"github.com/godwoken/gw-emulator/types"
)

func TestHistory(t *testing.T) {

	t.Parallel()

	ctx := context.Background()
	store := memstore.New()

	var parent types.Hash
	hashes := make([]types.Hash, 0)
	for i := uint64(0); i < 10; i++ {
		block := types.Block{Number: i, Timestamp: 1000 + i, ParentHash: parent}
		require.NoError(t, store.CommitBlock(ctx, block, nil, nil))
		parent = block.Hash()
		hashes = append(hashes, parent)
	}

	reader := state.FromStore(ctx, store)

	t.Run("unbounded", func(t *testing.T) {
		t.Parallel()

		history := state.NewHistory(reader, 10, 0)

		for i := uint64(0); i < 10; i++ {
			hash, err := history.BlockHash(i)
			require.NoError(t, err)
			assert.Equal(t, hashes[i], hash)
		}

		_, err := history.BlockHash(10)
		assert.ErrorIs(t, err, types.ErrNotFound)

		_, err = history.BlockHash(11)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("window", func(t *testing.T) {
		t.Parallel()

		history := state.NewHistory(reader, 10, 3)

		for _, n := range []uint64{7, 8, 9} {
			hash, err := history.BlockHash(n)
			require.NoError(t, err)
			assert.Equal(t, hashes[n], hash)
		}

		_, err := history.BlockHash(6)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("window larger than the chain", func(t *testing.T) {
		t.Parallel()

		for _, window := range []uint64{10, math.MaxUint64 - 1, math.MaxUint64} {
			history := state.NewHistory(reader, 10, window)

			for i := uint64(0); i < 10; i++ {
				hash, err := history.BlockHash(i)
				require.NoError(t, err)
				assert.Equal(t, hashes[i], hash)
			}
		}
	})

	t.Run("pending block is not visible", func(t *testing.T) {
		t.Parallel()

		history := state.NewHistory(reader, 5, 0)
		_, err := history.BlockHash(5)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, types.StatusNotFound, types.StatusOf(err))
	})
}
