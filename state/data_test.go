package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/state"
	"github.com/godwoken/gw-emulator/types"
)

func TestDataStore(t *testing.T) {

	t.Parallel()

	t.Run("store and load", func(t *testing.T) {
		t.Parallel()

		data := state.NewDataStore(emptyView())
		blob := []byte("hello, rollup")

		hash, err := data.StoreData(blob)
		require.NoError(t, err)
		assert.Equal(t, types.HashData(blob), hash)

		again, err := data.StoreData(blob)
		require.NoError(t, err)
		assert.Equal(t, hash, again)

		got, err := data.LoadData(hash, 0, uint32(len(blob)))
		require.NoError(t, err)
		assert.Equal(t, blob, got)

		got, err = data.LoadData(hash, 7, 100)
		require.NoError(t, err)
		assert.Equal(t, []byte("rollup"), got)
	})

	t.Run("stored bytes are copied", func(t *testing.T) {
		t.Parallel()

		data := state.NewDataStore(emptyView())
		blob := []byte{1, 2, 3}

		hash, err := data.StoreData(blob)
		require.NoError(t, err)
		blob[0] = 9

		got, err := data.LoadData(hash, 0, 3)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, got)
	})

	t.Run("unknown hash", func(t *testing.T) {
		t.Parallel()

		data := state.NewDataStore(emptyView())
		_, err := data.LoadData(types.HashData([]byte("missing")), 0, 10)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("oversized blob", func(t *testing.T) {
		t.Parallel()

		data := state.NewDataStore(emptyView())
		_, err := data.StoreData(make([]byte, types.MaxMessageSize+1))
		assert.ErrorIs(t, err, types.ErrBufferOverflow)
	})
}
