package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/storage/badger"
	"github.com/godwoken/gw-emulator/storage/memstore"
	"github.com/godwoken/gw-emulator/storage/sqlite"
	"github.com/godwoken/gw-emulator/types"
)

type storeFactory func(t *testing.T) storage.Store

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memstore": func(t *testing.T) storage.Store {
			return memstore.New()
		},
		"badger": func(t *testing.T) storage.Store {
			store, err := badger.New(badger.WithInMemory())
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
		"sqlite": func(t *testing.T) storage.Store {
			store, err := sqlite.New(filepath.Join(t.TempDir(), "store.sqlite"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}
}

func TestStores(t *testing.T) {

	t.Parallel()

	for name, factory := range stores() {
		factory := factory

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("Blocks", func(t *testing.T) {
				testBlocks(t, factory(t))
			})
			t.Run("TransactionResults", func(t *testing.T) {
				testTransactionResults(t, factory(t))
			})
			t.Run("State", func(t *testing.T) {
				testState(t, factory(t))
			})
		})
	}
}

func testBlocks(t *testing.T, store storage.Store) {
	ctx := context.Background()

	_, err := store.LatestBlock(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = store.BlockByNumber(ctx, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	genesis := types.Block{Number: 0, Timestamp: 10}
	block1 := types.Block{
		Number:            1,
		Timestamp:         20,
		AggregatorID:      3,
		ParentHash:        genesis.Hash(),
		TransactionHashes: []types.Hash{types.HashData([]byte("tx"))},
	}

	require.NoError(t, store.CommitBlock(ctx, genesis, nil, nil))
	require.NoError(t, store.CommitBlock(ctx, block1, nil, storage.NewDelta()))

	latest, err := store.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, block1.Hash(), latest.Hash())
	assert.Equal(t, block1.TransactionHashes, latest.TransactionHashes)

	stored, err := store.BlockByNumber(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, genesis.Hash(), stored.Hash())
}

func testTransactionResults(t *testing.T, store storage.Store) {
	ctx := context.Background()

	result := types.StorableTransactionResult{
		TransactionHash: types.HashData([]byte("tx")),
		BlockNumber:     1,
		Index:           0,
		ExitCode:        2,
		ErrorMessage:    "insufficient balance",
		ReturnData:      []byte{0x01},
		Logs: []types.LogRecord{
			{AccountID: 1, ServiceFlag: types.LogGeneric, Data: []byte("a")},
			{AccountID: 2, ServiceFlag: types.LogGeneric, Data: []byte("b")},
		},
	}

	_, err := store.TransactionResultByHash(ctx, result.TransactionHash)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.CommitBlock(ctx, types.Block{Number: 1}, []types.StorableTransactionResult{result}, nil))

	actual, err := store.TransactionResultByHash(ctx, result.TransactionHash)
	require.NoError(t, err)
	assert.Equal(t, result, actual)
}

func testState(t *testing.T, store storage.Store) {
	ctx := context.Background()

	count, err := store.AccountCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), count)

	key := types.HashData([]byte("key"))
	value := types.HashData([]byte("value"))
	blob := []byte("some script bytes")
	blobHash := types.HashData(blob)
	scriptHash := types.HashData([]byte("script"))

	_, err = store.Value(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	delta := storage.NewDelta()
	delta.Values[key] = value
	delta.Accounts = append(delta.Accounts, storage.AccountEntry{ID: 1, ScriptHash: scriptHash})
	delta.Data[blobHash] = blob

	require.NoError(t, store.CommitBlock(ctx, types.Block{Number: 1}, nil, delta))

	actualValue, err := store.Value(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, actualValue)

	count, err = store.AccountCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)

	id, err := store.AccountIDByScriptHash(ctx, scriptHash)
	require.NoError(t, err)
	assert.Equal(t, types.AccountID(1), id)

	hash, err := store.ScriptHashByAccountID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, scriptHash, hash)

	_, err = store.ScriptHashByAccountID(ctx, 2)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	data, err := store.Data(ctx, blobHash)
	require.NoError(t, err)
	assert.Equal(t, blob, data)

	// served from cache the second time
	data, err = store.Data(ctx, blobHash)
	require.NoError(t, err)
	assert.Equal(t, blob, data)

	_, err = store.Data(ctx, types.HashData([]byte("unknown")))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// a later block without new accounts keeps the count
	require.NoError(t, store.CommitBlock(ctx, types.Block{Number: 2}, nil, storage.NewDelta()))
	count, err = store.AccountCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
}
