/*
 * GW Emulator
 *
 * Copyright 2019-2022 Dapper Labs, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package badger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/storage/badger"
	"github.com/godwoken/gw-emulator/types"
)

func TestPersistence(t *testing.T) {

	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	store, err := badger.New(badger.WithPath(dir))
	require.NoError(t, err)

	scriptHash := types.HashData([]byte("script"))
	key := types.HashData([]byte("key"))
	value := types.HashData([]byte("value"))

	delta := storage.NewDelta()
	delta.Values[key] = value
	delta.Accounts = append(delta.Accounts, storage.AccountEntry{ID: 1, ScriptHash: scriptHash})

	block := types.Block{Number: 7, Timestamp: 1000}
	require.NoError(t, store.CommitBlock(ctx, block, nil, delta))
	require.NoError(t, store.Sync())
	require.NoError(t, store.Close())

	reopened, err := badger.New(badger.WithPath(dir))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	latest, err := reopened.LatestBlock(ctx)
	require.NoError(t, err)
	assert.Equal(t, block.Hash(), latest.Hash())

	actual, err := reopened.Value(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, actual)

	id, err := reopened.AccountIDByScriptHash(ctx, scriptHash)
	require.NoError(t, err)
	assert.Equal(t, types.AccountID(1), id)
}

func TestValueLogGC(t *testing.T) {

	t.Parallel()

	store, err := badger.New(badger.WithInMemory())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	assert.NoError(t, store.RunValueLogGC(0.5))
	assert.NoError(t, store.Sync())
}
