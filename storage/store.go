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

// Package storage defines the interface and implementations for interacting with
// persistent rollup state.
package storage

import (
	"context"
	"errors"

	"github.com/godwoken/gw-emulator/types"
)

// ErrNotFound is returned by Store implementations when a resource cannot be
// found.
var ErrNotFound = errors.New("storage: not found")

// Store defines the storage layer for persistent rollup state.
//
// This includes committed blocks and transaction results, the state leaves
// (account storage and account metadata), the account directory and the
// content-addressed data store. It does not include pending state, such as
// the mutations of a block that is still being produced.
//
// Implementations must distinguish between not found errors and errors with
// the underlying storage by returning ErrNotFound if a resource cannot be
// found.
//
// Implementations must be safe for use by multiple goroutines.
type Store interface {

	// LatestBlock returns the block with the highest number.
	LatestBlock(ctx context.Context) (types.Block, error)

	// BlockByNumber returns the block with the given number.
	BlockByNumber(ctx context.Context, number uint64) (types.Block, error)

	// TransactionResultByHash returns the result of a committed transaction.
	TransactionResultByHash(ctx context.Context, hash types.Hash) (types.StorableTransactionResult, error)

	// Value returns the state leaf stored under key.
	Value(ctx context.Context, key types.Hash) (types.Hash, error)

	// AccountCount returns the number of accounts, which is also the highest
	// assigned account id.
	AccountCount(ctx context.Context) (uint32, error)

	// AccountIDByScriptHash returns the id of the account with the given script hash.
	AccountIDByScriptHash(ctx context.Context, hash types.Hash) (types.AccountID, error)

	// ScriptHashByAccountID returns the script hash of the account with the given id.
	ScriptHashByAccountID(ctx context.Context, id types.AccountID) (types.Hash, error)

	// Data returns the blob with the given content hash.
	Data(ctx context.Context, hash types.Hash) ([]byte, error)

	// CommitBlock atomically saves a block, the results of its transactions
	// and the state mutations they produced.
	CommitBlock(
		ctx context.Context,
		block types.Block,
		results []types.StorableTransactionResult,
		delta *Delta,
	) error
}
