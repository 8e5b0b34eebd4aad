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

package emulator

import (
	"github.com/godwoken/gw-emulator/state"
	"github.com/godwoken/gw-emulator/types"
)

type IndexedTransactionResult struct {
	TransactionResult *types.TransactionResult
	Index             uint32
}

// A pendingBlock contains the pending state required to form a new block.
type pendingBlock struct {
	number       uint64
	timestamp    uint64
	aggregatorID types.AccountID
	parentHash   types.Hash
	// mapping from transaction hash to transaction
	transactions map[types.Hash]*types.Transaction
	// list of transaction hashes in submission order
	transactionHashes []types.Hash
	// hashes of executed transactions that made it into the block
	includedHashes []types.Hash
	// mapping from transaction hash to the result of an included transaction
	transactionResults map[types.Hash]IndexedTransactionResult
	// current working state, updated after each transaction execution
	view *state.View
	// index of transaction execution
	index int
}

// newPendingBlock creates a new pending block sequentially after a specified block.
func newPendingBlock(
	prevBlock types.Block,
	view *state.View,
	aggregatorID types.AccountID,
	timestamp uint64,
) *pendingBlock {
	return &pendingBlock{
		number:             prevBlock.Number + 1,
		timestamp:          timestamp,
		aggregatorID:       aggregatorID,
		parentHash:         prevBlock.Hash(),
		transactions:       make(map[types.Hash]*types.Transaction),
		transactionHashes:  make([]types.Hash, 0),
		includedHashes:     make([]types.Hash, 0),
		transactionResults: make(map[types.Hash]IndexedTransactionResult),
		view:               view,
		index:              0,
	}
}

// Number returns the number of the pending block.
func (b *pendingBlock) Number() uint64 {
	return b.number
}

// Info returns the block metadata exposed to transactions in this block.
func (b *pendingBlock) Info() types.BlockInfo {
	return types.BlockInfo{
		Number:       b.number,
		Timestamp:    b.timestamp,
		AggregatorID: b.aggregatorID,
	}
}

// Block returns the block information for the pending block.
func (b *pendingBlock) Block() types.Block {
	hashes := make([]types.Hash, len(b.includedHashes))
	copy(hashes, b.includedHashes)

	return types.Block{
		Number:            b.number,
		Timestamp:         b.timestamp,
		AggregatorID:      b.aggregatorID,
		ParentHash:        b.parentHash,
		TransactionHashes: hashes,
	}
}

// StorableResults returns the results of the included transactions in block order.
func (b *pendingBlock) StorableResults() []types.StorableTransactionResult {
	results := make([]types.StorableTransactionResult, 0, len(b.includedHashes))
	for _, hash := range b.includedHashes {
		indexed := b.transactionResults[hash]
		results = append(results, indexed.TransactionResult.Storable(b.number, indexed.Index))
	}
	return results
}

// TransactionResult returns the result of an included transaction.
func (b *pendingBlock) TransactionResult(hash types.Hash) (IndexedTransactionResult, bool) {
	result, ok := b.transactionResults[hash]
	return result, ok
}

// View returns the working state of the pending block.
func (b *pendingBlock) View() *state.View {
	return b.view
}

// AddTransaction adds a transaction to the pending block.
func (b *pendingBlock) AddTransaction(tx types.Transaction) {
	hash := tx.Hash()
	b.transactionHashes = append(b.transactionHashes, hash)
	b.transactions[hash] = &tx
}

// ContainsTransaction checks if a transaction is included in the pending block.
func (b *pendingBlock) ContainsTransaction(hash types.Hash) bool {
	_, exists := b.transactions[hash]
	return exists
}

// GetTransaction retrieves a transaction in the pending block by hash.
func (b *pendingBlock) GetTransaction(hash types.Hash) *types.Transaction {
	return b.transactions[hash]
}

// nextTransaction returns the next indexed transaction.
func (b *pendingBlock) nextTransaction() *types.Transaction {
	hash := b.transactionHashes[b.index]
	return b.GetTransaction(hash)
}

// ExecuteNextTransaction executes the next transaction in the pending block.
//
// The transaction runs against a child of the block state. Its mutations are
// kept only if it completes with exit code zero. Every completed transaction
// is included in the block and advances its sender's nonce; a faulted
// transaction leaves no trace in the block.
func (b *pendingBlock) ExecuteNextTransaction(
	execute func(view *state.View, tx *types.Transaction) *types.TransactionResult,
) (*types.TransactionResult, error) {
	tx := b.nextTransaction()

	childView := state.NewView(b.view)

	result := execute(childView, tx)

	// increment transaction index even if transaction faults
	b.index++

	if result.Faulted {
		return result, nil
	}

	if result.Succeeded() {
		if err := b.view.Apply(childView); err != nil {
			return nil, err
		}
	}

	if err := state.NewAccounts(b.view).IncrementNonce(tx.FromID); err != nil {
		return nil, err
	}

	hash := tx.Hash()
	b.transactionResults[hash] = IndexedTransactionResult{
		TransactionResult: result,
		Index:             uint32(len(b.includedHashes)),
	}
	b.includedHashes = append(b.includedHashes, hash)

	return result, nil
}

// ExecutionStarted returns true if the pending block has started executing.
func (b *pendingBlock) ExecutionStarted() bool {
	return b.index > 0
}

// ExecutionComplete returns true if the pending block is fully executed.
func (b *pendingBlock) ExecutionComplete() bool {
	return b.index >= b.Size()
}

// Size returns the number of transactions in the pending block.
func (b *pendingBlock) Size() int {
	return len(b.transactionHashes)
}

// Empty returns true if the pending block is empty.
func (b *pendingBlock) Empty() bool {
	return b.Size() == 0
}
