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

// Package emulator provides an emulated layer-2 rollup that can be used for
// development purposes.
//
// Transactions call native programs, registered by code hash, through the
// Syscalls interface. Each transaction runs in its own ExecutionContext over
// a child of the pending block's state, and committed blocks are persisted to
// a storage.Store.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"

	"github.com/godwoken/gw-emulator/state"
	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/storage/memstore"
	"github.com/godwoken/gw-emulator/types"
	"github.com/godwoken/gw-emulator/utils"
)

// Blockchain emulates the block-producing side of a layer-2 rollup.
type Blockchain struct {
	// committed chain state: blocks, transaction results, accounts, state leaves, data
	storage storage.Store

	// mutex protecting pending block
	mu sync.RWMutex

	// pending block containing block info, working state, pending transactions
	pendingBlock *pendingBlock

	conf config
}

// config is a set of configuration options for an emulated blockchain.
type config struct {
	Store            storage.Store
	Logger           zerolog.Logger
	BlockHashHistory uint64
	AggregatorID     types.AccountID
	Clock            Clock
	Programs         *Registry
	GenesisScripts   [][]byte
	AutoMine         bool
}

// defaultConfig is the default configuration for an emulated blockchain.
var defaultConfig = config{
	Logger: zerolog.Nop(),
}

// Option is a function applying a change to the emulator config.
type Option func(*config)

// WithStore sets the persistent storage provider.
func WithStore(store storage.Store) Option {
	return func(c *config) {
		c.Store = store
	}
}

// WithLogger sets the logger transaction results and block commits are
// reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.Logger = logger
	}
}

// WithBlockHashHistory limits the block hashes visible to programs to the
// most recent n blocks. Zero makes the whole history visible.
func WithBlockHashHistory(n uint64) Option {
	return func(c *config) {
		c.BlockHashHistory = n
	}
}

// WithAggregator sets the account recorded as the producer of new blocks.
func WithAggregator(id types.AccountID) Option {
	return func(c *config) {
		c.AggregatorID = id
	}
}

// WithClock sets the clock block timestamps are taken from.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.Clock = clock
	}
}

// WithPrograms sets the registry programs are resolved from.
func WithPrograms(registry *Registry) Option {
	return func(c *config) {
		c.Programs = registry
	}
}

// WithGenesisScripts creates one account per script in the genesis block, in
// order, when the store is empty.
func WithGenesisScripts(scripts ...[]byte) Option {
	return func(c *config) {
		c.GenesisScripts = append(c.GenesisScripts, scripts...)
	}
}

// WithAutoMine commits a block after every transaction sent with
// SendTransaction.
func WithAutoMine() Option {
	return func(c *config) {
		c.AutoMine = true
	}
}

// New instantiates a new emulated blockchain with the provided options.
func New(opts ...Option) (*Blockchain, error) {
	// apply options to the default config
	conf := defaultConfig
	for _, opt := range opts {
		opt(&conf)
	}

	// if no store is specified, use a memstore
	// NOTE: we don't initialize this in defaultConfig because otherwise the same
	// memstore is shared between Blockchain instances
	if conf.Store == nil {
		conf.Store = memstore.New()
	}
	if conf.Clock == nil {
		conf.Clock = NewSystemClock()
	}
	if conf.Programs == nil {
		conf.Programs = NewRegistry()
	}

	b := &Blockchain{
		storage: conf.Store,
		conf:    conf,
	}

	latestBlock, err := b.configureState()
	if err != nil {
		return nil, err
	}

	b.pendingBlock = b.newPendingBlock(latestBlock)

	return b, nil
}

func (b *Blockchain) configureState() (types.Block, error) {
	latestBlock, err := b.storage.LatestBlock(context.Background())
	if err == nil {
		// storage contains data, continue from the latest block
		return latestBlock, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		// internal storage error, fail fast
		return types.Block{}, &StorageError{err}
	}

	// storage is empty, bootstrap the genesis state
	genesisView := state.NewView(state.FromStore(context.Background(), b.storage))
	accounts := state.NewAccounts(genesisView)
	for i, script := range b.conf.GenesisScripts {
		_, err := accounts.Create(script)
		if err != nil {
			return types.Block{}, fmt.Errorf("failed to create genesis account %d: %w", i, err)
		}
	}

	genesis := types.Block{
		Number:            0,
		Timestamp:         blockTimestamp(b.conf.Clock.Now()),
		AggregatorID:      b.conf.AggregatorID,
		TransactionHashes: []types.Hash{},
	}

	err = b.storage.CommitBlock(context.Background(), genesis, nil, genesisView.Delta())
	if err != nil {
		return types.Block{}, &StorageError{err}
	}

	return genesis, nil
}

func (b *Blockchain) newPendingBlock(prev types.Block) *pendingBlock {
	view := state.NewView(state.FromStore(context.Background(), b.storage))
	return newPendingBlock(prev, view, b.conf.AggregatorID, blockTimestamp(b.conf.Clock.Now()))
}

// Programs returns the registry programs are resolved from.
func (b *Blockchain) Programs() *Registry {
	return b.conf.Programs
}

// EnableAutoMine commits a block after every transaction sent with SendTransaction.
func (b *Blockchain) EnableAutoMine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conf.AutoMine = true
}

func (b *Blockchain) DisableAutoMine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conf.AutoMine = false
}

// PendingBlockNumber returns the number of the pending block.
func (b *Blockchain) PendingBlockNumber() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pendingBlock.Number()
}

// Ping checks that the underlying store is reachable.
func (b *Blockchain) Ping() error {
	_, err := b.storage.LatestBlock(context.Background())
	if err != nil {
		return &StorageError{err}
	}
	return nil
}

// GetLatestBlock gets the latest committed block.
func (b *Blockchain) GetLatestBlock() (*types.Block, error) {
	block, err := b.storage.LatestBlock(context.Background())
	if err != nil {
		return nil, &StorageError{err}
	}
	return &block, nil
}

// GetBlockByNumber gets a committed block by number.
func (b *Blockchain) GetBlockByNumber(number uint64) (*types.Block, error) {
	block, err := b.storage.BlockByNumber(context.Background(), number)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &BlockNotFoundByNumberError{Number: number}
		}
		return nil, &StorageError{err}
	}
	return &block, nil
}

// GetTransactionResult returns the result of a transaction.
//
// The function first looks in the pending block, then the committed chain.
// Transactions that have not been executed, and faulted transactions, have
// no result.
func (b *Blockchain) GetTransactionResult(hash types.Hash) (*types.StorableTransactionResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if indexed, ok := b.pendingBlock.TransactionResult(hash); ok {
		result := indexed.TransactionResult.Storable(b.pendingBlock.Number(), indexed.Index)
		return &result, nil
	}

	result, err := b.storage.TransactionResultByHash(context.Background(), hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &TransactionNotFoundError{Hash: hash}
		}
		return nil, &StorageError{err}
	}
	return &result, nil
}

// GetAccount returns the committed state of an account.
func (b *Blockchain) GetAccount(id types.AccountID) (*types.Account, error) {
	view := state.NewView(state.FromStore(context.Background(), b.storage))

	account, err := state.NewAccounts(view).Account(id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) || errors.Is(err, types.ErrInvalidAccount) {
			return nil, &AccountNotFoundError{ID: id}
		}
		return nil, &StorageError{err}
	}
	return &account, nil
}

// CreateAccount registers an account in the pending block, outside of any
// transaction. This is how the block producer materializes deposits.
func (b *Blockchain) CreateAccount(script []byte) (types.AccountID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pendingBlock.ExecutionStarted() {
		return types.NoAccount, &PendingBlockMidExecutionError{Number: b.pendingBlock.Number()}
	}

	id, err := state.NewAccounts(b.pendingBlock.View()).Create(script)
	if err != nil {
		return types.NoAccount, err
	}

	b.conf.Logger.Debug().
		Uint32("accountID", uint32(id)).
		Str("scriptHash", types.HashData(script).String()).
		Msg("👤 Account created")

	return id, nil
}

// SetPubkeyHash records the hash of the key that signs for an account.
func (b *Blockchain) SetPubkeyHash(id types.AccountID, hash types.Hash) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pendingBlock.ExecutionStarted() {
		return &PendingBlockMidExecutionError{Number: b.pendingBlock.Number()}
	}

	return state.NewAccounts(b.pendingBlock.View()).SetPubkeyHash(id, hash)
}

// SendTransaction adds a transaction to the pending block and, with auto
// mining enabled, executes and commits it. An auto-mined transaction that
// faults is reported as a TransactionFaultedError.
func (b *Blockchain) SendTransaction(tx types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.addTransaction(tx)
	if err != nil {
		return err
	}

	if !b.conf.AutoMine {
		return nil
	}

	_, results, err := b.executeAndCommitBlock()
	if err != nil {
		return err
	}

	hash := tx.Hash()
	for _, result := range results {
		if result.TransactionHash == hash && result.Faulted {
			return &TransactionFaultedError{Hash: hash, Err: result.Error}
		}
	}

	return nil
}

// AddTransaction validates a transaction and adds it to the current pending block.
func (b *Blockchain) AddTransaction(tx types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.addTransaction(tx)
}

func (b *Blockchain) addTransaction(tx types.Transaction) error {
	hash := tx.Hash()

	// If index > 0, pending block has begun execution (cannot add more transactions)
	if b.pendingBlock.ExecutionStarted() {
		return &PendingBlockMidExecutionError{Number: b.pendingBlock.Number()}
	}

	if b.pendingBlock.ContainsTransaction(hash) {
		return &DuplicateTransactionError{Hash: hash}
	}

	_, err := b.storage.TransactionResultByHash(context.Background(), hash)
	if err == nil {
		// Found the transaction, this is a duplicate
		return &DuplicateTransactionError{Hash: hash}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return &StorageError{err}
	}

	if len(tx.Args) > types.MaxArgsSize {
		return &InvalidTransactionError{Hash: hash, Err: types.ErrArgsTooLarge}
	}

	accounts := state.NewAccounts(b.pendingBlock.View())
	for _, id := range []types.AccountID{tx.FromID, tx.ToID} {
		exists, err := accounts.Exists(id)
		if err != nil {
			return &StorageError{err}
		}
		if !exists {
			return &InvalidTransactionError{
				Hash: hash,
				Err:  fmt.Errorf("%w: %d", types.ErrInvalidAccount, id),
			}
		}
	}

	b.pendingBlock.AddTransaction(tx)

	return nil
}

// ExecuteBlock executes the remaining transactions in pending block.
func (b *Blockchain) ExecuteBlock() ([]*types.TransactionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.executeBlock()
}

func (b *Blockchain) executeBlock() ([]*types.TransactionResult, error) {
	results := make([]*types.TransactionResult, 0)

	// empty blocks do not require execution, treat as a no-op
	if b.pendingBlock.Empty() {
		return results, nil
	}

	// cannot execute a block that has already executed
	if b.pendingBlock.ExecutionComplete() {
		return results, &PendingBlockTransactionsExhaustedError{
			Number: b.pendingBlock.Number(),
		}
	}

	// continue executing transactions until execution is complete
	for !b.pendingBlock.ExecutionComplete() {
		result, err := b.executeNextTransaction()
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	return results, nil
}

// ExecuteNextTransaction executes the next indexed transaction in pending block.
func (b *Blockchain) ExecuteNextTransaction() (*types.TransactionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.executeNextTransaction()
}

func (b *Blockchain) executeNextTransaction() (*types.TransactionResult, error) {
	// check if there are remaining txs to be executed
	if b.pendingBlock.ExecutionComplete() {
		return nil, &PendingBlockTransactionsExhaustedError{
			Number: b.pendingBlock.Number(),
		}
	}

	info := b.pendingBlock.Info()

	result, err := b.pendingBlock.ExecuteNextTransaction(
		func(view *state.View, tx *types.Transaction) *types.TransactionResult {
			return b.executeTransaction(view, tx, info)
		},
	)
	if err != nil {
		// fail fast if fatal error occurs
		return nil, &StorageError{err}
	}

	observeTransaction(result)
	utils.PrintTransactionResult(&b.conf.Logger, result)

	return result, nil
}

// executeTransaction runs tx against view. Every failure is reported in the
// result: a rejected or aborted transaction is a faulted result.
func (b *Blockchain) executeTransaction(
	view *state.View,
	tx *types.Transaction,
	info types.BlockInfo,
) *types.TransactionResult {
	hash := tx.Hash()

	faulted := func(err error) *types.TransactionResult {
		return &types.TransactionResult{
			TransactionHash: hash,
			ExitCode:        int32(types.StatusOf(err)),
			Error:           err,
			Faulted:         true,
		}
	}

	accounts := state.NewAccounts(view)

	nonce, err := accounts.Nonce(tx.FromID)
	if err != nil {
		return faulted(&InvalidTransactionError{Hash: hash, Err: err})
	}
	if nonce != tx.Nonce {
		return faulted(&InvalidNonceError{Hash: hash, Expected: nonce, Actual: tx.Nonce})
	}
	if nonce == math.MaxUint32 {
		// the nonce could not be advanced past this transaction
		return faulted(&InvalidTransactionError{Hash: hash, Err: state.ErrNonceExhausted})
	}

	codeHash, err := accounts.CodeHash(tx.ToID)
	if err != nil {
		return faulted(&InvalidTransactionError{Hash: hash, Err: err})
	}

	program, ok := b.conf.Programs.Lookup(codeHash)
	if !ok {
		return faulted(&ProgramNotFoundError{AccountID: tx.ToID, CodeHash: codeHash})
	}

	ctx, err := NewExecutionContext(
		tx.FromID,
		tx.ToID,
		tx.Args,
		info,
		view,
		WithHistoryWindow(b.conf.BlockHashHistory),
		WithContextLogger(b.conf.Logger.With().Str("tx", hash.String()).Logger()),
	)
	if err != nil {
		return faulted(&InvalidTransactionError{Hash: hash, Err: err})
	}

	exitCode := runProgram(program, ctx)

	if ctx.State() != ContextFaulted {
		status := types.Status(exitCode)
		if status.IsEngineFault() {
			_ = ctx.Fault(types.NewError(status, fmt.Sprintf("program aborted with %s", status)))
		} else {
			_ = ctx.Complete(exitCode)
		}
	}

	if ctx.State() == ContextFaulted {
		return faulted(ctx.Err())
	}

	result := &types.TransactionResult{
		TransactionHash: hash,
		ExitCode:        ctx.ExitCode(),
		ReturnData:      ctx.Receipt().ReturnData(),
		Logs:            []types.LogRecord{},
	}
	if result.ExitCode == 0 {
		result.Logs = ctx.Logs()
	} else {
		result.Error = &ExitError{Code: result.ExitCode}
	}

	return result
}

// runProgram runs program against ctx, turning a panic into a fault.
func runProgram(program Program, ctx *ExecutionContext) (exitCode int32) {
	defer func() {
		if r := recover(); r != nil {
			_ = ctx.Fault(fmt.Errorf("program panicked: %v\n%s", r, debug.Stack()))
			exitCode = int32(types.StatusInternal)
		}
	}()

	return program.Run(ctx)
}

// CommitBlock seals the current pending block and saves it to storage.
//
// This function clears the pending transaction pool and resets the pending block.
func (b *Blockchain) CommitBlock() (*types.Block, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.commitBlock()
}

func (b *Blockchain) commitBlock() (*types.Block, error) {
	// pending block cannot be committed before execution starts (unless empty)
	if !b.pendingBlock.ExecutionStarted() && !b.pendingBlock.Empty() {
		return nil, &PendingBlockCommitBeforeExecutionError{Number: b.pendingBlock.Number()}
	}

	// pending block cannot be committed before execution completes
	if b.pendingBlock.ExecutionStarted() && !b.pendingBlock.ExecutionComplete() {
		return nil, &PendingBlockMidExecutionError{Number: b.pendingBlock.Number()}
	}

	block := b.pendingBlock.Block()
	results := b.pendingBlock.StorableResults()
	delta := b.pendingBlock.View().Delta()

	// commit the pending block to storage
	err := b.storage.CommitBlock(context.Background(), block, results, delta)
	if err != nil {
		return nil, &StorageError{err}
	}

	blocksCommitted.Inc()

	b.conf.Logger.Debug().
		Uint64("blockNumber", block.Number).
		Str("blockHash", block.Hash().String()).
		Int("transactions", len(block.TransactionHashes)).
		Msg("📦 Block committed")

	// reset pending block using current block and committed state
	b.pendingBlock = b.newPendingBlock(block)

	return &block, nil
}

// ExecuteAndCommitBlock is a utility that combines ExecuteBlock with CommitBlock.
func (b *Blockchain) ExecuteAndCommitBlock() (*types.Block, []*types.TransactionResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.executeAndCommitBlock()
}

func (b *Blockchain) executeAndCommitBlock() (*types.Block, []*types.TransactionResult, error) {
	results, err := b.executeBlock()
	if err != nil {
		return nil, nil, err
	}

	block, err := b.commitBlock()
	if err != nil {
		return nil, results, err
	}

	return block, results, nil
}

// ResetPendingBlock clears the transactions and state changes in pending block.
func (b *Blockchain) ResetPendingBlock() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	latestBlock, err := b.storage.LatestBlock(context.Background())
	if err != nil {
		return &StorageError{err}
	}

	// reset pending block using latest committed block and state
	b.pendingBlock = b.newPendingBlock(latestBlock)

	return nil
}
