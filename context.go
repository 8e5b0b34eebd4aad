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
	"fmt"

	"github.com/rs/zerolog"

	"github.com/godwoken/gw-emulator/state"
	"github.com/godwoken/gw-emulator/types"
)

// ContextState is the lifecycle phase of an ExecutionContext.
type ContextState int

const (
	ContextCreated ContextState = iota
	ContextExecuting
	ContextCompleted
	ContextFaulted
)

func (s ContextState) String() string {
	switch s {
	case ContextCreated:
		return "Created"
	case ContextExecuting:
		return "Executing"
	case ContextCompleted:
		return "Completed"
	case ContextFaulted:
		return "Faulted"
	default:
		return fmt.Sprintf("ContextState(%d)", int(s))
	}
}

// Terminal returns true once no further syscalls are accepted.
func (s ContextState) Terminal() bool {
	return s == ContextCompleted || s == ContextFaulted
}

type contextConfig struct {
	historyWindow uint64
	logger        zerolog.Logger
}

// ContextOption configures an ExecutionContext.
type ContextOption func(*contextConfig)

// WithHistoryWindow limits GetBlockHash to the most recent window blocks.
// Zero keeps the whole history visible.
func WithHistoryWindow(window uint64) ContextOption {
	return func(c *contextConfig) {
		c.historyWindow = window
	}
}

// WithContextLogger sets the logger failed syscalls are reported to.
func WithContextLogger(logger zerolog.Logger) ContextOption {
	return func(c *contextConfig) {
		c.logger = logger
	}
}

// ExecutionContext is the live Syscalls implementation for one transaction.
//
// All state mutations go to the view the context was created with; the
// caller decides whether that view is applied or dropped once the context is
// terminal. An ExecutionContext is driven by a single caller and is not safe
// for concurrent use.
type ExecutionContext struct {
	txCtx     types.TransactionContext
	blockInfo types.BlockInfo

	view     *state.View
	accounts *state.Accounts
	kv       *state.KV
	data     *state.DataStore
	history  *state.History

	receipt *types.CallReceipt
	logs    *LogSink

	state    ContextState
	exitCode int32
	err      error

	logger zerolog.Logger
}

var _ Syscalls = &ExecutionContext{}

// NewExecutionContext creates the context for a call from one account to
// another. Both accounts and a non-zero block aggregator must exist in view.
func NewExecutionContext(
	from, to types.AccountID,
	args []byte,
	blockInfo types.BlockInfo,
	view *state.View,
	opts ...ContextOption,
) (*ExecutionContext, error) {
	conf := contextConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&conf)
	}

	txCtx, err := types.NewTransactionContext(from, to, args)
	if err != nil {
		return nil, err
	}

	accounts := state.NewAccounts(view)

	ids := []types.AccountID{from, to}
	if blockInfo.AggregatorID != types.NoAccount {
		ids = append(ids, blockInfo.AggregatorID)
	}
	for _, id := range ids {
		exists, err := accounts.Exists(id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %d", types.ErrInvalidAccount, id)
		}
	}

	return &ExecutionContext{
		txCtx:     txCtx,
		blockInfo: blockInfo,
		view:      view,
		accounts:  accounts,
		kv:        state.NewKV(view),
		data:      state.NewDataStore(view),
		history:   state.NewHistory(view, blockInfo.Number, conf.historyWindow),
		receipt:   types.NewCallReceipt(),
		logs:      NewLogSink(),
		state:     ContextCreated,
		logger:    conf.logger,
	}, nil
}

func (c *ExecutionContext) State() ContextState {
	return c.state
}

// ExitCode is the code the context completed with.
func (c *ExecutionContext) ExitCode() int32 {
	return c.exitCode
}

// Err is the fault that terminated the context, if any.
func (c *ExecutionContext) Err() error {
	return c.err
}

func (c *ExecutionContext) View() *state.View {
	return c.view
}

func (c *ExecutionContext) Receipt() *types.CallReceipt {
	return c.receipt
}

func (c *ExecutionContext) Logs() []types.LogRecord {
	return c.logs.Records()
}

// Complete terminates the context with the program's exit code.
func (c *ExecutionContext) Complete(exitCode int32) error {
	if c.state.Terminal() {
		return types.ErrContextClosed
	}
	c.state = ContextCompleted
	c.exitCode = exitCode
	return nil
}

// Fault terminates the context with an engine failure.
func (c *ExecutionContext) Fault(err error) error {
	if c.state.Terminal() {
		return types.ErrContextClosed
	}
	c.fault(err)
	return nil
}

func (c *ExecutionContext) fault(err error) {
	c.state = ContextFaulted
	c.err = err
	c.exitCode = int32(types.StatusOf(err))
}

func (c *ExecutionContext) enter() error {
	if c.state.Terminal() {
		return fmt.Errorf("%w: context is %s", types.ErrContextClosed, c.state)
	}
	c.state = ContextExecuting
	return nil
}

func (c *ExecutionContext) exit(name string, err error) error {
	status := types.StatusOf(err)
	syscallsTotal.WithLabelValues(name, status.String()).Inc()

	if err == nil {
		return nil
	}

	c.logger.Debug().
		Str("syscall", name).
		Str("status", status.String()).
		Err(err).
		Msg("syscall failed")

	// a syscall on a closed context leaves the terminal state untouched
	if status.IsEngineFault() && !c.state.Terminal() {
		c.fault(err)
	}
	return err
}

func (c *ExecutionContext) TransactionContext() types.TransactionContext {
	return c.txCtx
}

func (c *ExecutionContext) BlockInfo() types.BlockInfo {
	return c.blockInfo
}

func (c *ExecutionContext) CreateAccount(script []byte) (types.AccountID, error) {
	if err := c.enter(); err != nil {
		return types.NoAccount, c.exit("create_account", err)
	}
	id, err := c.accounts.Create(script)
	return id, c.exit("create_account", err)
}

func (c *ExecutionContext) Load(id types.AccountID, key types.Hash) (types.Hash, error) {
	if err := c.enter(); err != nil {
		return types.Hash{}, c.exit("load", err)
	}
	value, err := c.kv.Load(id, key)
	return value, c.exit("load", err)
}

func (c *ExecutionContext) Store(id types.AccountID, key, value types.Hash) error {
	if err := c.enter(); err != nil {
		return c.exit("store", err)
	}
	return c.exit("store", c.kv.Store(id, key, value))
}

func (c *ExecutionContext) LoadNonce(id types.AccountID) (types.Hash, error) {
	if err := c.enter(); err != nil {
		return types.Hash{}, c.exit("load_nonce", err)
	}
	value, err := c.accounts.NonceValue(id)
	return value, c.exit("load_nonce", err)
}

func (c *ExecutionContext) SetReturnData(data []byte) error {
	if err := c.enter(); err != nil {
		return c.exit("set_return_data", err)
	}
	return c.exit("set_return_data", c.receipt.SetReturnData(data))
}

func (c *ExecutionContext) GetAccountIDByScriptHash(hash types.Hash) (types.AccountID, error) {
	if err := c.enter(); err != nil {
		return types.NoAccount, c.exit("get_account_id_by_script_hash", err)
	}
	id, err := c.accounts.IDByScriptHash(hash)
	return id, c.exit("get_account_id_by_script_hash", err)
}

func (c *ExecutionContext) GetScriptHashByAccountID(id types.AccountID) (types.Hash, error) {
	if err := c.enter(); err != nil {
		return types.Hash{}, c.exit("get_script_hash_by_account_id", err)
	}
	hash, err := c.accounts.ScriptHashByID(id)
	return hash, c.exit("get_script_hash_by_account_id", err)
}

func (c *ExecutionContext) GetAccountNonce(id types.AccountID) (uint32, error) {
	if err := c.enter(); err != nil {
		return 0, c.exit("get_account_nonce", err)
	}
	nonce, err := c.accounts.Nonce(id)
	return nonce, c.exit("get_account_nonce", err)
}

func (c *ExecutionContext) GetAccountScript(id types.AccountID, offset, maxLen uint32) ([]byte, error) {
	if err := c.enter(); err != nil {
		return nil, c.exit("get_account_script", err)
	}
	script, err := c.accounts.Script(id, offset, maxLen)
	return script, c.exit("get_account_script", err)
}

func (c *ExecutionContext) LoadData(hash types.Hash, offset, maxLen uint32) ([]byte, error) {
	if err := c.enter(); err != nil {
		return nil, c.exit("load_data", err)
	}
	data, err := c.data.LoadData(hash, offset, maxLen)
	return data, c.exit("load_data", err)
}

func (c *ExecutionContext) StoreData(data []byte) (types.Hash, error) {
	if err := c.enter(); err != nil {
		return types.Hash{}, c.exit("store_data", err)
	}
	hash, err := c.data.StoreData(data)
	return hash, c.exit("store_data", err)
}

func (c *ExecutionContext) GetBlockHash(number uint64) (types.Hash, error) {
	if err := c.enter(); err != nil {
		return types.Hash{}, c.exit("get_block_hash", err)
	}
	hash, err := c.history.BlockHash(number)
	return hash, c.exit("get_block_hash", err)
}

func (c *ExecutionContext) Log(id types.AccountID, serviceFlag uint8, data []byte) error {
	if err := c.enter(); err != nil {
		return c.exit("log", err)
	}
	return c.exit("log", c.log(id, serviceFlag, data))
}

func (c *ExecutionContext) log(id types.AccountID, serviceFlag uint8, data []byte) error {
	exists, err := c.accounts.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %d", types.ErrInvalidAccount, id)
	}
	if len(data) > types.MaxMessageSize {
		return fmt.Errorf("%w: log of %d bytes exceeds %d", types.ErrBufferOverflow, len(data), types.MaxMessageSize)
	}

	c.logs.Append(types.LogRecord{
		AccountID:   id,
		ServiceFlag: serviceFlag,
		Data:        data,
	})
	return nil
}
