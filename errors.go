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

	"github.com/godwoken/gw-emulator/types"
)

// A NotFoundError indicates that an entity could not be found.
type NotFoundError interface {
	isNotFoundError()
}

// BlockNotFoundByNumberError indicates that a block could not be found at the specified number.
type BlockNotFoundByNumberError struct {
	Number uint64
}

func (e *BlockNotFoundByNumberError) isNotFoundError() {}

func (e *BlockNotFoundByNumberError) Error() string {
	return fmt.Sprintf("could not find block at number %d", e.Number)
}

// TransactionNotFoundError indicates that a transaction could not be found.
type TransactionNotFoundError struct {
	Hash types.Hash
}

func (e *TransactionNotFoundError) isNotFoundError() {}

func (e *TransactionNotFoundError) Error() string {
	return fmt.Sprintf("could not find transaction with hash %s", e.Hash)
}

// AccountNotFoundError indicates that an account could not be found.
type AccountNotFoundError struct {
	ID types.AccountID
}

func (e *AccountNotFoundError) isNotFoundError() {}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("could not find account with id %d", e.ID)
}

// ProgramNotFoundError indicates that no program is registered for an account's code hash.
type ProgramNotFoundError struct {
	AccountID types.AccountID
	CodeHash  types.Hash
}

func (e *ProgramNotFoundError) isNotFoundError() {}

func (e *ProgramNotFoundError) Error() string {
	return fmt.Sprintf("no program registered for code hash %s of account %d", e.CodeHash, e.AccountID)
}

// DuplicateTransactionError indicates that a transaction has already been submitted.
type DuplicateTransactionError struct {
	Hash types.Hash
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("transaction with hash %s has already been submitted", e.Hash)
}

// InvalidTransactionError indicates that a submitted transaction is invalid.
type InvalidTransactionError struct {
	Hash types.Hash
	Err  error
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("transaction %s is invalid: %s", e.Hash, e.Err.Error())
}

func (e *InvalidTransactionError) Unwrap() error {
	return e.Err
}

// InvalidNonceError indicates that a transaction's nonce does not match the sender's nonce.
type InvalidNonceError struct {
	Hash     types.Hash
	Expected uint32
	Actual   uint32
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf(
		"transaction %s has invalid nonce: expected %d, got %d",
		e.Hash,
		e.Expected,
		e.Actual,
	)
}

// TransactionFaultedError indicates that a transaction was aborted by the
// engine and left out of its block.
type TransactionFaultedError struct {
	Hash types.Hash
	Err  error
}

func (e *TransactionFaultedError) Error() string {
	return fmt.Sprintf("transaction %s faulted: %s", e.Hash, e.Err.Error())
}

func (e *TransactionFaultedError) Unwrap() error {
	return e.Err
}

// PendingBlockCommitBeforeExecutionError indicates that the current pending block has not been executed (cannot commit).
type PendingBlockCommitBeforeExecutionError struct {
	Number uint64
}

func (e *PendingBlockCommitBeforeExecutionError) Error() string {
	return fmt.Sprintf("pending block %d cannot be committed before execution", e.Number)
}

// PendingBlockMidExecutionError indicates that the current pending block is mid-execution.
type PendingBlockMidExecutionError struct {
	Number uint64
}

func (e *PendingBlockMidExecutionError) Error() string {
	return fmt.Sprintf("pending block %d is currently being executed", e.Number)
}

// PendingBlockTransactionsExhaustedError indicates that the current pending block has finished executing (no more transactions to execute).
type PendingBlockTransactionsExhaustedError struct {
	Number uint64
}

func (e *PendingBlockTransactionsExhaustedError) Error() string {
	return fmt.Sprintf("pending block %d contains no more transactions to execute", e.Number)
}

// StorageError indicates that an error occurred in the storage provider.
type StorageError struct {
	inner error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.inner)
}

func (e *StorageError) Unwrap() error {
	return e.inner
}

// ExitError indicates that a program completed with a non-zero exit code.
type ExitError struct {
	Code int32
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("program exited with code %d (%s)", e.Code, types.Status(e.Code))
}
