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

package types

import (
	"errors"
)

// StorableTransactionResult is the persisted form of a TransactionResult.
type StorableTransactionResult struct {
	TransactionHash Hash
	BlockNumber     uint64
	Index           uint32
	ExitCode        int32
	ErrorMessage    string
	ReturnData      []byte
	Logs            []LogRecord
}

// A TransactionResult is the result of executing a transaction.
type TransactionResult struct {
	TransactionHash Hash
	// ExitCode is the program's exit code for completed transactions, or the
	// fault status for faulted ones.
	ExitCode   int32
	Error      error
	ReturnData []byte
	Logs       []LogRecord
	// Faulted is set when the engine aborted the transaction. Faulted
	// transactions are not included in a block and have no effect on state.
	Faulted bool
}

// Succeeded returns true if the transaction completed with exit code zero.
func (r TransactionResult) Succeeded() bool {
	return !r.Faulted && r.ExitCode == 0 && r.Error == nil
}

// Reverted returns true if the transaction did not succeed.
func (r TransactionResult) Reverted() bool {
	return !r.Succeeded()
}

// Storable converts the result into its persisted form.
func (r TransactionResult) Storable(blockNumber uint64, index uint32) StorableTransactionResult {
	var msg string
	if r.Error != nil {
		msg = r.Error.Error()
	}
	return StorableTransactionResult{
		TransactionHash: r.TransactionHash,
		BlockNumber:     blockNumber,
		Index:           index,
		ExitCode:        r.ExitCode,
		ErrorMessage:    msg,
		ReturnData:      r.ReturnData,
		Logs:            r.Logs,
	}
}

// TransactionResult converts the persisted form back into a result.
func (s StorableTransactionResult) TransactionResult() TransactionResult {
	var err error
	if s.ErrorMessage != "" {
		err = errors.New(s.ErrorMessage)
	}
	return TransactionResult{
		TransactionHash: s.TransactionHash,
		ExitCode:        s.ExitCode,
		Error:           err,
		ReturnData:      s.ReturnData,
		Logs:            s.Logs,
	}
}
