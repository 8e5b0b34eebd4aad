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
	"github.com/godwoken/gw-emulator/types"
)

// Syscalls is the capability surface a running program uses to reach rollup
// state. Every call is synchronous. A failed call reports one of the errors in
// the types package; types.StatusOf turns it into the status code seen by
// contract code.
type Syscalls interface {
	TransactionContext() types.TransactionContext
	BlockInfo() types.BlockInfo

	CreateAccount(script []byte) (types.AccountID, error)

	Load(id types.AccountID, key types.Hash) (types.Hash, error)
	Store(id types.AccountID, key, value types.Hash) error
	LoadNonce(id types.AccountID) (types.Hash, error)

	SetReturnData(data []byte) error

	GetAccountIDByScriptHash(hash types.Hash) (types.AccountID, error)
	GetScriptHashByAccountID(id types.AccountID) (types.Hash, error)
	GetAccountNonce(id types.AccountID) (uint32, error)
	GetAccountScript(id types.AccountID, offset, maxLen uint32) ([]byte, error)

	LoadData(hash types.Hash, offset, maxLen uint32) ([]byte, error)
	StoreData(data []byte) (types.Hash, error)

	GetBlockHash(number uint64) (types.Hash, error)

	Log(id types.AccountID, serviceFlag uint8, data []byte) error
}
