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

// Package meta implements the meta contract: the program through which
// accounts are created from inside a transaction.
package meta

import (
	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/types"
)

// CodeHash identifies the meta contract in account scripts.
var CodeHash = types.HashData([]byte("gw-emulator/programs/meta"))

// Program creates an account from the molecule-encoded script passed as
// args and returns the new account id as 4 little-endian bytes.
type Program struct{}

var _ emulator.Program = Program{}

func (Program) Run(sys emulator.Syscalls) int32 {
	script := sys.TransactionContext().Args()

	id, err := sys.CreateAccount(script)
	if err != nil {
		return int32(types.StatusOf(err))
	}

	if err := sys.SetReturnData(id.Bytes()); err != nil {
		return int32(types.StatusOf(err))
	}

	return 0
}

// Register binds the meta contract to its code hash.
func Register(registry *emulator.Registry) {
	registry.Register(CodeHash, Program{})
}
