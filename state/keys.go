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

package state

import (
	"encoding/binary"

	"github.com/godwoken/gw-emulator/types"
)

// FieldType selects which per-account field a state key addresses.
type FieldType byte

const (
	FieldKV         FieldType = 0
	FieldNonce      FieldType = 1
	FieldPubkeyHash FieldType = 2
	FieldCodeHash   FieldType = 3
)

// AccountKey derives the state key of a storage slot:
// blake2b(id_le32 || FieldKV || key).
func AccountKey(id types.AccountID, key types.Hash) types.Hash {
	var raw [4 + 1 + types.KeySize]byte
	binary.LittleEndian.PutUint32(raw[:4], uint32(id))
	raw[4] = byte(FieldKV)
	copy(raw[5:], key[:])
	return types.HashData(raw[:])
}

// AccountFieldKey derives the state key of an account metadata field:
// blake2b(id_le32 || field).
func AccountFieldKey(id types.AccountID, field FieldType) types.Hash {
	var raw [4 + 1]byte
	binary.LittleEndian.PutUint32(raw[:4], uint32(id))
	raw[4] = byte(field)
	return types.HashData(raw[:])
}
