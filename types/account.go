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
	"encoding/binary"
	"fmt"
)

// AccountID is the dense identifier of a rollup account.
//
// Identifiers are assigned monotonically starting at 1. Zero never names an
// account and is used as the "no account" result of failed lookups.
type AccountID uint32

// NoAccount is the reserved zero identifier.
const NoAccount AccountID = 0

func (id AccountID) String() string {
	return fmt.Sprintf("%d", uint32(id))
}

// Bytes returns the 4-byte little-endian encoding used in state keys and
// program arguments.
func (id AccountID) Bytes() []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(id))
	return b[:]
}

// AccountIDFromBytes decodes a 4-byte little-endian account id.
func AccountIDFromBytes(b []byte) (AccountID, error) {
	if len(b) < 4 {
		return NoAccount, fmt.Errorf("account id requires 4 bytes, got %d", len(b))
	}
	return AccountID(binary.LittleEndian.Uint32(b[:4])), nil
}

// NonceToValue encodes a nonce in its fixed-width state representation: the
// counter occupies the low four bytes, little-endian, the rest is zero.
func NonceToValue(nonce uint32) Hash {
	var v Hash
	binary.LittleEndian.PutUint32(v[:4], nonce)
	return v
}

// ValueToNonce is the inverse of NonceToValue. Only the low four bytes are
// meaningful.
func ValueToNonce(v Hash) uint32 {
	return binary.LittleEndian.Uint32(v[:4])
}

// Account is a snapshot of an account's identity and metadata.
type Account struct {
	ID         AccountID `json:"id"`
	ScriptHash Hash      `json:"scriptHash"`
	Nonce      uint32    `json:"nonce"`
	CodeHash   Hash      `json:"codeHash"`
	PubkeyHash Hash      `json:"pubkeyHash"`
}
