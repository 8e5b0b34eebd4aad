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
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// HashLength is the width of content hashes, storage keys and storage values.
const HashLength = 32

// Hash is a 32-byte content hash. Storage keys and values share its width.
type Hash [HashLength]byte

// ZeroHash is the value returned for storage keys that were never written.
var ZeroHash = Hash{}

// HashData returns the blake2b-256 content hash of data.
func HashData(data []byte) Hash {
	return Hash(blake2b.Sum256(data))
}

// BytesToHash copies b into a Hash. Shorter inputs are left-aligned and
// zero-padded, longer inputs are truncated.
func BytesToHash(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// HexToHash decodes a hex string, with or without a 0x prefix.
func HexToHash(s string) (Hash, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("invalid hash length %d, expected %d", len(b), HashLength)
	}
	return BytesToHash(b), nil
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// MarshalText encodes the hash as a 0x-prefixed hex string.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte("0x" + h.Hex()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	decoded, err := HexToHash(string(text))
	if err != nil {
		return err
	}
	*h = decoded
	return nil
}
