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

package storage

import (
	"fmt"

	"github.com/godwoken/gw-emulator/types"
)

// Names of the logical stores a DefaultStore spreads its data over. Backends
// map them to prefixes, tables or key namespaces.
const (
	globalStoreName      = "global"
	blockStoreName       = "blocks"
	resultStoreName      = "transactionResults"
	valueStoreName       = "values"
	accountStoreName     = "accounts"
	scriptIndexStoreName = "scriptIndex"
	dataStoreName        = "data"
)

// StoreNames lists every logical store, for backends that create them up front.
var StoreNames = []string{
	globalStoreName,
	blockStoreName,
	resultStoreName,
	valueStoreName,
	accountStoreName,
	scriptIndexStoreName,
	dataStoreName,
}

// KeyGenerator builds the keys used inside the logical stores.
type KeyGenerator interface {
	Storage(key string) []byte
	BlockNumber(number uint64) []byte
	Hash(hash types.Hash) []byte
	AccountID(id types.AccountID) []byte
}

// DefaultKeyGenerator left-pads numbers with zeros (%032d) so that
// lexicographic ordering matches numeric ordering.
type DefaultKeyGenerator struct{}

func (s *DefaultKeyGenerator) Storage(key string) []byte {
	return []byte(key)
}

func (s *DefaultKeyGenerator) BlockNumber(number uint64) []byte {
	return []byte(fmt.Sprintf("%032d", number))
}

func (s *DefaultKeyGenerator) Hash(hash types.Hash) []byte {
	return []byte(hash.Hex())
}

func (s *DefaultKeyGenerator) AccountID(id types.AccountID) []byte {
	return []byte(fmt.Sprintf("%032d", uint32(id)))
}
