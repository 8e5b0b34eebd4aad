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

	"github.com/fxamacker/cbor/v2"
)

// BlockInfo describes the block being produced or validated. A context holds
// its own copy, so it cannot change during a call.
type BlockInfo struct {
	Number       uint64    `json:"number"`
	Timestamp    uint64    `json:"timestamp"`
	AggregatorID AccountID `json:"aggregatorId"`
}

// Block is a committed layer-2 block.
type Block struct {
	Number            uint64    `json:"number"`
	Timestamp         uint64    `json:"timestamp"`
	AggregatorID      AccountID `json:"aggregatorId"`
	ParentHash        Hash      `json:"parentHash"`
	TransactionHashes []Hash    `json:"transactionHashes"`
}

// Info returns the block metadata exposed to contracts.
func (b Block) Info() BlockInfo {
	return BlockInfo{
		Number:       b.Number,
		Timestamp:    b.Timestamp,
		AggregatorID: b.AggregatorID,
	}
}

// Hash returns the block hash: the content hash of the canonical CBOR
// encoding of the block.
func (b Block) Hash() Hash {
	// a block without transactions hashes the same whether or not the slice was allocated
	if b.TransactionHashes == nil {
		b.TransactionHashes = []Hash{}
	}
	encoded, err := canonicalEncoding.Marshal(b)
	if err != nil {
		// every field is a fixed-size integer, array or slice of arrays
		panic(fmt.Sprintf("could not encode block %d: %s", b.Number, err))
	}
	return HashData(encoded)
}

var canonicalEncoding cbor.EncMode

func init() {
	var err error
	canonicalEncoding, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("could not initialize cbor encoding mode: %s", err.Error()))
	}
}

// Transaction is a layer-2 call from one account to another.
type Transaction struct {
	FromID AccountID `json:"fromId"`
	ToID   AccountID `json:"toId"`
	Nonce  uint32    `json:"nonce"`
	Args   []byte    `json:"args"`
}

// Hash returns the transaction hash over from, to, nonce and args.
func (tx Transaction) Hash() Hash {
	buf := make([]byte, 12+len(tx.Args))
	binary.LittleEndian.PutUint32(buf[0:], uint32(tx.FromID))
	binary.LittleEndian.PutUint32(buf[4:], uint32(tx.ToID))
	binary.LittleEndian.PutUint32(buf[8:], tx.Nonce)
	copy(buf[12:], tx.Args)
	return HashData(buf)
}

// TransactionContext is the immutable identity of the running call.
type TransactionContext struct {
	FromID AccountID
	ToID   AccountID
	args   *Buffer
}

// NewTransactionContext checks args against MaxArgsSize.
func NewTransactionContext(from, to AccountID, args []byte) (TransactionContext, error) {
	buf := NewBufferWithError(MaxArgsSize, ErrArgsTooLarge)
	if err := buf.Set(args); err != nil {
		return TransactionContext{}, err
	}
	return TransactionContext{FromID: from, ToID: to, args: buf}, nil
}

// Args returns a copy of the call arguments.
func (t TransactionContext) Args() []byte {
	if t.args == nil {
		return []byte{}
	}
	return t.args.Bytes()
}
