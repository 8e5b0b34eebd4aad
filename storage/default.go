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
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/godwoken/gw-emulator/types"
)

// DataGetter reads raw bytes from a logical store.
type DataGetter interface {
	GetBytes(ctx context.Context, store string, key []byte) ([]byte, error)
}

// DataSetter writes raw bytes to a logical store.
type DataSetter interface {
	SetBytes(ctx context.Context, store string, key []byte, value []byte) error
}

// Write is a single entry of a batch.
type Write struct {
	Store string
	Key   []byte
	Value []byte
}

// BatchWriter applies a batch of writes atomically: either every write is
// visible afterwards or none is.
type BatchWriter interface {
	WriteBatch(ctx context.Context, writes []Write) error
}

const defaultDataCacheSize = 1024

const (
	latestBlockKey  = "latest_block_number"
	accountCountKey = "account_count"
)

// DefaultStore implements Store on top of a byte-level backend. Backends
// embed it and assign themselves to DataGetter, DataSetter and BatchWriter.
type DefaultStore struct {
	KeyGenerator
	DataGetter
	DataSetter
	BatchWriter

	cacheOnce sync.Once
	dataCache *lru.Cache
}

var _ Store = &DefaultStore{}

func (s *DefaultStore) cache() *lru.Cache {
	s.cacheOnce.Do(func() {
		// lru.New only fails for non-positive sizes
		s.dataCache, _ = lru.New(defaultDataCacheSize)
	})
	return s.dataCache
}

func (s *DefaultStore) LatestBlock(ctx context.Context) (types.Block, error) {
	number, err := s.latestBlockNumber(ctx)
	if err != nil {
		return types.Block{}, err
	}
	return s.BlockByNumber(ctx, number)
}

func (s *DefaultStore) latestBlockNumber(ctx context.Context) (uint64, error) {
	encoded, err := s.GetBytes(ctx, globalStoreName, s.KeyGenerator.Storage(latestBlockKey))
	if err != nil {
		return 0, err
	}
	var number uint64
	err = decodeUint64(&number, encoded)
	if err != nil {
		return 0, errors.Wrap(err, "could not decode latest block number")
	}
	return number, nil
}

func (s *DefaultStore) BlockByNumber(ctx context.Context, number uint64) (types.Block, error) {
	encoded, err := s.GetBytes(ctx, blockStoreName, s.KeyGenerator.BlockNumber(number))
	if err != nil {
		return types.Block{}, err
	}
	var block types.Block
	err = decodeBlock(&block, encoded)
	if err != nil {
		return types.Block{}, errors.Wrapf(err, "could not decode block %d", number)
	}
	return block, nil
}

func (s *DefaultStore) TransactionResultByHash(ctx context.Context, hash types.Hash) (types.StorableTransactionResult, error) {
	encoded, err := s.GetBytes(ctx, resultStoreName, s.KeyGenerator.Hash(hash))
	if err != nil {
		return types.StorableTransactionResult{}, err
	}
	var result types.StorableTransactionResult
	err = decodeTransactionResult(&result, encoded)
	if err != nil {
		return types.StorableTransactionResult{}, errors.Wrapf(err, "could not decode transaction result %s", hash)
	}
	return result, nil
}

func (s *DefaultStore) Value(ctx context.Context, key types.Hash) (types.Hash, error) {
	value, err := s.GetBytes(ctx, valueStoreName, s.KeyGenerator.Hash(key))
	if err != nil {
		return types.Hash{}, err
	}
	if len(value) != types.HashLength {
		return types.Hash{}, fmt.Errorf("state value %s has length %d", key, len(value))
	}
	return types.BytesToHash(value), nil
}

func (s *DefaultStore) AccountCount(ctx context.Context) (uint32, error) {
	encoded, err := s.GetBytes(ctx, globalStoreName, s.KeyGenerator.Storage(accountCountKey))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var count uint64
	err = decodeUint64(&count, encoded)
	if err != nil {
		return 0, errors.Wrap(err, "could not decode account count")
	}
	return uint32(count), nil
}

func (s *DefaultStore) AccountIDByScriptHash(ctx context.Context, hash types.Hash) (types.AccountID, error) {
	encoded, err := s.GetBytes(ctx, scriptIndexStoreName, s.KeyGenerator.Hash(hash))
	if err != nil {
		return types.NoAccount, err
	}
	return types.AccountIDFromBytes(encoded)
}

func (s *DefaultStore) ScriptHashByAccountID(ctx context.Context, id types.AccountID) (types.Hash, error) {
	encoded, err := s.GetBytes(ctx, accountStoreName, s.KeyGenerator.AccountID(id))
	if err != nil {
		return types.Hash{}, err
	}
	return types.BytesToHash(encoded), nil
}

func (s *DefaultStore) Data(ctx context.Context, hash types.Hash) ([]byte, error) {
	if cached, ok := s.cache().Get(hash); ok {
		return cached.([]byte), nil
	}

	data, err := s.GetBytes(ctx, dataStoreName, s.KeyGenerator.Hash(hash))
	if err != nil {
		return nil, err
	}

	s.cache().Add(hash, data)

	return data, nil
}

func (s *DefaultStore) CommitBlock(
	ctx context.Context,
	block types.Block,
	results []types.StorableTransactionResult,
	delta *Delta,
) error {
	writes := make([]Write, 0)

	encodedBlock, err := encodeBlock(block)
	if err != nil {
		return errors.Wrapf(err, "could not encode block %d", block.Number)
	}
	writes = append(writes, Write{blockStoreName, s.KeyGenerator.BlockNumber(block.Number), encodedBlock})

	encodedNumber, err := encodeUint64(block.Number)
	if err != nil {
		return err
	}
	writes = append(writes, Write{globalStoreName, s.KeyGenerator.Storage(latestBlockKey), encodedNumber})

	for _, result := range results {
		encodedResult, err := encodeTransactionResult(result)
		if err != nil {
			return errors.Wrapf(err, "could not encode transaction result %s", result.TransactionHash)
		}
		writes = append(writes, Write{resultStoreName, s.KeyGenerator.Hash(result.TransactionHash), encodedResult})
	}

	if delta != nil {
		writes = append(writes, s.deltaWrites(delta)...)

		if count := delta.AccountCount(); count > 0 {
			encodedCount, err := encodeUint64(uint64(count))
			if err != nil {
				return err
			}
			writes = append(writes, Write{globalStoreName, s.KeyGenerator.Storage(accountCountKey), encodedCount})
		}
	}

	return s.WriteBatch(ctx, writes)
}

func (s *DefaultStore) deltaWrites(delta *Delta) []Write {
	writes := make([]Write, 0, len(delta.Values)+2*len(delta.Accounts)+len(delta.Data))

	for key, value := range delta.Values {
		v := value
		writes = append(writes, Write{valueStoreName, s.KeyGenerator.Hash(key), v[:]})
	}

	for _, account := range delta.Accounts {
		var id [4]byte
		binary.LittleEndian.PutUint32(id[:], uint32(account.ID))
		scriptHash := account.ScriptHash

		writes = append(writes,
			Write{accountStoreName, s.KeyGenerator.AccountID(account.ID), scriptHash[:]},
			Write{scriptIndexStoreName, s.KeyGenerator.Hash(account.ScriptHash), id[:]},
		)
	}

	for hash, data := range delta.Data {
		writes = append(writes, Write{dataStoreName, s.KeyGenerator.Hash(hash), data})
	}

	return writes
}
