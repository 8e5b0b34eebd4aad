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

package redis

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/godwoken/gw-emulator/storage"
)

// Store implements the Store interface
type Store struct {
	storage.DefaultStore
	options *redis.Options
	rdb     *redis.Client
}

var _ storage.Store = &Store{}

// New returns a Store backed by the Redis server at url, for example
// redis://[[username:]password@]host[:port][/database].
func New(url string) (*Store, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	store := &Store{
		options: options,
		rdb:     redis.NewClient(options),
	}
	store.DataSetter = store
	store.DataGetter = store
	store.BatchWriter = store
	store.KeyGenerator = &storage.DefaultKeyGenerator{}

	return store, nil
}

func storeKey(store string, key []byte) string {
	return fmt.Sprintf("%s_%s", store, hex.EncodeToString(key))
}

func (s *Store) GetBytes(ctx context.Context, store string, key []byte) ([]byte, error) {
	val, err := s.rdb.Get(ctx, storeKey(store, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	rawBytes, err := hex.DecodeString(val)
	if err != nil {
		return nil, err
	}
	return rawBytes, nil
}

func (s *Store) SetBytes(ctx context.Context, store string, key []byte, value []byte) error {
	return s.rdb.Set(ctx, storeKey(store, key), hex.EncodeToString(value), 0).Err()
}

// WriteBatch sends all writes in one MULTI/EXEC transaction.
func (s *Store) WriteBatch(ctx context.Context, writes []storage.Write) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			pipe.Set(ctx, storeKey(w.Store, w.Key), hex.EncodeToString(w.Value), 0)
		}
		return nil
	})
	return err
}

// Ping checks that the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
