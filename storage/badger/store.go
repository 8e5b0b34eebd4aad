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

package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/godwoken/gw-emulator/storage"
)

// Store is an embedded storage implementation using Badger as the underlying
// persistent key-value store.
type Store struct {
	storage.DefaultStore
	config Config
	db     *badger.DB
}

var _ storage.Store = &Store{}

func badgerKey(store string, key []byte) []byte {
	return []byte(fmt.Sprintf("%s-%x", store, key))
}

// New returns a Badger-backed store. The database is opened immediately.
func New(opts ...Opt) (*Store, error) {
	config, badgerOptions := getBadgerOptions(opts...)

	db, err := badger.Open(badgerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	store := &Store{db: db, config: config}
	store.DataGetter = store
	store.DataSetter = store
	store.BatchWriter = store
	store.KeyGenerator = &storage.DefaultKeyGenerator{}

	return store, nil
}

// getTx returns a getter function bound to the input transaction that can be
// used to get values from Badger.
//
// The getter function checks for key-not-found errors and wraps them in
// storage.NotFound in order to comply with the storage.Store interface.
//
// This saves a few lines of converting a badger.Item to []byte.
func getTx(txn *badger.Txn) func([]byte) ([]byte, error) {
	return func(key []byte) ([]byte, error) {
		// Badger returns an "item" upon GETs, we need to copy the actual value
		// from the item and return it.
		item, err := txn.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil, storage.ErrNotFound
			}
			return nil, err
		}

		val := make([]byte, item.ValueSize())
		return item.ValueCopy(val)
	}
}

func (s *Store) GetBytes(_ context.Context, store string, key []byte) (result []byte, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		result, err = getTx(txn)(badgerKey(store, key))
		return err
	})
	return
}

func (s *Store) SetBytes(_ context.Context, store string, key []byte, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(store, key), value)
	})
}

// WriteBatch applies all writes in a single Badger transaction.
func (s *Store) WriteBatch(_ context.Context, writes []storage.Write) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, w := range writes {
			err := txn.Set(badgerKey(w.Store, w.Key), w.Value)
			if err != nil {
				return fmt.Errorf("could not write %s entry: %w", w.Store, err)
			}
		}
		return nil
	})
}

// Close closes the underlying Badger database. It is necessary to close
// a Store before exiting to ensure all writes are persisted to disk.
func (s *Store) Close() error {
	return s.db.Close()
}

// Sync syncs database content to disk.
func (s *Store) Sync() error {
	if s.config.InMemory {
		return nil
	}
	return s.db.Sync()
}

func (s *Store) RunValueLogGC(discardRatio float64) error {
	if s.config.InMemory {
		return nil
	}
	err := s.db.RunValueLogGC(discardRatio)

	// ignore ErrNoRewrite, which occurs when GC results in no cleanup
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return err
	}

	return nil
}
