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

// Package memstore implements the storage.Store interface with an in-memory
// map per logical store.
package memstore

import (
	"context"
	"sync"

	"github.com/godwoken/gw-emulator/storage"
)

// Store implements the Store interface with an in-memory store.
type Store struct {
	storage.DefaultStore
	mu sync.RWMutex
	// maps store names to their key/value contents
	stores map[string]map[string][]byte
}

var _ storage.Store = &Store{}

// New returns a new in-memory Store implementation.
func New() *Store {
	store := &Store{
		mu:     sync.RWMutex{},
		stores: make(map[string]map[string][]byte),
	}
	store.DataGetter = store
	store.DataSetter = store
	store.BatchWriter = store
	store.KeyGenerator = &storage.DefaultKeyGenerator{}

	return store
}

func (s *Store) GetBytes(_ context.Context, store string, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.stores[store][string(key)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *Store) SetBytes(_ context.Context, store string, key []byte, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.setBytes(store, key, value)
	return nil
}

func (s *Store) WriteBatch(_ context.Context, writes []storage.Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		s.setBytes(w.Store, w.Key, w.Value)
	}
	return nil
}

func (s *Store) setBytes(store string, key []byte, value []byte) {
	if s.stores[store] == nil {
		s.stores[store] = make(map[string][]byte)
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.stores[store][string(key)] = stored
}
