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


package server

import (
	"time"

	"github.com/psiemens/graceland"
	"github.com/sirupsen/logrus"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/storage/badger"
	"github.com/godwoken/gw-emulator/storage/memstore"
	"github.com/godwoken/gw-emulator/storage/redis"
	"github.com/godwoken/gw-emulator/storage/sqlite"
)

// Storage is a store that runs alongside the server. Routines are stopped in
// insertion order, so storage is added to the group last and closes the
// store when it stops.
type Storage interface {
	graceland.Routine
	Store() storage.Store
}

type BadgerStorage struct {
	logger       *logrus.Logger
	store        *badger.Store
	ticker       *time.Ticker
	done         chan bool
	discardRatio float64
}

// NewBadgerStorage opens a Badger store. With persist unset the database is
// kept in memory and no value log collection runs.
func NewBadgerStorage(
	logger *logrus.Logger,
	dbPath string,
	gcInterval time.Duration,
	discardRatio float64,
	persist bool,
) (*BadgerStorage, error) {
	opts := []badger.Opt{badger.WithLogger(logger)}
	if persist {
		opts = append(opts, badger.WithPath(dbPath), badger.WithTruncate(true))
	} else {
		opts = append(opts, badger.WithInMemory())
	}

	store, err := badger.New(opts...)
	if err != nil {
		return nil, err
	}

	return &BadgerStorage{
		logger:       logger,
		store:        store,
		ticker:       time.NewTicker(gcInterval),
		done:         make(chan bool, 1),
		discardRatio: discardRatio,
	}, nil
}

// Start runs value log garbage collection until Stop is called.
func (s *BadgerStorage) Start() error {
	for {
		select {
		case <-s.ticker.C:
			err := s.store.RunValueLogGC(s.discardRatio)
			if err != nil {
				s.logger.WithError(err).Error("❗  Failed to collect value log garbage")
			}
		case <-s.done:
			return nil
		}
	}
}

func (s *BadgerStorage) Stop() {
	s.ticker.Stop()
	s.done <- true

	err := s.store.Close()
	if err != nil {
		s.logger.WithError(err).Error("❗  Failed to close Badger database")
	}
}

func (s *BadgerStorage) Store() storage.Store {
	return s.store
}

type RedisStorage struct {
	logger *logrus.Logger
	store  *redis.Store
}

func NewRedisStorage(logger *logrus.Logger, url string) (*RedisStorage, error) {
	rdb, err := redis.New(url)
	if err != nil {
		return nil, err
	}
	return &RedisStorage{logger: logger, store: rdb}, nil
}

func (s *RedisStorage) Start() error {
	return nil
}

func (s *RedisStorage) Stop() {
	if err := s.store.Close(); err != nil {
		s.logger.WithError(err).Error("❗  Failed to close Redis client")
	}
}

func (s *RedisStorage) Store() storage.Store {
	return s.store
}

type MemoryStorage struct {
	store *memstore.Store
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{store: memstore.New()}
}

func (s *MemoryStorage) Start() error {
	return nil
}

func (s *MemoryStorage) Stop() {}

func (s *MemoryStorage) Store() storage.Store {
	return s.store
}

type SqliteStorage struct {
	logger *logrus.Logger
	store  *sqlite.Store
}

func NewSqliteStorage(logger *logrus.Logger, url string) (*SqliteStorage, error) {
	db, err := sqlite.New(url)
	if err != nil {
		return nil, err
	}
	return &SqliteStorage{logger: logger, store: db}, nil
}

func (s *SqliteStorage) Start() error {
	return nil
}

func (s *SqliteStorage) Stop() {
	if err := s.store.Close(); err != nil {
		s.logger.WithError(err).Error("❗  Failed to close SQLite database")
	}
}

func (s *SqliteStorage) Store() storage.Store {
	return s.store
}
