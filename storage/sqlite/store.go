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

package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/pkg/errors"

	"github.com/godwoken/gw-emulator/storage"
)

// InMemory opens a private in-memory database.
const InMemory = ":memory:"

// Store implements the Store interface
type Store struct {
	storage.DefaultStore
	db *sql.DB
}

var _ storage.Store = &Store{}

// New returns a new SQLite-backed Store implementation.
func New(url string) (*Store, error) {
	if url != InMemory && !strings.HasPrefix(url, "file:") {
		if _, err := os.Stat(filepath.Dir(url)); err != nil {
			return nil, errors.Wrap(err, "invalid sqlite location")
		}
	}

	db, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, err
	}

	if url == InMemory {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	for _, name := range storage.StoreNames {
		_, err = db.Exec(fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s(key TEXT PRIMARY KEY, value TEXT)",
			name,
		))
		if err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "could not create table %s", name)
		}
	}

	store := &Store{
		db: db,
	}
	store.DataSetter = store
	store.DataGetter = store
	store.BatchWriter = store
	store.KeyGenerator = &storage.DefaultKeyGenerator{}

	return store, nil
}

func (s *Store) GetBytes(ctx context.Context, store string, key []byte) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(
		ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key = ?", store),
		hex.EncodeToString(key),
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(value)
}

func (s *Store) SetBytes(ctx context.Context, store string, key []byte, value []byte) error {
	_, err := s.db.ExecContext(ctx, upsertStatement(store), hex.EncodeToString(key), hex.EncodeToString(value))
	return err
}

// WriteBatch applies all writes inside one SQL transaction.
func (s *Store) WriteBatch(ctx context.Context, writes []storage.Write) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, w := range writes {
		_, err = tx.ExecContext(ctx, upsertStatement(w.Store), hex.EncodeToString(w.Key), hex.EncodeToString(w.Value))
		if err != nil {
			return errors.Wrapf(err, "could not write %s entry", w.Store)
		}
	}

	return tx.Commit()
}

func upsertStatement(store string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value",
		store,
	)
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
