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

package state

import (
	"errors"
	"fmt"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

// DataStore holds immutable blobs addressed by their blake2b-256 hash.
type DataStore struct {
	view *View
}

func NewDataStore(view *View) *DataStore {
	return &DataStore{view: view}
}

// StoreData inserts data and returns its hash. Storing the same bytes twice
// is a no-op.
func (d *DataStore) StoreData(data []byte) (types.Hash, error) {
	if len(data) > types.MaxMessageSize {
		return types.Hash{}, fmt.Errorf("%w: data of %d bytes exceeds %d", types.ErrBufferOverflow, len(data), types.MaxMessageSize)
	}

	hash := types.HashData(data)

	stored := make([]byte, len(data))
	copy(stored, data)
	d.view.PutData(hash, stored)

	return hash, nil
}

// LoadData reads up to maxLen bytes of the blob starting at offset.
func (d *DataStore) LoadData(hash types.Hash, offset, maxLen uint32) ([]byte, error) {
	data, err := d.view.Data(hash)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: no data with hash %s", types.ErrNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	return types.ReadRange(data, offset, maxLen), nil
}
