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

// Package state implements the rollup state seen by a running call: the
// account directory, account storage, the content-addressed data store and
// the block hash history, on top of an overlay that buffers mutations until
// they are applied to the enclosing scope.
package state

import (
	"context"
	"errors"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

// Reader is read access to a state scope. Missing resources are reported
// with storage.ErrNotFound; any other error is a failure of the layer below.
type Reader interface {
	Value(key types.Hash) (types.Hash, error)
	AccountCount() (uint32, error)
	AccountIDByScriptHash(hash types.Hash) (types.AccountID, error)
	ScriptHashByAccountID(id types.AccountID) (types.Hash, error)
	Data(hash types.Hash) ([]byte, error)
	BlockHash(number uint64) (types.Hash, error)
}

type storeReader struct {
	ctx   context.Context
	store storage.Store
}

// FromStore exposes committed state in store as a Reader.
func FromStore(ctx context.Context, store storage.Store) Reader {
	return &storeReader{ctx: ctx, store: store}
}

func (r *storeReader) Value(key types.Hash) (types.Hash, error) {
	return r.store.Value(r.ctx, key)
}

func (r *storeReader) AccountCount() (uint32, error) {
	return r.store.AccountCount(r.ctx)
}

func (r *storeReader) AccountIDByScriptHash(hash types.Hash) (types.AccountID, error) {
	return r.store.AccountIDByScriptHash(r.ctx, hash)
}

func (r *storeReader) ScriptHashByAccountID(id types.AccountID) (types.Hash, error) {
	return r.store.ScriptHashByAccountID(r.ctx, id)
}

func (r *storeReader) Data(hash types.Hash) ([]byte, error) {
	return r.store.Data(r.ctx, hash)
}

func (r *storeReader) BlockHash(number uint64) (types.Hash, error) {
	block, err := r.store.BlockByNumber(r.ctx, number)
	if err != nil {
		return types.Hash{}, err
	}
	return block.Hash(), nil
}

// View is a writable scope layered over a parent Reader. Reads fall through
// to the parent for anything the view has not written. Mutations stay in the
// view until it is applied to its parent with Apply, or are dropped with it.
//
// A View is not safe for concurrent use.
type View struct {
	parent Reader
	delta  *storage.Delta

	ids       map[types.Hash]types.AccountID
	scripts   map[types.AccountID]types.Hash
	count     uint32
	countRead bool
}

var _ Reader = &View{}

func NewView(parent Reader) *View {
	return &View{
		parent:  parent,
		delta:   storage.NewDelta(),
		ids:     make(map[types.Hash]types.AccountID),
		scripts: make(map[types.AccountID]types.Hash),
	}
}

// Delta returns the mutations buffered in the view.
func (v *View) Delta() *storage.Delta {
	return v.delta
}

// Apply moves the mutations of child into v. child must have been created
// with v as its parent and must not be used afterwards.
func (v *View) Apply(child *View) error {
	if child.parent != Reader(v) {
		return errors.New("state: view applied to a scope that is not its parent")
	}

	v.delta.Merge(child.delta)
	for hash, id := range child.ids {
		v.ids[hash] = id
		v.scripts[id] = hash
	}
	if child.countRead {
		v.count = child.count
		v.countRead = true
	}
	return nil
}

func (v *View) Value(key types.Hash) (types.Hash, error) {
	if value, ok := v.delta.Values[key]; ok {
		return value, nil
	}
	return v.parent.Value(key)
}

// SetValue overwrites the state leaf under key.
func (v *View) SetValue(key, value types.Hash) {
	v.delta.Values[key] = value
}

func (v *View) AccountCount() (uint32, error) {
	if !v.countRead {
		count, err := v.parent.AccountCount()
		if err != nil {
			return 0, err
		}
		v.count = count
		v.countRead = true
	}
	return v.count, nil
}

// AddAccount registers a new account under the next free id. The caller is
// responsible for rejecting duplicate script hashes.
func (v *View) AddAccount(scriptHash types.Hash) (types.AccountID, error) {
	count, err := v.AccountCount()
	if err != nil {
		return types.NoAccount, err
	}

	id := types.AccountID(count + 1)
	v.count = count + 1
	v.ids[scriptHash] = id
	v.scripts[id] = scriptHash
	v.delta.Accounts = append(v.delta.Accounts, storage.AccountEntry{ID: id, ScriptHash: scriptHash})

	return id, nil
}

func (v *View) AccountIDByScriptHash(hash types.Hash) (types.AccountID, error) {
	if id, ok := v.ids[hash]; ok {
		return id, nil
	}
	return v.parent.AccountIDByScriptHash(hash)
}

func (v *View) ScriptHashByAccountID(id types.AccountID) (types.Hash, error) {
	if hash, ok := v.scripts[id]; ok {
		return hash, nil
	}
	return v.parent.ScriptHashByAccountID(id)
}

func (v *View) Data(hash types.Hash) ([]byte, error) {
	if data, ok := v.delta.Data[hash]; ok {
		return data, nil
	}
	return v.parent.Data(hash)
}

// PutData inserts a blob under its content hash. Blobs are never replaced.
func (v *View) PutData(hash types.Hash, data []byte) {
	if _, ok := v.delta.Data[hash]; ok {
		return
	}
	v.delta.Data[hash] = data
}

func (v *View) BlockHash(number uint64) (types.Hash, error) {
	return v.parent.BlockHash(number)
}
