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
	"math"

	"github.com/godwoken/gw-emulator/storage"
	"github.com/godwoken/gw-emulator/types"
)

// Accounts is the account directory: the bijection between account ids and
// script hashes, plus per-account metadata fields.
type Accounts struct {
	view *View
	data *DataStore
}

func NewAccounts(view *View) *Accounts {
	return &Accounts{view: view, data: NewDataStore(view)}
}

// Create registers the account described by a molecule-encoded script.
func (a *Accounts) Create(script []byte) (types.AccountID, error) {
	decoded, err := types.DecodeScript(script)
	if err != nil {
		return types.NoAccount, fmt.Errorf("%w: %s", types.ErrInvalidScript, err.Error())
	}

	scriptHash := types.HashData(script)

	_, err = a.view.AccountIDByScriptHash(scriptHash)
	if err == nil {
		return types.NoAccount, fmt.Errorf("%w: script hash %s", types.ErrDuplicateAccount, scriptHash)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return types.NoAccount, err
	}

	if _, err := a.data.StoreData(script); err != nil {
		return types.NoAccount, err
	}

	id, err := a.view.AddAccount(scriptHash)
	if err != nil {
		return types.NoAccount, err
	}

	a.view.SetValue(AccountFieldKey(id, FieldCodeHash), decoded.CodeHash)

	return id, nil
}

func (a *Accounts) IDByScriptHash(hash types.Hash) (types.AccountID, error) {
	id, err := a.view.AccountIDByScriptHash(hash)
	if errors.Is(err, storage.ErrNotFound) {
		return types.NoAccount, fmt.Errorf("%w: no account with script hash %s", types.ErrNotFound, hash)
	}
	return id, err
}

func (a *Accounts) ScriptHashByID(id types.AccountID) (types.Hash, error) {
	hash, err := a.view.ScriptHashByAccountID(id)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Hash{}, fmt.Errorf("%w: no account with id %d", types.ErrNotFound, id)
	}
	return hash, err
}

// Exists reports whether id has been assigned.
func (a *Accounts) Exists(id types.AccountID) (bool, error) {
	if id == types.NoAccount {
		return false, nil
	}
	count, err := a.view.AccountCount()
	if err != nil {
		return false, err
	}
	return uint32(id) <= count, nil
}

func (a *Accounts) mustExist(id types.AccountID) error {
	ok, err := a.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", types.ErrInvalidAccount, id)
	}
	return nil
}

func (a *Accounts) field(id types.AccountID, field FieldType) (types.Hash, error) {
	if err := a.mustExist(id); err != nil {
		return types.Hash{}, err
	}
	return loadValue(a.view, AccountFieldKey(id, field))
}

// NonceValue returns the 32-byte state representation of the nonce.
func (a *Accounts) NonceValue(id types.AccountID) (types.Hash, error) {
	return a.field(id, FieldNonce)
}

// Nonce returns the number of transactions id has sent.
func (a *Accounts) Nonce(id types.AccountID) (uint32, error) {
	value, err := a.NonceValue(id)
	if err != nil {
		return 0, err
	}
	return types.ValueToNonce(value), nil
}

// ErrNonceExhausted is returned when an account's nonce has reached its
// maximum and cannot be advanced without being reused.
var ErrNonceExhausted = errors.New("nonce exhausted")

// IncrementNonce is the only way a nonce changes.
func (a *Accounts) IncrementNonce(id types.AccountID) error {
	nonce, err := a.Nonce(id)
	if err != nil {
		return err
	}
	if nonce == math.MaxUint32 {
		return fmt.Errorf("%w: account %d", ErrNonceExhausted, id)
	}
	a.view.SetValue(AccountFieldKey(id, FieldNonce), types.NonceToValue(nonce+1))
	return nil
}

// Script reads up to maxLen bytes of the account's script starting at offset.
func (a *Accounts) Script(id types.AccountID, offset, maxLen uint32) ([]byte, error) {
	if err := a.mustExist(id); err != nil {
		return nil, err
	}
	hash, err := a.ScriptHashByID(id)
	if err != nil {
		return nil, err
	}
	return a.data.LoadData(hash, offset, maxLen)
}

func (a *Accounts) CodeHash(id types.AccountID) (types.Hash, error) {
	return a.field(id, FieldCodeHash)
}

func (a *Accounts) PubkeyHash(id types.AccountID) (types.Hash, error) {
	return a.field(id, FieldPubkeyHash)
}

func (a *Accounts) SetPubkeyHash(id types.AccountID, hash types.Hash) error {
	if err := a.mustExist(id); err != nil {
		return err
	}
	a.view.SetValue(AccountFieldKey(id, FieldPubkeyHash), hash)
	return nil
}

// Account returns a snapshot of id's identity and metadata.
func (a *Accounts) Account(id types.AccountID) (types.Account, error) {
	scriptHash, err := a.ScriptHashByID(id)
	if err != nil {
		return types.Account{}, err
	}
	nonce, err := a.Nonce(id)
	if err != nil {
		return types.Account{}, err
	}
	codeHash, err := a.CodeHash(id)
	if err != nil {
		return types.Account{}, err
	}
	pubkeyHash, err := a.PubkeyHash(id)
	if err != nil {
		return types.Account{}, err
	}
	return types.Account{
		ID:         id,
		ScriptHash: scriptHash,
		Nonce:      nonce,
		CodeHash:   codeHash,
		PubkeyHash: pubkeyHash,
	}, nil
}

// loadValue reads a state leaf, treating never-written leaves as zero.
func loadValue(r Reader, key types.Hash) (types.Hash, error) {
	value, err := r.Value(key)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Hash{}, nil
	}
	return value, err
}
