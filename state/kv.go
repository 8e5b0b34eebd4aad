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
	"github.com/godwoken/gw-emulator/types"
)

// KV is per-account key-value storage of 32-byte keys and values.
type KV struct {
	view     *View
	accounts *Accounts
}

func NewKV(view *View) *KV {
	return &KV{view: view, accounts: NewAccounts(view)}
}

// Load returns the value under key, or zero if it was never stored.
func (s *KV) Load(id types.AccountID, key types.Hash) (types.Hash, error) {
	if err := s.accounts.mustExist(id); err != nil {
		return types.Hash{}, err
	}
	return loadValue(s.view, AccountKey(id, key))
}

// Store overwrites the value under key.
func (s *KV) Store(id types.AccountID, key, value types.Hash) error {
	if err := s.accounts.mustExist(id); err != nil {
		return err
	}
	s.view.SetValue(AccountKey(id, key), value)
	return nil
}
