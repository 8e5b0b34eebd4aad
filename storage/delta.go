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
	"github.com/godwoken/gw-emulator/types"
)

// AccountEntry records a newly created account.
type AccountEntry struct {
	ID         types.AccountID
	ScriptHash types.Hash
}

// Delta is a set of state mutations that is applied as a unit.
//
// Accounts are kept in creation order, so their ids are strictly increasing.
// Data entries are only ever inserted.
type Delta struct {
	Values   map[types.Hash]types.Hash
	Accounts []AccountEntry
	Data     map[types.Hash][]byte
}

func NewDelta() *Delta {
	return &Delta{
		Values:   make(map[types.Hash]types.Hash),
		Accounts: make([]AccountEntry, 0),
		Data:     make(map[types.Hash][]byte),
	}
}

// Merge applies the mutations of other on top of d.
func (d *Delta) Merge(other *Delta) {
	for key, value := range other.Values {
		d.Values[key] = value
	}

	d.Accounts = append(d.Accounts, other.Accounts...)

	for hash, data := range other.Data {
		if _, ok := d.Data[hash]; !ok {
			d.Data[hash] = data
		}
	}
}

// Empty returns true if the delta holds no mutations.
func (d *Delta) Empty() bool {
	return len(d.Values) == 0 && len(d.Accounts) == 0 && len(d.Data) == 0
}

// AccountCount returns the highest account id created in this delta, or
// zero if none were created.
func (d *Delta) AccountCount() uint32 {
	if len(d.Accounts) == 0 {
		return 0
	}
	return uint32(d.Accounts[len(d.Accounts)-1].ID)
}
