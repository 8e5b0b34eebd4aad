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

// History answers block hash queries relative to the block being produced.
// Only blocks strictly before current are visible, and with a non-zero
// window only the most recent window of them.
type History struct {
	reader  Reader
	current uint64
	window  uint64
}

func NewHistory(reader Reader, current, window uint64) *History {
	return &History{reader: reader, current: current, window: window}
}

func (h *History) BlockHash(number uint64) (types.Hash, error) {
	if number >= h.current {
		return types.Hash{}, fmt.Errorf("%w: block %d is not before block %d", types.ErrNotFound, number, h.current)
	}
	if h.window > 0 && h.current-number > h.window {
		return types.Hash{}, fmt.Errorf("%w: block %d is outside the history window", types.ErrNotFound, number)
	}

	hash, err := h.reader.BlockHash(number)
	if errors.Is(err, storage.ErrNotFound) {
		return types.Hash{}, fmt.Errorf("%w: block %d", types.ErrNotFound, number)
	}
	return hash, err
}
