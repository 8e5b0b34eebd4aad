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

package types

const (
	// KeySize and ValueSize are the widths of account storage entries.
	KeySize   = HashLength
	ValueSize = HashLength

	// MaxArgsSize bounds a transaction's argument buffer (128 KiB).
	MaxArgsSize = 131072

	// MaxReturnDataSize bounds a call receipt's return data.
	MaxReturnDataSize = 1024

	// MaxMessageSize is the general ceiling on a single payload crossing the
	// syscall boundary, such as a log record or a stored data blob.
	MaxMessageSize = 131072
)

// Buffer is a byte buffer with a fixed capacity.
//
// Writes are all-or-nothing: a write that would exceed the capacity fails
// and leaves the current contents untouched.
type Buffer struct {
	data     []byte
	capacity int
	overflow error
}

// NewBuffer returns an empty buffer that holds at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	return NewBufferWithError(capacity, ErrBufferOverflow)
}

// NewBufferWithError is NewBuffer with a custom error reported on overflow.
func NewBufferWithError(capacity int, overflow error) *Buffer {
	return &Buffer{
		data:     make([]byte, 0),
		capacity: capacity,
		overflow: overflow,
	}
}

// Set replaces the buffer contents with a copy of p.
func (b *Buffer) Set(p []byte) error {
	if len(p) > b.capacity {
		return b.overflow
	}
	data := make([]byte, len(p))
	copy(data, p)
	b.data = data
	return nil
}

// Append adds p to the end of the buffer.
func (b *Buffer) Append(p []byte) error {
	if len(b.data)+len(p) > b.capacity {
		return b.overflow
	}
	b.data = append(b.data, p...)
	return nil
}

// Bytes returns a copy of the buffer contents.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *Buffer) Len() int {
	return len(b.data)
}

func (b *Buffer) Cap() int {
	return b.capacity
}

// ReadRange returns up to maxLen bytes of src starting at offset.
//
// Reading past the end is not an error: a read that starts at or beyond the
// end returns an empty slice, and a read that crosses the end is short.
func ReadRange(src []byte, offset, maxLen uint32) []byte {
	size := uint64(len(src))
	start := uint64(offset)
	if start >= size {
		return []byte{}
	}
	end := start + uint64(maxLen)
	if end > size {
		end = size
	}
	out := make([]byte, end-start)
	copy(out, src[start:end])
	return out
}
