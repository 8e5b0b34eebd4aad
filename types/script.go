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

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ScriptHashType selects how a script's code hash is matched against code.
type ScriptHashType byte

const (
	ScriptHashTypeData  ScriptHashType = 0
	ScriptHashTypeType  ScriptHashType = 1
	ScriptHashTypeData1 ScriptHashType = 2
)

// Script identifies the code an account runs and the arguments bound to it.
//
// Scripts are exchanged in the molecule table layout used on layer 1:
//
//	total_size u32 | offset[3] u32 | code_hash [32] | hash_type u8 | args (u32 len | bytes)
//
// with all integers little-endian.
type Script struct {
	CodeHash Hash
	HashType ScriptHashType
	Args     []byte
}

const (
	scriptFieldCount  = 3
	scriptHeaderSize  = 4 * (scriptFieldCount + 1)
	scriptMinimumSize = scriptHeaderSize + HashLength + 1 + 4
)

var errMalformedScript = errors.New("malformed script")

// Serialize encodes the script in its molecule table layout.
func (s Script) Serialize() []byte {
	total := scriptMinimumSize + len(s.Args)
	buf := make([]byte, total)

	codeHashOffset := scriptHeaderSize
	hashTypeOffset := codeHashOffset + HashLength
	argsOffset := hashTypeOffset + 1

	binary.LittleEndian.PutUint32(buf[0:], uint32(total))
	binary.LittleEndian.PutUint32(buf[4:], uint32(codeHashOffset))
	binary.LittleEndian.PutUint32(buf[8:], uint32(hashTypeOffset))
	binary.LittleEndian.PutUint32(buf[12:], uint32(argsOffset))

	copy(buf[codeHashOffset:], s.CodeHash[:])
	buf[hashTypeOffset] = byte(s.HashType)
	binary.LittleEndian.PutUint32(buf[argsOffset:], uint32(len(s.Args)))
	copy(buf[argsOffset+4:], s.Args)

	return buf
}

// Hash returns the content hash of the serialized script.
func (s Script) Hash() Hash {
	return HashData(s.Serialize())
}

// DecodeScript parses and validates a molecule-encoded script.
func DecodeScript(data []byte) (Script, error) {
	if len(data) < scriptMinimumSize {
		return Script{}, fmt.Errorf("%w: %d bytes is shorter than the minimum %d", errMalformedScript, len(data), scriptMinimumSize)
	}

	total := binary.LittleEndian.Uint32(data[0:])
	if int(total) != len(data) {
		return Script{}, fmt.Errorf("%w: header size %d does not match length %d", errMalformedScript, total, len(data))
	}

	offsets := [scriptFieldCount]uint32{
		binary.LittleEndian.Uint32(data[4:]),
		binary.LittleEndian.Uint32(data[8:]),
		binary.LittleEndian.Uint32(data[12:]),
	}
	if offsets[0] != scriptHeaderSize {
		return Script{}, fmt.Errorf("%w: expected %d fields", errMalformedScript, scriptFieldCount)
	}
	if offsets[1]-offsets[0] != HashLength || offsets[2]-offsets[1] != 1 || offsets[2] > total {
		return Script{}, fmt.Errorf("%w: invalid field offsets %v", errMalformedScript, offsets)
	}

	argsField := data[offsets[2]:]
	if len(argsField) < 4 {
		return Script{}, fmt.Errorf("%w: truncated args", errMalformedScript)
	}
	argsLen := binary.LittleEndian.Uint32(argsField)
	if int(argsLen) != len(argsField)-4 {
		return Script{}, fmt.Errorf("%w: args length %d does not match field size %d", errMalformedScript, argsLen, len(argsField)-4)
	}

	hashType := ScriptHashType(data[offsets[1]])
	if hashType > ScriptHashTypeData1 {
		return Script{}, fmt.Errorf("%w: unknown hash type %d", errMalformedScript, hashType)
	}

	args := make([]byte, argsLen)
	copy(args, argsField[4:])

	return Script{
		CodeHash: BytesToHash(data[offsets[0]:offsets[1]]),
		HashType: hashType,
		Args:     args,
	}, nil
}
