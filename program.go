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

package emulator

import (
	"sync"

	"github.com/godwoken/gw-emulator/types"
)

// A Program is native contract code. Run drives the program to completion
// against sys and returns its exit code: zero on success, a positive
// application-defined code otherwise. A negative return is treated as the
// status of the syscall that made the program give up.
type Program interface {
	Run(sys Syscalls) int32
}

// ProgramFunc adapts a function to the Program interface.
type ProgramFunc func(sys Syscalls) int32

func (f ProgramFunc) Run(sys Syscalls) int32 {
	return f(sys)
}

// Registry resolves the program of an account by its code hash.
type Registry struct {
	mu       sync.RWMutex
	programs map[types.Hash]Program
}

func NewRegistry() *Registry {
	return &Registry{programs: make(map[types.Hash]Program)}
}

// Register binds program to codeHash, replacing any previous binding.
func (r *Registry) Register(codeHash types.Hash, program Program) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.programs[codeHash] = program
}

func (r *Registry) Lookup(codeHash types.Hash) (Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	program, ok := r.programs[codeHash]
	return program, ok
}
