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
	"errors"
	"fmt"
)

// Status is the integer code a syscall reports to contract code.
//
// Zero is success. Positive values are application-defined exit codes and
// are never interpreted by the engine. Negative values are reserved for the
// conditions below.
type Status int32

const (
	StatusOK                 Status = 0
	StatusNotFound           Status = -1
	StatusInvalidAccount     Status = -2
	StatusDuplicateAccount   Status = -3
	StatusBufferOverflow     Status = -4
	StatusArgsTooLarge       Status = -5
	StatusReturnDataTooLarge Status = -6
	StatusInvalidScript      Status = -7
	StatusContextClosed      Status = -8
	StatusInternal           Status = -9
)

var statusNames = map[Status]string{
	StatusOK:                 "OK",
	StatusNotFound:           "NotFound",
	StatusInvalidAccount:     "InvalidAccount",
	StatusDuplicateAccount:   "DuplicateAccount",
	StatusBufferOverflow:     "BufferOverflow",
	StatusArgsTooLarge:       "ArgsTooLarge",
	StatusReturnDataTooLarge: "ReturnDataTooLarge",
	StatusInvalidScript:      "InvalidScript",
	StatusContextClosed:      "ContextClosed",
	StatusInternal:           "Internal",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	if s > 0 {
		return fmt.Sprintf("Application(%d)", int32(s))
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// IsEngineFault reports whether the status aborts the running transaction.
//
// Lookup misses and size-limit violations are part of the syscall contract
// and are returned to the contract. A closed context or an internal failure
// of the state layer means the caller or the engine is broken.
func (s Status) IsEngineFault() bool {
	return s == StatusContextClosed || s == StatusInternal
}

// Error is a syscall failure carrying its status code. Callers add context
// by wrapping it; StatusOf recovers the code from any wrapped chain.
type Error struct {
	Status Status
	msg    string
}

func NewError(status Status, msg string) *Error {
	return &Error{Status: status, msg: msg}
}

func (e *Error) Error() string {
	return e.msg
}

var (
	ErrNotFound           = NewError(StatusNotFound, "not found")
	ErrInvalidAccount     = NewError(StatusInvalidAccount, "invalid account")
	ErrDuplicateAccount   = NewError(StatusDuplicateAccount, "duplicate account")
	ErrBufferOverflow     = NewError(StatusBufferOverflow, "buffer overflow")
	ErrArgsTooLarge       = NewError(StatusArgsTooLarge, "args too large")
	ErrReturnDataTooLarge = NewError(StatusReturnDataTooLarge, "return data too large")
	ErrInvalidScript      = NewError(StatusInvalidScript, "invalid script")
	ErrContextClosed      = NewError(StatusContextClosed, "context closed")
)

// StatusOf maps an error returned by a syscall to its status code.
//
// A nil error is StatusOK. Errors outside the taxonomy, for example failures
// of the underlying store, map to StatusInternal.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	var statusErr *Error
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return StatusInternal
}

// IsEngineFault reports whether err aborts the running transaction.
func IsEngineFault(err error) bool {
	return err != nil && StatusOf(err).IsEngineFault()
}
