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

// Package sudt implements a simple user-defined token.
//
// Balances live in the storage of the token's own account, one slot per
// holder, as 32-byte big-endian integers. Amounts on the wire are 128-bit
// little-endian integers.
package sudt

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/types"
)

// CodeHash identifies token accounts in account scripts.
var CodeHash = types.HashData([]byte("gw-emulator/programs/sudt"))

// Operations, selected by the first byte of args.
const (
	OpQuery    byte = 0
	OpTransfer byte = 1
	OpMint     byte = 2
)

// Application exit codes.
const (
	ExitInvalidArgs         int32 = 1
	ExitInsufficientBalance int32 = 2
	ExitUnauthorized        int32 = 3
	ExitAmountOverflow      int32 = 4
	ExitUnknownAccount      int32 = 5
)

const amountSize = 16

var maxAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// BalanceKey is the storage key of holder's balance.
func BalanceKey(holder types.AccountID) types.Hash {
	return types.HashData(holder.Bytes())
}

// QueryArgs builds the args of a balance query. The balance is returned as
// 32 big-endian bytes.
func QueryArgs(holder types.AccountID) []byte {
	return append([]byte{OpQuery}, holder.Bytes()...)
}

// TransferArgs builds the args of a transfer from the sender to to. The fee
// is paid to the block aggregator.
func TransferArgs(to types.AccountID, amount, fee *uint256.Int) ([]byte, error) {
	args := append([]byte{OpTransfer}, to.Bytes()...)
	args, err := appendAmount(args, amount)
	if err != nil {
		return nil, err
	}
	return appendAmount(args, fee)
}

// MintArgs builds the args of a mint to to. Only the block aggregator may mint.
func MintArgs(to types.AccountID, amount *uint256.Int) ([]byte, error) {
	args := append([]byte{OpMint}, to.Bytes()...)
	return appendAmount(args, amount)
}

func appendAmount(args []byte, amount *uint256.Int) ([]byte, error) {
	if amount.Gt(maxAmount) {
		return nil, fmt.Errorf("amount %s does not fit in 128 bits", amount.ToBig().String())
	}
	be := amount.Bytes32()
	var le [amountSize]byte
	for i := 0; i < amountSize; i++ {
		le[i] = be[31-i]
	}
	return append(args, le[:]...), nil
}

func readAmount(b []byte) *uint256.Int {
	var be [amountSize]byte
	for i := 0; i < amountSize; i++ {
		be[amountSize-1-i] = b[i]
	}
	return new(uint256.Int).SetBytes(be[:])
}

// Program is the token contract.
type Program struct{}

var _ emulator.Program = Program{}

// errExit carries an application exit code out of a helper.
type errExit int32

func (e errExit) Error() string {
	return fmt.Sprintf("exit %d", int32(e))
}

func (Program) Run(sys emulator.Syscalls) int32 {
	args := sys.TransactionContext().Args()
	if len(args) < 1 {
		return ExitInvalidArgs
	}

	var err error
	switch args[0] {
	case OpQuery:
		err = query(sys, args[1:])
	case OpTransfer:
		err = transfer(sys, args[1:])
	case OpMint:
		err = mint(sys, args[1:])
	default:
		return ExitInvalidArgs
	}

	var exit errExit
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exit):
		return int32(exit)
	default:
		return int32(types.StatusOf(err))
	}
}

func query(sys emulator.Syscalls, args []byte) error {
	if len(args) != 4 {
		return errExit(ExitInvalidArgs)
	}
	holder := types.AccountID(binary.LittleEndian.Uint32(args))

	balance, err := sys.Load(sys.TransactionContext().ToID, BalanceKey(holder))
	if err != nil {
		return err
	}
	return sys.SetReturnData(balance.Bytes())
}

func transfer(sys emulator.Syscalls, args []byte) error {
	if len(args) != 4+2*amountSize {
		return errExit(ExitInvalidArgs)
	}
	to := types.AccountID(binary.LittleEndian.Uint32(args))
	amount := readAmount(args[4:])
	fee := readAmount(args[4+amountSize:])

	txCtx := sys.TransactionContext()
	token := txCtx.ToID
	from := txCtx.FromID
	aggregator := sys.BlockInfo().AggregatorID

	if err := mustExist(sys, to); err != nil {
		return err
	}
	if !fee.IsZero() && aggregator == types.NoAccount {
		return errExit(ExitInvalidArgs)
	}

	total, overflow := new(uint256.Int).AddOverflow(amount, fee)
	if overflow {
		return errExit(ExitAmountOverflow)
	}

	balance, err := balanceOf(sys, token, from)
	if err != nil {
		return err
	}
	if balance.Lt(total) {
		return errExit(ExitInsufficientBalance)
	}

	if err := sub(sys, token, from, total); err != nil {
		return err
	}
	if err := add(sys, token, to, amount); err != nil {
		return err
	}
	if !fee.IsZero() {
		if err := add(sys, token, aggregator, fee); err != nil {
			return err
		}
	}

	if err := emit(sys, token, types.LogSUDTTransfer, from, to, amount); err != nil {
		return err
	}
	if !fee.IsZero() {
		if err := emit(sys, token, types.LogSUDTPayFee, from, aggregator, fee); err != nil {
			return err
		}
	}
	return nil
}

func mint(sys emulator.Syscalls, args []byte) error {
	if len(args) != 4+amountSize {
		return errExit(ExitInvalidArgs)
	}
	to := types.AccountID(binary.LittleEndian.Uint32(args))
	amount := readAmount(args[4:])

	txCtx := sys.TransactionContext()
	aggregator := sys.BlockInfo().AggregatorID
	if aggregator == types.NoAccount || txCtx.FromID != aggregator {
		return errExit(ExitUnauthorized)
	}
	if err := mustExist(sys, to); err != nil {
		return err
	}

	if err := add(sys, txCtx.ToID, to, amount); err != nil {
		return err
	}
	return emit(sys, txCtx.ToID, types.LogSUDTTransfer, types.NoAccount, to, amount)
}

func mustExist(sys emulator.Syscalls, id types.AccountID) error {
	_, err := sys.GetScriptHashByAccountID(id)
	if errors.Is(err, types.ErrNotFound) {
		return errExit(ExitUnknownAccount)
	}
	return err
}

func balanceOf(sys emulator.Syscalls, token, holder types.AccountID) (*uint256.Int, error) {
	value, err := sys.Load(token, BalanceKey(holder))
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(value.Bytes()), nil
}

func setBalance(sys emulator.Syscalls, token, holder types.AccountID, balance *uint256.Int) error {
	return sys.Store(token, BalanceKey(holder), types.Hash(balance.Bytes32()))
}

func add(sys emulator.Syscalls, token, holder types.AccountID, amount *uint256.Int) error {
	balance, err := balanceOf(sys, token, holder)
	if err != nil {
		return err
	}
	if _, overflow := balance.AddOverflow(balance, amount); overflow || balance.Gt(maxAmount) {
		return errExit(ExitAmountOverflow)
	}
	return setBalance(sys, token, holder, balance)
}

func sub(sys emulator.Syscalls, token, holder types.AccountID, amount *uint256.Int) error {
	balance, err := balanceOf(sys, token, holder)
	if err != nil {
		return err
	}
	if balance.Lt(amount) {
		return errExit(ExitInsufficientBalance)
	}
	return setBalance(sys, token, holder, balance.Sub(balance, amount))
}

func emit(sys emulator.Syscalls, token types.AccountID, flag uint8, from, to types.AccountID, amount *uint256.Int) error {
	data, err := types.EncodeSUDTLog(from, to, amount)
	if err != nil {
		return err
	}
	return sys.Log(token, flag, data)
}

// Register binds the token contract to its code hash.
func Register(registry *emulator.Registry) {
	registry.Register(CodeHash, Program{})
}
