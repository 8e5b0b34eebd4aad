package emulator_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/types"
	"github.com/godwoken/gw-emulator/utils/unittest"
)

const (
	aggregatorID types.AccountID = 1
	userID       types.AccountID = 2
	programID    types.AccountID = 3
)

var testProgramCodeHash = types.HashData([]byte("test program"))

var testClock = emulator.FixedClock{Time: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)}

// setupBlockchain returns a chain whose genesis holds an aggregator, a user
// and an account running program.
func setupBlockchain(t *testing.T, program emulator.ProgramFunc, opts ...emulator.Option) *emulator.Blockchain {
	registry := emulator.NewRegistry()
	registry.Register(testProgramCodeHash, program)

	opts = append([]emulator.Option{
		emulator.WithPrograms(registry),
		emulator.WithClock(testClock),
		emulator.WithAggregator(aggregatorID),
		emulator.WithGenesisScripts(
			unittest.UserScriptFixture(1),
			unittest.UserScriptFixture(2),
			unittest.ScriptFixture(testProgramCodeHash, 3),
		),
	}, opts...)

	b, err := emulator.New(opts...)
	require.NoError(t, err)

	return b
}

func callProgram(nonce uint32, args []byte) types.Transaction {
	return types.Transaction{
		FromID: userID,
		ToID:   programID,
		Nonce:  nonce,
		Args:   args,
	}
}

// noop completes successfully without touching state.
func noop(sys emulator.Syscalls) int32 {
	return 0
}

// counter increments the value under key 0 of the program account and
// returns the new value.
func counter(sys emulator.Syscalls) int32 {
	self := sys.TransactionContext().ToID

	value, err := sys.Load(self, types.Hash{})
	if err != nil {
		return int32(types.StatusOf(err))
	}
	value[31]++

	if err := sys.Store(self, types.Hash{}, value); err != nil {
		return int32(types.StatusOf(err))
	}
	if err := sys.SetReturnData(value.Bytes()); err != nil {
		return int32(types.StatusOf(err))
	}
	return 0
}
