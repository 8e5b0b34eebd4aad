package meta_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/programs/meta"
	"github.com/godwoken/gw-emulator/types"
	"github.com/godwoken/gw-emulator/utils/unittest"
)

const (
	userID types.AccountID = 1
	metaID types.AccountID = 2
)

func setupBlockchain(t *testing.T) *emulator.Blockchain {
	registry := emulator.NewRegistry()
	meta.Register(registry)

	b, err := emulator.New(
		emulator.WithPrograms(registry),
		emulator.WithClock(emulator.FixedClock{Time: time.Unix(0, 0)}),
		emulator.WithGenesisScripts(
			unittest.UserScriptFixture(1),
			unittest.ScriptFixture(meta.CodeHash, 0),
		),
	)
	require.NoError(t, err)
	return b
}

func TestCreateAccount(t *testing.T) {

	t.Parallel()

	b := setupBlockchain(t)
	script := unittest.UserScriptFixture(50)

	require.NoError(t, b.AddTransaction(types.Transaction{FromID: userID, ToID: metaID, Nonce: 0, Args: script}))
	_, results, err := b.ExecuteAndCommitBlock()
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.True(t, results[0].Succeeded())

	id, err := types.AccountIDFromBytes(results[0].ReturnData)
	require.NoError(t, err)
	assert.Equal(t, types.AccountID(3), id)

	account, err := b.GetAccount(id)
	require.NoError(t, err)
	assert.Equal(t, types.HashData(script), account.ScriptHash)
	assert.Equal(t, unittest.UserCodeHash, account.CodeHash)
}

func TestCreateDuplicateAccount(t *testing.T) {

	t.Parallel()

	b := setupBlockchain(t)

	// the user's own script is already registered
	require.NoError(t, b.AddTransaction(types.Transaction{FromID: userID, ToID: metaID, Args: unittest.UserScriptFixture(1)}))
	_, results, err := b.ExecuteAndCommitBlock()
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.True(t, results[0].Reverted())
	assert.False(t, results[0].Faulted)
	assert.Equal(t, int32(types.StatusDuplicateAccount), results[0].ExitCode)
}

func TestCreateInvalidScript(t *testing.T) {

	t.Parallel()

	b := setupBlockchain(t)

	require.NoError(t, b.AddTransaction(types.Transaction{FromID: userID, ToID: metaID, Args: []byte{0xde, 0xad}}))
	_, results, err := b.ExecuteAndCommitBlock()
	require.NoError(t, err)

	assert.Equal(t, int32(types.StatusInvalidScript), results[0].ExitCode)

	_, err = b.GetAccount(3)
	assert.IsType(t, &emulator.AccountNotFoundError{}, err)
}
