package state_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godwoken/gw-emulator/state"
	"github.com/godwoken/gw-emulator/types"
)

func TestAccounts(t *testing.T) {

	t.Parallel()

	t.Run("create assigns dense ids from one", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())

		for i := 1; i <= 3; i++ {
			id, err := accounts.Create(testScript(byte(i)))
			require.NoError(t, err)
			assert.Equal(t, types.AccountID(i), id)
		}
	})

	t.Run("create is a bijection", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())
		script := testScript(1, 2, 3)

		id, err := accounts.Create(script)
		require.NoError(t, err)

		hash, err := accounts.ScriptHashByID(id)
		require.NoError(t, err)
		assert.Equal(t, types.HashData(script), hash)

		gotID, err := accounts.IDByScriptHash(hash)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)
	})

	t.Run("duplicate script", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())

		_, err := accounts.Create(testScript(7))
		require.NoError(t, err)

		_, err = accounts.Create(testScript(7))
		assert.ErrorIs(t, err, types.ErrDuplicateAccount)
		assert.Equal(t, types.StatusDuplicateAccount, types.StatusOf(err))

		exists, err := accounts.Exists(2)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("invalid script", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())

		_, err := accounts.Create([]byte{0x01, 0x02})
		assert.ErrorIs(t, err, types.ErrInvalidScript)
	})

	t.Run("lookups of unknown accounts", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())

		_, err := accounts.IDByScriptHash(types.HashData([]byte("nobody")))
		assert.ErrorIs(t, err, types.ErrNotFound)

		_, err = accounts.ScriptHashByID(5)
		assert.ErrorIs(t, err, types.ErrNotFound)

		_, err = accounts.Nonce(5)
		assert.ErrorIs(t, err, types.ErrInvalidAccount)

		_, err = accounts.Script(5, 0, 10)
		assert.ErrorIs(t, err, types.ErrInvalidAccount)

		exists, err := accounts.Exists(types.NoAccount)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("nonce", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())
		id, err := accounts.Create(testScript(1))
		require.NoError(t, err)

		nonce, err := accounts.Nonce(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), nonce)

		require.NoError(t, accounts.IncrementNonce(id))
		require.NoError(t, accounts.IncrementNonce(id))

		nonce, err = accounts.Nonce(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(2), nonce)

		value, err := accounts.NonceValue(id)
		require.NoError(t, err)
		assert.Equal(t, types.NonceToValue(2), value)
		assert.Equal(t, byte(2), value[0])
	})

	t.Run("nonce never wraps", func(t *testing.T) {
		t.Parallel()

		view := emptyView()
		accounts := state.NewAccounts(view)
		id, err := accounts.Create(testScript(1))
		require.NoError(t, err)

		view.SetValue(state.AccountFieldKey(id, state.FieldNonce), types.NonceToValue(math.MaxUint32-1))
		require.NoError(t, accounts.IncrementNonce(id))

		err = accounts.IncrementNonce(id)
		assert.ErrorIs(t, err, state.ErrNonceExhausted)

		nonce, err := accounts.Nonce(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(math.MaxUint32), nonce)
	})

	t.Run("script partial reads", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())
		script := testScript(1, 2, 3, 4)
		id, err := accounts.Create(script)
		require.NoError(t, err)

		full, err := accounts.Script(id, 0, uint32(len(script)))
		require.NoError(t, err)
		assert.Equal(t, script, full)

		tail, err := accounts.Script(id, uint32(len(script)-2), 100)
		require.NoError(t, err)
		assert.Equal(t, []byte{3, 4}, tail)

		past, err := accounts.Script(id, uint32(len(script)+10), 100)
		require.NoError(t, err)
		assert.Empty(t, past)
	})

	t.Run("metadata fields", func(t *testing.T) {
		t.Parallel()

		accounts := state.NewAccounts(emptyView())
		id, err := accounts.Create(testScript(1))
		require.NoError(t, err)

		codeHash, err := accounts.CodeHash(id)
		require.NoError(t, err)
		assert.Equal(t, testCodeHash, codeHash)

		pubkeyHash := types.HashData([]byte("pubkey"))
		require.NoError(t, accounts.SetPubkeyHash(id, pubkeyHash))

		account, err := accounts.Account(id)
		require.NoError(t, err)
		assert.Equal(t, pubkeyHash, account.PubkeyHash)
		assert.Equal(t, codeHash, account.CodeHash)
		assert.Equal(t, uint32(0), account.Nonce)

		assert.ErrorIs(t, accounts.SetPubkeyHash(9, pubkeyHash), types.ErrInvalidAccount)
	})
}

func TestKV(t *testing.T) {

	t.Parallel()

	view := emptyView()
	accounts := state.NewAccounts(view)
	kv := state.NewKV(view)

	a, err := accounts.Create(testScript(1))
	require.NoError(t, err)
	b, err := accounts.Create(testScript(2))
	require.NoError(t, err)

	key := types.BytesToHash(repeat(0x01))
	value := types.BytesToHash(repeat(0xAA))

	t.Run("never stored keys read as zero", func(t *testing.T) {
		got, err := kv.Load(a, key)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, kv.Store(a, key, types.HashData([]byte("first"))))
		require.NoError(t, kv.Store(a, key, value))

		got, err := kv.Load(a, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("accounts are isolated", func(t *testing.T) {
		got, err := kv.Load(b, key)
		require.NoError(t, err)
		assert.True(t, got.IsZero())
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := kv.Load(99, key)
		assert.ErrorIs(t, err, types.ErrInvalidAccount)
		assert.ErrorIs(t, kv.Store(99, key, value), types.ErrInvalidAccount)
	})
}

func repeat(b byte) []byte {
	out := make([]byte, types.KeySize)
	for i := range out {
		out[i] = b
	}
	return out
}
