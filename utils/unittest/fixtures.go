package unittest

import (
	"encoding/binary"

	"github.com/godwoken/gw-emulator/types"
)

// UserCodeHash is the code hash of plain user accounts in fixtures.
var UserCodeHash = types.HashData([]byte("user lock"))

// ScriptFixture returns a molecule-encoded script with the given code hash.
// The seed is written into the args so different seeds give different
// accounts.
func ScriptFixture(codeHash types.Hash, seed uint32) []byte {
	args := make([]byte, 4)
	binary.LittleEndian.PutUint32(args, seed)

	return types.Script{
		CodeHash: codeHash,
		HashType: types.ScriptHashTypeType,
		Args:     args,
	}.Serialize()
}

// UserScriptFixture returns the script of a plain user account.
func UserScriptFixture(seed uint32) []byte {
	return ScriptFixture(UserCodeHash, seed)
}

func TransactionFixture(n ...func(tx *types.Transaction)) types.Transaction {
	tx := types.Transaction{
		FromID: 1,
		ToID:   2,
		Nonce:  0,
		Args:   []byte{},
	}

	if len(n) > 0 {
		n[0](&tx)
	}

	return tx
}

// HashFixture returns a hash with every byte set to b.
func HashFixture(b byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = b
	}
	return h
}
