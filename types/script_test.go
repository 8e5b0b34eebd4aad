package types

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptSerialization(t *testing.T) {

	t.Parallel()

	script := Script{
		CodeHash: HashData([]byte("code")),
		HashType: ScriptHashTypeType,
		Args:     []byte{1, 2, 3},
	}

	encoded := script.Serialize()
	assert.Len(t, encoded, 53+3)
	assert.Equal(t, uint32(len(encoded)), binary.LittleEndian.Uint32(encoded))

	decoded, err := DecodeScript(encoded)
	require.NoError(t, err)
	assert.Equal(t, script, decoded)
	assert.Equal(t, HashData(encoded), script.Hash())
}

func TestScriptWithEmptyArgs(t *testing.T) {

	t.Parallel()

	script := Script{CodeHash: HashData([]byte("code")), Args: []byte{}}

	decoded, err := DecodeScript(script.Serialize())
	require.NoError(t, err)
	assert.Equal(t, script, decoded)
}

func TestDecodeMalformedScript(t *testing.T) {

	t.Parallel()

	valid := Script{CodeHash: HashData([]byte("code")), Args: []byte{7}}.Serialize()

	t.Run("TooShort", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeScript(valid[:20])
		assert.Error(t, err)
	})

	t.Run("TotalSizeMismatch", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeScript(append(append([]byte{}, valid...), 0))
		assert.Error(t, err)
	})

	t.Run("ArgsLengthMismatch", func(t *testing.T) {
		t.Parallel()

		broken := append([]byte{}, valid...)
		binary.LittleEndian.PutUint32(broken[49:], 5)
		_, err := DecodeScript(broken)
		assert.Error(t, err)
	})

	t.Run("UnknownHashType", func(t *testing.T) {
		t.Parallel()

		broken := append([]byte{}, valid...)
		broken[48] = 9
		_, err := DecodeScript(broken)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeScript([]byte("this is definitely not a molecule script at all!!!!!"))
		assert.Error(t, err)
	})
}
