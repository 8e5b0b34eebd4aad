package types

import (
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSUDTLogRoundTrip(t *testing.T) {

	t.Parallel()

	amount := uint256.NewInt(1_000_000)
	data, err := EncodeSUDTLog(3, 4, amount)
	require.NoError(t, err)
	require.Len(t, data, 24)

	parsed, err := ParseLog(LogRecord{AccountID: 2, ServiceFlag: LogSUDTTransfer, Data: data})
	require.NoError(t, err)

	transfer, ok := parsed.(*SUDTTransferLog)
	require.True(t, ok)
	assert.Equal(t, AccountID(2), transfer.SUDTID)
	assert.Equal(t, AccountID(3), transfer.From)
	assert.Equal(t, AccountID(4), transfer.To)
	assert.True(t, amount.Eq(transfer.Amount))
}

func TestEncodeSUDTLogRejectsWideAmounts(t *testing.T) {

	t.Parallel()

	amount := new(uint256.Int).Lsh(uint256.NewInt(1), 130)
	_, err := EncodeSUDTLog(1, 2, amount)
	assert.Error(t, err)
}

func TestParsePolyjuiceLogs(t *testing.T) {

	t.Parallel()

	t.Run("System", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 28)
		binary.LittleEndian.PutUint64(data[0:], 21000)
		binary.LittleEndian.PutUint64(data[8:], 42000)
		binary.LittleEndian.PutUint32(data[16:], 7)
		binary.LittleEndian.PutUint32(data[20:], 0)

		parsed, err := ParseLog(LogRecord{ServiceFlag: LogPolyjuiceSystem, Data: data})
		require.NoError(t, err)
		assert.Equal(t, &PolyjuiceSystemLog{
			GasUsed:           21000,
			CumulativeGasUsed: 42000,
			CreatedID:         7,
		}, parsed)
	})

	t.Run("User", func(t *testing.T) {
		t.Parallel()

		topic := HashData([]byte("Transfer(address,address,uint256)"))

		data := make([]byte, 0)
		data = append(data, make([]byte, 20)...)
		data[0] = 0xEE
		data = binary.LittleEndian.AppendUint32(data, 2)
		data = append(data, 0xCA, 0xFE)
		data = binary.LittleEndian.AppendUint32(data, 1)
		data = append(data, topic[:]...)

		parsed, err := ParseLog(LogRecord{ServiceFlag: LogPolyjuiceUser, Data: data})
		require.NoError(t, err)

		user := parsed.(*PolyjuiceUserLog)
		assert.Equal(t, byte(0xEE), user.Address[0])
		assert.Equal(t, []byte{0xCA, 0xFE}, user.Data)
		assert.Equal(t, []Hash{topic}, user.Topics)
	})

	t.Run("UserTrailingBytes", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 20)
		data = binary.LittleEndian.AppendUint32(data, 0)
		data = binary.LittleEndian.AppendUint32(data, 0)
		data = append(data, 0x01)

		_, err := ParseLog(LogRecord{ServiceFlag: LogPolyjuiceUser, Data: data})
		assert.Error(t, err)
	})

	t.Run("UnknownFlag", func(t *testing.T) {
		t.Parallel()

		_, err := ParseLog(LogRecord{ServiceFlag: LogGeneric, Data: []byte{1}})
		assert.Error(t, err)
	})
}
