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
	"fmt"

	"github.com/holiman/uint256"
)

// Service flags tag a log record with the layout of its payload.
const (
	LogSUDTTransfer     uint8 = 0x0
	LogSUDTPayFee       uint8 = 0x1
	LogPolyjuiceSystem  uint8 = 0x2
	LogPolyjuiceUser    uint8 = 0x3
	LogGeneric          uint8 = 0xff
	sudtLogDataSize           = 4 + 4 + 16
	polyjuiceSystemSize       = 8 + 8 + 4 + 4 + 4
)

// LogRecord is an event emitted by contract code.
type LogRecord struct {
	AccountID   AccountID `json:"accountId"`
	ServiceFlag uint8     `json:"serviceFlag"`
	Data        []byte    `json:"data"`
}

func (l LogRecord) String() string {
	return fmt.Sprintf("account=%d flag=%#x data=%x", l.AccountID, l.ServiceFlag, l.Data)
}

// SUDTTransferLog is the payload of LogSUDTTransfer and LogSUDTPayFee
// records. For a fee log, To is the block producer.
type SUDTTransferLog struct {
	SUDTID AccountID
	From   AccountID
	To     AccountID
	Amount *uint256.Int
}

// PolyjuiceSystemLog is the payload of LogPolyjuiceSystem records.
type PolyjuiceSystemLog struct {
	GasUsed           uint64
	CumulativeGasUsed uint64
	CreatedID         AccountID
	StatusCode        uint32
}

// PolyjuiceUserLog is the payload of LogPolyjuiceUser records.
type PolyjuiceUserLog struct {
	Address [20]byte
	Data    []byte
	Topics  []Hash
}

// EncodeSUDTLog builds the payload of a SUDT transfer or fee record:
// from (u32 LE) | to (u32 LE) | amount (u128 LE).
func EncodeSUDTLog(from, to AccountID, amount *uint256.Int) ([]byte, error) {
	if amount.BitLen() > 128 {
		return nil, fmt.Errorf("amount %s exceeds 128 bits", amount.ToBig().String())
	}
	data := make([]byte, sudtLogDataSize)
	binary.LittleEndian.PutUint32(data[0:], uint32(from))
	binary.LittleEndian.PutUint32(data[4:], uint32(to))
	be := amount.Bytes32()
	for i := 0; i < 16; i++ {
		data[8+i] = be[31-i]
	}
	return data, nil
}

// ParseLog decodes the payload of a record with a well-known service flag.
// It returns one of *SUDTTransferLog, *PolyjuiceSystemLog or
// *PolyjuiceUserLog.
func ParseLog(record LogRecord) (interface{}, error) {
	data := record.Data
	switch record.ServiceFlag {
	case LogSUDTTransfer, LogSUDTPayFee:
		if len(data) != sudtLogDataSize {
			return nil, fmt.Errorf("invalid sudt log data length: %d", len(data))
		}
		var be [32]byte
		for i := 0; i < 16; i++ {
			be[31-i] = data[8+i]
		}
		return &SUDTTransferLog{
			SUDTID: record.AccountID,
			From:   AccountID(binary.LittleEndian.Uint32(data[0:])),
			To:     AccountID(binary.LittleEndian.Uint32(data[4:])),
			Amount: new(uint256.Int).SetBytes(be[:]),
		}, nil

	case LogPolyjuiceSystem:
		if len(data) != polyjuiceSystemSize {
			return nil, fmt.Errorf("invalid system log data length: %d", len(data))
		}
		return &PolyjuiceSystemLog{
			GasUsed:           binary.LittleEndian.Uint64(data[0:]),
			CumulativeGasUsed: binary.LittleEndian.Uint64(data[8:]),
			CreatedID:         AccountID(binary.LittleEndian.Uint32(data[16:])),
			StatusCode:        binary.LittleEndian.Uint32(data[20:]),
		}, nil

	case LogPolyjuiceUser:
		return parsePolyjuiceUserLog(data)

	default:
		return nil, fmt.Errorf("invalid log service flag: %d", record.ServiceFlag)
	}
}

func parsePolyjuiceUserLog(data []byte) (*PolyjuiceUserLog, error) {
	var log PolyjuiceUserLog
	offset := 0

	if len(data) < 20+4 {
		return nil, fmt.Errorf("invalid user log data length: %d", len(data))
	}
	copy(log.Address[:], data[:20])
	offset += 20

	dataSize := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if len(data)-offset < dataSize+4 {
		return nil, fmt.Errorf("user log data size %d overruns payload", dataSize)
	}
	log.Data = make([]byte, dataSize)
	copy(log.Data, data[offset:offset+dataSize])
	offset += dataSize

	topicsCount := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if len(data)-offset != topicsCount*HashLength {
		return nil, fmt.Errorf(
			"user log topics mismatch: %d topics, %d bytes remaining",
			topicsCount,
			len(data)-offset,
		)
	}
	log.Topics = make([]Hash, topicsCount)
	for i := range log.Topics {
		log.Topics[i] = BytesToHash(data[offset : offset+HashLength])
		offset += HashLength
	}

	return &log, nil
}
