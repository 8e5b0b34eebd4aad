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
	"github.com/godwoken/gw-emulator/types"
)

// LogSink collects the records emitted by one execution context in emission
// order.
type LogSink struct {
	records []types.LogRecord
}

func NewLogSink() *LogSink {
	return &LogSink{records: make([]types.LogRecord, 0)}
}

func (s *LogSink) Append(record types.LogRecord) {
	data := make([]byte, len(record.Data))
	copy(data, record.Data)
	record.Data = data

	s.records = append(s.records, record)
}

// Records returns a copy of the emitted records.
func (s *LogSink) Records() []types.LogRecord {
	records := make([]types.LogRecord, len(s.records))
	for i, record := range s.records {
		data := make([]byte, len(record.Data))
		copy(data, record.Data)
		record.Data = data
		records[i] = record
	}
	return records
}

func (s *LogSink) Len() int {
	return len(s.records)
}
