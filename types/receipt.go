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

// CallReceipt holds the return data of one call.
type CallReceipt struct {
	returnData *Buffer
}

func NewCallReceipt() *CallReceipt {
	return &CallReceipt{
		returnData: NewBufferWithError(MaxReturnDataSize, ErrReturnDataTooLarge),
	}
}

// SetReturnData replaces the return data. Payloads above MaxReturnDataSize
// fail with ErrReturnDataTooLarge and leave the previous value readable.
func (r *CallReceipt) SetReturnData(data []byte) error {
	return r.returnData.Set(data)
}

func (r *CallReceipt) ReturnData() []byte {
	return r.returnData.Bytes()
}

func (r *CallReceipt) ReturnDataLen() uint32 {
	return uint32(r.returnData.Len())
}
