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


package server

import (
	"time"

	"github.com/sirupsen/logrus"

	emulator "github.com/godwoken/gw-emulator"
	"github.com/godwoken/gw-emulator/server/liveness"
)

// BlocksTicker executes and commits the pending block every block time.
// Each successful commit checks in with the liveness collector.
type BlocksTicker struct {
	logger     *logrus.Logger
	blockchain *emulator.Blockchain
	check      liveness.Check
	ticker     *time.Ticker
	done       chan bool
}

func NewBlocksTicker(
	logger *logrus.Logger,
	blockchain *emulator.Blockchain,
	collector *liveness.CheckCollector,
	blockTime time.Duration,
) *BlocksTicker {
	return &BlocksTicker{
		logger:     logger,
		blockchain: blockchain,
		// a block may take a full interval to arrive
		check:  collector.NewCheck("blocks", 2*blockTime),
		ticker: time.NewTicker(blockTime),
		done:   make(chan bool, 1),
	}
}

func (t *BlocksTicker) Start() error {
	for {
		select {
		case <-t.ticker.C:
			t.commitBlock()
		case <-t.done:
			return nil
		}
	}
}

func (t *BlocksTicker) Stop() {
	t.ticker.Stop()
	t.done <- true
}

func (t *BlocksTicker) commitBlock() {
	block, results, err := t.blockchain.ExecuteAndCommitBlock()
	if err != nil {
		t.logger.WithError(err).Error("❗  Failed to commit block")
		return
	}

	t.check.CheckIn()

	t.logger.WithFields(logrus.Fields{
		"blockNumber":  block.Number,
		"blockHash":    block.Hash().String(),
		"transactions": len(results),
	}).Debugf("📦  Block #%d committed", block.Number)
}
