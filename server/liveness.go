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
	"net/http"
	"time"

	"github.com/godwoken/gw-emulator/server/liveness"
)

// LivenessTicker checks in a "server" heartbeat while the group is running
// and serves the liveness report of every registered check.
type LivenessTicker struct {
	collector *liveness.CheckCollector
	check     liveness.Check
	ticker    *time.Ticker
	done      chan bool
}

func NewLivenessTicker(tolerance time.Duration) *LivenessTicker {
	collector := liveness.NewCheckCollector(tolerance)

	return &LivenessTicker{
		collector: collector,
		check:     collector.NewCheck("server", 0),
		ticker:    time.NewTicker(tolerance / 2),
		done:      make(chan bool, 1),
	}
}

func (l *LivenessTicker) Start() error {
	l.check.CheckIn()

	for {
		select {
		case <-l.ticker.C:
			l.check.CheckIn()
		case <-l.done:
			return nil
		}
	}
}

func (l *LivenessTicker) Stop() {
	l.ticker.Stop()
	l.done <- true
}

// Collector returns the collector other routines register their checks with.
func (l *LivenessTicker) Collector() *liveness.CheckCollector {
	return l.collector
}

func (l *LivenessTicker) Handler() http.Handler {
	return l.collector
}
