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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/godwoken/gw-emulator/types"
)

const metricsNamespace = "gw_emulator"

var (
	syscallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "syscalls_total",
		Help:      "Syscalls served, by syscall and status.",
	}, []string{"syscall", "status"})

	transactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "transactions_total",
		Help:      "Executed transactions, by outcome.",
	}, []string{"outcome"})

	blocksCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "blocks_committed_total",
		Help:      "Committed blocks.",
	})
)

func observeTransaction(result *types.TransactionResult) {
	switch {
	case result.Faulted:
		transactionsTotal.WithLabelValues("faulted").Inc()
	case result.Succeeded():
		transactionsTotal.WithLabelValues("succeeded").Inc()
	default:
		transactionsTotal.WithLabelValues("reverted").Inc()
	}
}
