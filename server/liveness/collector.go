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


package liveness

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

const (
	// DefaultTolerance is the default time allowed between heartbeats.
	DefaultTolerance = time.Second * 30

	// ToleranceHeader is the HTTP header name used to override every check's tolerance.
	ToleranceHeader = "X-Liveness-Tolerance"
)

// CheckStatus is the reported state of a single check.
type CheckStatus struct {
	Name        string    `json:"name"`
	LastCheckIn time.Time `json:"lastCheckIn"`
	Live        bool      `json:"live"`
}

// Report is the body served by a CheckCollector.
type Report struct {
	Live   bool          `json:"live"`
	Checks []CheckStatus `json:"checks"`
}

// CheckCollector produces named checks and is live only if all of them are.
//
// Each check may only be checked in by one goroutine. The collector itself
// may be used from many.
type CheckCollector struct {
	lock             sync.RWMutex
	defaultTolerance time.Duration
	checks           []Check
}

// NewCheckCollector creates a collector whose checks default to tolerance.
func NewCheckCollector(tolerance time.Duration) *CheckCollector {
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	return &CheckCollector{
		defaultTolerance: tolerance,
		checks:           make([]Check, 0, 2),
	}
}

// NewCheck returns a check that is live as of now. A zero tolerance uses
// the collector default.
func (c *CheckCollector) NewCheck(name string, tolerance time.Duration) Check {
	if tolerance == 0 {
		tolerance = c.defaultTolerance
	}

	check := &heartbeat{
		name:        name,
		tolerance:   tolerance,
		lastCheckIn: time.Now(),
	}

	c.Register(check)
	return check
}

// Register adds a check to the collector.
func (c *CheckCollector) Register(ck Check) {
	c.lock.Lock()
	c.checks = append(c.checks, ck)
	c.lock.Unlock()
}

// Status evaluates every check against tolerance, or against their own
// tolerance if it is 0.
func (c *CheckCollector) Status(tolerance time.Duration) Report {
	c.lock.RLock()
	defer c.lock.RUnlock()

	report := Report{
		Live:   true,
		Checks: make([]CheckStatus, 0, len(c.checks)),
	}

	for _, ck := range c.checks {
		live := ck.IsLive(tolerance)
		report.Checks = append(report.Checks, CheckStatus{
			Name:        ck.Name(),
			LastCheckIn: ck.LastCheckIn(),
			Live:        live,
		})
		report.Live = report.Live && live
	}

	return report
}

// IsLive reports whether all checks are live.
func (c *CheckCollector) IsLive(tolerance time.Duration) bool {
	return c.Status(tolerance).Live
}

func (c *CheckCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var tolerance time.Duration

	if toleranceStr := r.Header.Get(ToleranceHeader); toleranceStr != "" {
		var err error
		tolerance, err = time.ParseDuration(toleranceStr)
		if err != nil {
			http.Error(w, "Invalid tolerance: "+toleranceStr, http.StatusBadRequest)
			return
		}
	}

	report := c.Status(tolerance)

	w.Header().Set("Content-Type", "application/json")
	if !report.Live {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	_ = json.NewEncoder(w).Encode(report)
}
