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
	"sync"
	"time"
)

// Check is a heartbeat style liveness reporter for one named component.
//
// IsLive must be safe to call concurrently with CheckIn.
type Check interface {
	Name() string
	CheckIn()
	LastCheckIn() time.Time
	IsLive(time.Duration) bool
}

type heartbeat struct {
	lock        sync.RWMutex
	name        string
	lastCheckIn time.Time
	tolerance   time.Duration
}

func (c *heartbeat) Name() string {
	return c.name
}

// CheckIn records a heartbeat at the current time.
func (c *heartbeat) CheckIn() {
	c.lock.Lock()
	c.lastCheckIn = time.Now()
	c.lock.Unlock()
}

func (c *heartbeat) LastCheckIn() time.Time {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lastCheckIn
}

// IsLive reports whether the last heartbeat is within tolerance.
//
// If tolerance is 0, the check's own tolerance is used.
func (c *heartbeat) IsLive(tolerance time.Duration) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	if tolerance == 0 {
		tolerance = c.tolerance
	}

	return c.lastCheckIn.Add(tolerance).After(time.Now())
}
