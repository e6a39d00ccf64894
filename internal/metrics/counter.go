// Copyright 2024 The tcstore Authors
// This file is part of the tcstore library.
//
// The tcstore library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The tcstore library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the tcstore library. If not, see <http://www.gnu.org/licenses/>.

package metrics

import "sync/atomic"

// CounterSnapshot is a read-only, point-in-time view of a Counter.
type CounterSnapshot interface {
	Count() int64
}

// Counter holds a monotonic-ish running total that can be incremented or
// decremented from multiple goroutines.
type Counter interface {
	Clear()
	Dec(int64)
	Inc(int64)
	Snapshot() CounterSnapshot
}

// NewCounter constructs a new standalone Counter.
func NewCounter() Counter { return &standardCounter{} }

// NewRegisteredCounter constructs and registers a new Counter under name.
func NewRegisteredCounter(name string, r Registry) Counter {
	c := NewCounter()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, c)
	return c
}

// GetOrRegisterCounter returns the Counter registered under name, creating
// and registering one if it does not already exist.
func GetOrRegisterCounter(name string, r Registry) Counter {
	if r == nil {
		r = DefaultRegistry
	}
	return r.GetOrRegister(name, NewCounter()).(Counter)
}

type standardCounter struct {
	count int64
}

func (c *standardCounter) Clear()     { atomic.StoreInt64(&c.count, 0) }
func (c *standardCounter) Dec(i int64) { atomic.AddInt64(&c.count, -i) }
func (c *standardCounter) Inc(i int64) { atomic.AddInt64(&c.count, i) }

func (c *standardCounter) Snapshot() CounterSnapshot {
	return counterSnapshot(atomic.LoadInt64(&c.count))
}

type counterSnapshot int64

func (s counterSnapshot) Count() int64 { return int64(s) }
