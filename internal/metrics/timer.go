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

import (
	"math"
	"sync"
	"time"
)

// TimerSnapshot is a read-only, point-in-time view of a Timer's
// accumulated samples.
type TimerSnapshot interface {
	Count() int64
	Min() int64
	Max() int64
	Mean() float64
	StdDev() float64
}

// Timer tracks the count and duration of events, e.g. one backing-store
// round trip. Update takes a duration directly; UpdateSince is a
// convenience for the common defer-timer.UpdateSince(time.Now()) idiom.
type Timer interface {
	Update(time.Duration)
	UpdateSince(time.Time)
	Snapshot() TimerSnapshot
}

// maxTimerSamples caps the number of raw samples retained per Timer so a
// hot path can't grow it unbounded; beyond the cap the oldest sample is
// evicted, trading long-tail precision for bounded memory.
const maxTimerSamples = 1024

// NewTimer constructs a new standalone Timer.
func NewTimer() Timer { return &standardTimer{} }

// NewRegisteredTimer constructs and registers a new Timer under name.
func NewRegisteredTimer(name string, r Registry) Timer {
	tm := NewTimer()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, tm)
	return tm
}

// GetOrRegisterTimer returns the Timer registered under name, creating and
// registering one if it does not already exist.
func GetOrRegisterTimer(name string, r Registry) Timer {
	if r == nil {
		r = DefaultRegistry
	}
	return r.GetOrRegister(name, NewTimer()).(Timer)
}

type standardTimer struct {
	mu      sync.Mutex
	samples []int64 // nanoseconds, ring-bounded at maxTimerSamples
	next    int
	count   int64
	sum     int64
	min     int64
	max     int64
}

func (t *standardTimer) Update(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ns := int64(d)
	if t.count == 0 {
		t.min, t.max = ns, ns
	} else {
		if ns < t.min {
			t.min = ns
		}
		if ns > t.max {
			t.max = ns
		}
	}
	t.sum += ns
	t.count++

	if len(t.samples) < maxTimerSamples {
		t.samples = append(t.samples, ns)
	} else {
		t.samples[t.next] = ns
		t.next = (t.next + 1) % maxTimerSamples
	}
}

func (t *standardTimer) UpdateSince(start time.Time) { t.Update(time.Since(start)) }

func (t *standardTimer) Snapshot() TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	mean := 0.0
	if t.count > 0 {
		mean = float64(t.sum) / float64(t.count)
	}

	var variance float64
	if n := len(t.samples); n > 0 {
		var sq float64
		for _, s := range t.samples {
			d := float64(s) - mean
			sq += d * d
		}
		variance = sq / float64(n)
	}

	return timerSnapshot{
		count:  t.count,
		min:    t.min,
		max:    t.max,
		mean:   mean,
		stdDev: math.Sqrt(variance),
	}
}

type timerSnapshot struct {
	count        int64
	min, max     int64
	mean, stdDev float64
}

func (s timerSnapshot) Count() int64    { return s.count }
func (s timerSnapshot) Min() int64      { return s.min }
func (s timerSnapshot) Max() int64      { return s.max }
func (s timerSnapshot) Mean() float64   { return s.mean }
func (s timerSnapshot) StdDev() float64 { return s.stdDev }
