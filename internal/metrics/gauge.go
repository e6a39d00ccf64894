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

// GaugeSnapshot is a read-only, point-in-time view of a Gauge.
type GaugeSnapshot interface {
	Value() int64
}

// Gauge holds a single mutable int64 value, e.g. the connection pool's
// current in-use handle count.
type Gauge interface {
	Update(int64)
	Value() int64
	Snapshot() GaugeSnapshot
}

// NewGauge constructs a new standalone Gauge.
func NewGauge() Gauge { return &standardGauge{} }

// NewRegisteredGauge constructs and registers a new Gauge under name.
func NewRegisteredGauge(name string, r Registry) Gauge {
	g := NewGauge()
	if r == nil {
		r = DefaultRegistry
	}
	r.Register(name, g)
	return g
}

// GetOrRegisterGauge returns the Gauge registered under name, creating and
// registering one if it does not already exist.
func GetOrRegisterGauge(name string, r Registry) Gauge {
	if r == nil {
		r = DefaultRegistry
	}
	return r.GetOrRegister(name, NewGauge()).(Gauge)
}

type standardGauge struct {
	value int64
}

func (g *standardGauge) Update(v int64) { atomic.StoreInt64(&g.value, v) }
func (g *standardGauge) Value() int64   { return atomic.LoadInt64(&g.value) }

func (g *standardGauge) Snapshot() GaugeSnapshot {
	return gaugeSnapshot(atomic.LoadInt64(&g.value))
}

type gaugeSnapshot int64

func (s gaugeSnapshot) Value() int64 { return int64(s) }
