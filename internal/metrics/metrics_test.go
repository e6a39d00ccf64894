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
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	c := NewCounter()
	c.Inc(3)
	c.Dec(1)
	if got := c.Snapshot().Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	c.Clear()
	if got := c.Snapshot().Count(); got != 0 {
		t.Fatalf("Count() after Clear() = %d, want 0", got)
	}
}

func TestGauge(t *testing.T) {
	g := NewGauge()
	g.Update(47)
	if got := g.Value(); got != 47 {
		t.Fatalf("Value() = %d, want 47", got)
	}
	snap := g.Snapshot()
	g.Update(0)
	if got := snap.Value(); got != 47 {
		t.Fatalf("snapshot Value() = %d, want 47 (should not reflect later update)", got)
	}
}

func TestTimer(t *testing.T) {
	tm := NewTimer()
	tm.Update(10 * time.Millisecond)
	tm.Update(20 * time.Millisecond)
	tm.Update(30 * time.Millisecond)

	snap := tm.Snapshot()
	if snap.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", snap.Count())
	}
	if snap.Min() != int64(10*time.Millisecond) {
		t.Fatalf("Min() = %d, want %d", snap.Min(), int64(10*time.Millisecond))
	}
	if snap.Max() != int64(30*time.Millisecond) {
		t.Fatalf("Max() = %d, want %d", snap.Max(), int64(30*time.Millisecond))
	}
	if want := float64(20 * time.Millisecond); snap.Mean() != want {
		t.Fatalf("Mean() = %v, want %v", snap.Mean(), want)
	}
}

func TestRegistryRegisterAndDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("foo", NewCounter()); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("foo", NewGauge()); err == nil {
		t.Fatal("expected error registering duplicate name")
	}

	seen := 0
	r.Each(func(name string, metric interface{}) {
		seen++
		if name != "foo" {
			t.Fatalf("unexpected name %q", name)
		}
	})
	if seen != 1 {
		t.Fatalf("Each() visited %d metrics, want 1", seen)
	}

	r.Unregister("foo")
	if r.Get("foo") != nil {
		t.Fatal("expected nil after Unregister")
	}
}

func TestGetOrRegisterCounter(t *testing.T) {
	r := NewRegistry()
	NewRegisteredCounter("requests", r).Inc(5)
	if got := GetOrRegisterCounter("requests", r).Snapshot().Count(); got != 5 {
		t.Fatalf("Count() = %d, want 5", got)
	}
}
