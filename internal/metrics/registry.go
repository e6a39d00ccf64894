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
	"fmt"
	"sync"
)

// Registry holds a named set of metrics and lets a collector enumerate them.
type Registry interface {
	Each(func(name string, metric interface{}))
	Get(name string) interface{}
	GetOrRegister(name string, metric interface{}) interface{}
	Register(name string, metric interface{}) error
	Unregister(name string)
}

// NewRegistry constructs a new, empty Registry.
func NewRegistry() Registry {
	return &standardRegistry{metrics: make(map[string]interface{})}
}

// DefaultRegistry is the process-wide registry used when callers pass a
// nil Registry to a NewRegistered* constructor.
var DefaultRegistry = NewRegistry()

type standardRegistry struct {
	mu      sync.RWMutex
	metrics map[string]interface{}
}

func (r *standardRegistry) Each(f func(name string, metric interface{})) {
	r.mu.RLock()
	snapshot := make(map[string]interface{}, len(r.metrics))
	for k, v := range r.metrics {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for name, metric := range snapshot {
		f(name, metric)
	}
}

func (r *standardRegistry) Get(name string) interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metrics[name]
}

func (r *standardRegistry) GetOrRegister(name string, metric interface{}) interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.metrics[name]; ok {
		return existing
	}
	r.metrics[name] = metric
	return metric
}

func (r *standardRegistry) Register(name string, metric interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.metrics[name]; ok {
		return fmt.Errorf("metrics: %q already registered", name)
	}
	r.metrics[name] = metric
	return nil
}

func (r *standardRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.metrics, name)
}
