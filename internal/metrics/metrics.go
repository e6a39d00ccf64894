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

// Package metrics is a trimmed go-metrics-style registry: counters,
// gauges and timers that can be registered under a name in a Registry and
// enumerated for export. It exists so the store can report operation
// counts and latencies the way its teacher's transaction manager does,
// without pulling in a full metrics framework.
package metrics

// Enabled is a package-wide on/off flag. The constructors in this package
// do not read it: NewRegistered* and GetOrRegister* always construct and
// register their metric, whatever its value.
var Enabled = true
