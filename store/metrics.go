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

package store

import "github.com/txcoord/tcstore/internal/metrics"

// Package-level metrics, registered against the default registry the way
// the pack's Redis-backed transaction manager registers its own timers
// and counters at init.
var (
	writeTimer           = metrics.NewRegisteredTimer("store/write", nil)
	readTimer            = metrics.NewRegisteredTimer("store/read", nil)
	writeErrorCounter    = metrics.NewRegisteredCounter("store/write_errors", nil)
	compensationFailures = metrics.NewRegisteredCounter("store/compensation_failures", nil)
	conflictCounter      = metrics.NewRegisteredCounter("store/update_conflicts", nil)
)
