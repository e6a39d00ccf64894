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

// Package store implements the transaction session store: key layout,
// a pooled connection source, the global/branch record codec, the write
// engine (insert/update/delete with compensating rollback), and the query
// engine (lookup by identity, status, and page).
package store

import (
	"strconv"

	"github.com/txcoord/tcstore/session"
)

// Key prefixes are fixed across versions; changing any of them breaks
// downgrade compatibility with data written by an older build (spec §4.1).
const (
	globalPrefix   = "global:"
	branchPrefix   = "branch:"
	branchesPrefix = "branches:"
	statusPrefix   = "status:"
)

// globalKey is the hash key holding one GlobalSession.
func globalKey(transactionID int64) string {
	return globalPrefix + strconv.FormatInt(transactionID, 10)
}

// branchKey is the hash key holding one BranchSession.
func branchKey(branchID int64) string {
	return branchPrefix + strconv.FormatInt(branchID, 10)
}

// branchListKey is the list of branchKeys belonging to xid, in
// registration order.
func branchListKey(xid string) string {
	return branchesPrefix + xid
}

// statusListKey is the list of xids currently in status, in entry-time
// order.
func statusListKey(status session.GlobalStatus) string {
	return statusPrefix + strconv.FormatInt(int64(status), 10)
}

// globalScanPattern is the wildcard pattern used for cursor-based
// enumeration of every GlobalSession hash.
const globalScanPattern = globalPrefix + "*"

// transactionIDFromGlobalKey reverses globalKey, used when decoding keys
// returned by a SCAN over globalScanPattern.
func transactionIDFromGlobalKey(key string) (int64, bool) {
	if len(key) <= len(globalPrefix) || key[:len(globalPrefix)] != globalPrefix {
		return 0, false
	}
	tid, err := strconv.ParseInt(key[len(globalPrefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return tid, true
}
