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

package session

// GlobalSession is one global transaction record (spec §3 GlobalRecord).
type GlobalSession struct {
	XID             string
	TransactionID   int64
	Status          GlobalStatus
	ApplicationID   string
	ServiceGroup    string
	TxName          string
	Timeout         int64 // milliseconds
	BeginTime       int64 // epoch ms, immutable after insert
	ApplicationData string
	GmtCreate       int64 // epoch ms
	GmtModified     int64 // epoch ms
}

// BranchSession is one branch transaction record (spec §3 BranchRecord).
type BranchSession struct {
	BranchID        int64
	XID             string
	ResourceGroupID string
	ResourceID      string
	ClientID        string
	BranchType      BranchType
	Status          BranchStatus
	ApplicationData string
	GmtCreate       int64
	GmtModified     int64
}

// Aggregate is a GlobalSession together with its (optionally hydrated)
// BranchSessions, sorted ascending by BranchID.
type Aggregate struct {
	Global   *GlobalSession
	Branches []*BranchSession
}
