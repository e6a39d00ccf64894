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

// Package session defines the wire-stable data model shared by every
// component of the store: the global/branch transaction status enums,
// branch type enum, xid encoding, and the GlobalSession/BranchSession
// record shapes. Nothing in this package talks to a backing store.
package session

import "strconv"

// GlobalStatus is the lifecycle state of a global transaction. The
// integer values are wire-stable: they are persisted in the backing
// store and MUST NOT be renumbered.
type GlobalStatus int32

const (
	UnKnown GlobalStatus = iota
	Begin
	Committing
	CommitRetrying
	Rollbacking
	RollbackRetrying
	TimeoutRollbacking
	TimeoutRollbackRetrying
	AsyncCommitting
	Committed
	CommitFailed
	Rollbacked
	RollbackFailed
	TimeoutRollbacked
	TimeoutRollbackFailed
	Finished
)

var globalStatusNames = map[GlobalStatus]string{
	UnKnown:                 "UnKnown",
	Begin:                   "Begin",
	Committing:              "Committing",
	CommitRetrying:          "CommitRetrying",
	Rollbacking:             "Rollbacking",
	RollbackRetrying:        "RollbackRetrying",
	TimeoutRollbacking:      "TimeoutRollbacking",
	TimeoutRollbackRetrying: "TimeoutRollbackRetrying",
	AsyncCommitting:         "AsyncCommitting",
	Committed:               "Committed",
	CommitFailed:            "CommitFailed",
	Rollbacked:              "Rollbacked",
	RollbackFailed:          "RollbackFailed",
	TimeoutRollbacked:       "TimeoutRollbacked",
	TimeoutRollbackFailed:   "TimeoutRollbackFailed",
	Finished:                "Finished",
}

func (s GlobalStatus) String() string {
	if name, ok := globalStatusNames[s]; ok {
		return name
	}
	return "GlobalStatus(" + strconv.Itoa(int(s)) + ")"
}

// BranchType identifies the resource-manager protocol a branch speaks.
type BranchType int32

const (
	AT BranchType = iota
	TCC
	SAGA
	XA
)

var branchTypeNames = map[BranchType]string{
	AT:   "AT",
	TCC:  "TCC",
	SAGA: "SAGA",
	XA:   "XA",
}

func (t BranchType) String() string {
	if name, ok := branchTypeNames[t]; ok {
		return name
	}
	return "BranchType(" + strconv.Itoa(int(t)) + ")"
}

// BranchStatus is the lifecycle state of a single branch transaction.
// Branches are not status-indexed (see spec §4.4 BRANCH_UPDATE), but the
// field still carries one of these wire-stable values.
type BranchStatus int32

const (
	BranchUnKnown BranchStatus = iota
	BranchRegistered
	BranchPhaseOneDone
	BranchPhaseOneFailed
	BranchPhaseOneTimeout
	BranchPhaseTwoCommitted
	BranchPhaseTwoCommitFailed
	BranchPhaseTwoRollbacked
	BranchPhaseTwoRollbackFailed
)
