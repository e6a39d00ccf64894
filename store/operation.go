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

import "github.com/txcoord/tcstore/session"

// OperationKind tags a write request. The write path switches on Kind
// exhaustively rather than dispatching through a map of function values,
// so an unhandled kind is a compile-time-visible default case, not a
// silent map miss.
type OperationKind int

const (
	GlobalAdd OperationKind = iota
	GlobalUpdate
	GlobalRemove
	BranchAdd
	BranchUpdate
	BranchRemove
)

func (k OperationKind) String() string {
	switch k {
	case GlobalAdd:
		return "GLOBAL_ADD"
	case GlobalUpdate:
		return "GLOBAL_UPDATE"
	case GlobalRemove:
		return "GLOBAL_REMOVE"
	case BranchAdd:
		return "BRANCH_ADD"
	case BranchUpdate:
		return "BRANCH_UPDATE"
	case BranchRemove:
		return "BRANCH_REMOVE"
	default:
		return "UNKNOWN"
	}
}

// Operation is the tagged union writeSession dispatches on: exactly one
// of Global or Branch is populated, selected by Kind.
type Operation struct {
	Kind   OperationKind
	Global *session.GlobalSession
	Branch *session.BranchSession
}

// GlobalAddOp, GlobalUpdateOp and GlobalRemoveOp build the three global
// operation shapes; the Branch* counterparts build the branch ones.
func GlobalAddOp(g *session.GlobalSession) Operation {
	return Operation{Kind: GlobalAdd, Global: g}
}

func GlobalUpdateOp(g *session.GlobalSession) Operation {
	return Operation{Kind: GlobalUpdate, Global: g}
}

func GlobalRemoveOp(g *session.GlobalSession) Operation {
	return Operation{Kind: GlobalRemove, Global: g}
}

func BranchAddOp(b *session.BranchSession) Operation {
	return Operation{Kind: BranchAdd, Branch: b}
}

func BranchUpdateOp(b *session.BranchSession) Operation {
	return Operation{Kind: BranchUpdate, Branch: b}
}

func BranchRemoveOp(b *session.BranchSession) Operation {
	return Operation{Kind: BranchRemove, Branch: b}
}
