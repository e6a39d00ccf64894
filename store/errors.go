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

import (
	"fmt"
)

// Kind classifies a StoreError per the taxonomy of spec §7.
type Kind int

const (
	// KindNotFound: a read target, or prior state an update requires, is
	// absent. Returned as a value on reads; raised as an error only on
	// mutations that need prior state (e.g. GLOBAL_UPDATE, BRANCH_UPDATE).
	KindNotFound Kind = iota
	// KindConflict: an optimistic transaction aborted, or an index
	// inconsistency was detected. On GLOBAL_UPDATE this is swallowed and
	// reported as success by design (spec §4.4 step 5).
	KindConflict
	// KindBackingStore: a wire or protocol error talking to the backing
	// store.
	KindBackingStore
	// KindInvalidArgument: an unknown operation kind was requested, or an
	// xid passed to a read could not be parsed.
	KindInvalidArgument
	// KindInternal: a codec failure or other unrecoverable internal state.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindBackingStore:
		return "backing_store"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// StoreError is the store's single error type; callers discriminate on
// Kind rather than matching strings.
type StoreError struct {
	Kind Kind
	Op   string // operation that failed, e.g. "updateGlobal"
	Err  error  // wrapped cause, may be nil
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("store: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func newErr(op string, kind Kind, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// ErrNotFound, ErrConflict, ErrInvalidArgument, ErrBackingStore and
// ErrInternal are sentinels usable with errors.Is against any StoreError
// of the matching Kind, via StoreError's Is method.
var (
	ErrNotFound        = &StoreError{Kind: KindNotFound}
	ErrConflict        = &StoreError{Kind: KindConflict}
	ErrInvalidArgument = &StoreError{Kind: KindInvalidArgument}
	ErrBackingStore    = &StoreError{Kind: KindBackingStore}
	ErrInternal        = &StoreError{Kind: KindInternal}
)

// Is makes errors.Is(err, ErrNotFound) (etc.) match any StoreError sharing
// the same Kind, regardless of Op or wrapped cause.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
