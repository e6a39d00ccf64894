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
	"testing"

	"github.com/txcoord/tcstore/session"
)

func TestKeyCodec(t *testing.T) {
	if got, want := globalKey(10), "global:10"; got != want {
		t.Errorf("globalKey(10) = %q, want %q", got, want)
	}
	if got, want := branchKey(100), "branch:100"; got != want {
		t.Errorf("branchKey(100) = %q, want %q", got, want)
	}
	if got, want := branchListKey("1.1.1.1:8091:10"), "branches:1.1.1.1:8091:10"; got != want {
		t.Errorf("branchListKey() = %q, want %q", got, want)
	}
	if got, want := statusListKey(session.Begin), "status:1"; got != want {
		t.Errorf("statusListKey(Begin) = %q, want %q", got, want)
	}
	if globalScanPattern != "global:*" {
		t.Errorf("globalScanPattern = %q", globalScanPattern)
	}
}

func TestTransactionIDFromGlobalKey(t *testing.T) {
	tid, ok := transactionIDFromGlobalKey("global:42")
	if !ok || tid != 42 {
		t.Fatalf("transactionIDFromGlobalKey(global:42) = (%d, %v)", tid, ok)
	}
	if _, ok := transactionIDFromGlobalKey("branch:42"); ok {
		t.Fatal("expected false for non-global key")
	}
	if _, ok := transactionIDFromGlobalKey("global:notanumber"); ok {
		t.Fatal("expected false for non-numeric suffix")
	}
}
