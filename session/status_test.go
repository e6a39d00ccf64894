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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGlobalStatusString(t *testing.T) {
	require.Equal(t, "Begin", Begin.String())
	require.Equal(t, "Finished", Finished.String())
	require.Equal(t, "GlobalStatus(99)", GlobalStatus(99).String())
}

func TestGlobalStatusWireValues(t *testing.T) {
	// These integers are persisted to the backing store; renumbering any
	// of them breaks every record already written under the old scheme.
	require.EqualValues(t, 0, UnKnown)
	require.EqualValues(t, 1, Begin)
	require.EqualValues(t, 9, Committed)
	require.EqualValues(t, 15, Finished)
}

func TestBranchTypeString(t *testing.T) {
	require.Equal(t, "AT", AT.String())
	require.Equal(t, "XA", XA.String())
	require.Equal(t, "BranchType(7)", BranchType(7).String())
}
