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

	"github.com/stretchr/testify/assert"

	"github.com/txcoord/tcstore/session"
)

func TestGlobalCodecRoundTrip(t *testing.T) {
	g := &session.GlobalSession{
		XID:           "1.1.1.1:8091:10",
		TransactionID: 10,
		Status:        session.Begin,
		ApplicationID: "order-service",
		ServiceGroup:  "my_tx_group",
		TxName:        "create-order",
		Timeout:       60000,
		BeginTime:     1700000000000,
		GmtCreate:     1700000000000,
		GmtModified:   1700000000000,
	}

	m := encodeGlobal(g)
	assert.Equal(t, "1.1.1.1:8091:10", m[fieldXID])
	assert.Equal(t, "1", m[fieldStatus])
	_, hasAppData := m[fieldApplicationData]
	assert.False(t, hasAppData, "empty ApplicationData must be omitted, not written as empty string")

	got := decodeGlobal(m)
	assert.Equal(t, g, got)
}

func TestGlobalCodecPreservesApplicationData(t *testing.T) {
	g := &session.GlobalSession{XID: "x", ApplicationData: "payload"}
	m := encodeGlobal(g)
	assert.Equal(t, "payload", m[fieldApplicationData])
	assert.Equal(t, "payload", decodeGlobal(m).ApplicationData)
}

func TestGlobalCodecToleratesUnknownFields(t *testing.T) {
	m := encodeGlobal(&session.GlobalSession{XID: "x", Status: session.Committed})
	m["futureField"] = "from-a-newer-build"
	got := decodeGlobal(m)
	assert.Equal(t, session.Committed, got.Status)
}

func TestGlobalCodecZeroesMissingFields(t *testing.T) {
	got := decodeGlobal(map[string]string{fieldXID: "x"})
	assert.Equal(t, "x", got.XID)
	assert.Equal(t, session.UnKnown, got.Status)
	assert.EqualValues(t, 0, got.Timeout)
}

func TestBranchCodecRoundTrip(t *testing.T) {
	b := &session.BranchSession{
		BranchID:        100,
		XID:             "1.1.1.1:8091:10",
		ResourceGroupID: "rg1",
		ResourceID:      "jdbc:mysql://db",
		ClientID:        "client-1",
		BranchType:      session.AT,
		Status:          session.BranchRegistered,
		GmtCreate:       1700000000000,
		GmtModified:     1700000000000,
	}
	m := encodeBranch(b)
	got := decodeBranch(m)
	assert.Equal(t, b, got)
}
