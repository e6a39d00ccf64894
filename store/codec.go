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
	"strconv"

	"github.com/txcoord/tcstore/session"
)

// Hash field names. These are part of the wire format: renaming one
// breaks every record already written under the old name.
const (
	fieldXID             = "xid"
	fieldTransactionID   = "transactionId"
	fieldStatus          = "status"
	fieldApplicationID   = "applicationId"
	fieldServiceGroup    = "serviceGroup"
	fieldTxName          = "txName"
	fieldTimeout         = "timeout"
	fieldBeginTime       = "beginTime"
	fieldApplicationData = "applicationData"
	fieldGmtCreate       = "gmtCreate"
	fieldGmtModified     = "gmtModified"

	fieldBranchID        = "branchId"
	fieldResourceGroupID = "resourceGroupId"
	fieldResourceID      = "resourceId"
	fieldClientID        = "clientId"
	fieldBranchType      = "branchType"
)

// encodeGlobal translates g into a flat field map suitable for HSET/HMSET.
// ApplicationData, when empty, is omitted entirely rather than written as
// an empty string (spec §4.3); decodeGlobal reads the absent field back as
// the empty string.
func encodeGlobal(g *session.GlobalSession) map[string]string {
	m := map[string]string{
		fieldXID:           g.XID,
		fieldTransactionID: strconv.FormatInt(g.TransactionID, 10),
		fieldStatus:        strconv.FormatInt(int64(g.Status), 10),
		fieldApplicationID: g.ApplicationID,
		fieldServiceGroup:  g.ServiceGroup,
		fieldTxName:        g.TxName,
		fieldTimeout:       strconv.FormatInt(g.Timeout, 10),
		fieldBeginTime:     strconv.FormatInt(g.BeginTime, 10),
		fieldGmtCreate:     strconv.FormatInt(g.GmtCreate, 10),
		fieldGmtModified:   strconv.FormatInt(g.GmtModified, 10),
	}
	if g.ApplicationData != "" {
		m[fieldApplicationData] = g.ApplicationData
	}
	return m
}

// decodeGlobal is the reverse of encodeGlobal. Missing fields decode to
// their type's zero value; unknown extra keys in m are ignored (forward
// compatibility with records written by a newer build).
func decodeGlobal(m map[string]string) *session.GlobalSession {
	return &session.GlobalSession{
		XID:             m[fieldXID],
		TransactionID:   parseInt64(m[fieldTransactionID]),
		Status:          session.GlobalStatus(parseInt64(m[fieldStatus])),
		ApplicationID:   m[fieldApplicationID],
		ServiceGroup:    m[fieldServiceGroup],
		TxName:          m[fieldTxName],
		Timeout:         parseInt64(m[fieldTimeout]),
		BeginTime:       parseInt64(m[fieldBeginTime]),
		ApplicationData: m[fieldApplicationData],
		GmtCreate:       parseInt64(m[fieldGmtCreate]),
		GmtModified:     parseInt64(m[fieldGmtModified]),
	}
}

func encodeBranch(b *session.BranchSession) map[string]string {
	m := map[string]string{
		fieldBranchID:        strconv.FormatInt(b.BranchID, 10),
		fieldXID:             b.XID,
		fieldResourceGroupID: b.ResourceGroupID,
		fieldResourceID:      b.ResourceID,
		fieldClientID:        b.ClientID,
		fieldBranchType:      strconv.FormatInt(int64(b.BranchType), 10),
		fieldStatus:          strconv.FormatInt(int64(b.Status), 10),
		fieldGmtCreate:       strconv.FormatInt(b.GmtCreate, 10),
		fieldGmtModified:     strconv.FormatInt(b.GmtModified, 10),
	}
	if b.ApplicationData != "" {
		m[fieldApplicationData] = b.ApplicationData
	}
	return m
}

func decodeBranch(m map[string]string) *session.BranchSession {
	return &session.BranchSession{
		BranchID:        parseInt64(m[fieldBranchID]),
		XID:             m[fieldXID],
		ResourceGroupID: m[fieldResourceGroupID],
		ResourceID:      m[fieldResourceID],
		ClientID:        m[fieldClientID],
		BranchType:      session.BranchType(parseInt64(m[fieldBranchType])),
		Status:          session.BranchStatus(parseInt64(m[fieldStatus])),
		ApplicationData: m[fieldApplicationData],
		GmtCreate:       parseInt64(m[fieldGmtCreate]),
		GmtModified:     parseInt64(m[fieldGmtModified]),
	}
}

// parseInt64 decodes a base-10 field to its zero value on absence or
// malformed input, matching the codec's reflection-tolerant contract.
func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// toHMSetArgs flattens a field map into the interface{} pairs go-redis's
// HSet/HMSet variadic signature expects.
func toHMSetArgs(fields map[string]string) []interface{} {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
