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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/txcoord/tcstore/session"
)

func TestReconcileStatusIndicesRemovesDanglingEntry(t *testing.T) {
	pool, _ := newTestPool(t, 2)
	e := NewEngine(pool)
	ctx := context.Background()

	g := testGlobal(10, session.Begin)
	_, err := e.WriteSession(ctx, GlobalAddOp(g))
	require.NoError(t, err)

	conn, err := pool.Borrow(ctx)
	require.NoError(t, err)
	// Simulate a crash mid-delete: hash removed, index entry left behind.
	require.NoError(t, conn.Client().Del(ctx, globalKey(10)).Err())
	conn.Release()

	report, err := ReconcileStatusIndices(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, 0, report.GlobalsScanned)
	require.Equal(t, 1, report.IndexEntriesRemoved)

	conn, err = pool.Borrow(ctx)
	require.NoError(t, err)
	defer conn.Release()
	members, err := conn.Client().LRange(ctx, statusListKey(session.Begin), 0, -1).Result()
	require.NoError(t, err)
	require.Empty(t, members)
}

func TestReconcileStatusIndicesFixesMisfiledEntry(t *testing.T) {
	pool, _ := newTestPool(t, 2)
	e := NewEngine(pool)
	ctx := context.Background()

	g := testGlobal(10, session.Committing)
	_, err := e.WriteSession(ctx, GlobalAddOp(g))
	require.NoError(t, err)

	conn, err := pool.Borrow(ctx)
	require.NoError(t, err)
	// Simulate a crash mid-GLOBAL_UPDATE from Begin to Committing: the hash
	// already says Committing, but the xid is still filed under Begin and
	// absent from Committing (we inserted directly under Committing, so move
	// the entry into Begin to model "left in the stale list").
	require.NoError(t, conn.Client().LRem(ctx, statusListKey(session.Committing), 1, g.XID).Err())
	require.NoError(t, conn.Client().RPush(ctx, statusListKey(session.Begin), g.XID).Err())
	conn.Release()

	report, err := ReconcileStatusIndices(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, 1, report.IndexEntriesRemoved)
	require.Equal(t, 1, report.IndexEntriesAdded)

	conn, err = pool.Borrow(ctx)
	require.NoError(t, err)
	defer conn.Release()

	begin, err := conn.Client().LRange(ctx, statusListKey(session.Begin), 0, -1).Result()
	require.NoError(t, err)
	require.Empty(t, begin)

	committing, err := conn.Client().LRange(ctx, statusListKey(session.Committing), 0, -1).Result()
	require.NoError(t, err)
	require.Equal(t, []string{g.XID}, committing)
}

func TestReconcileStatusIndicesRestoresMissingEntry(t *testing.T) {
	pool, _ := newTestPool(t, 2)
	e := NewEngine(pool)
	ctx := context.Background()

	g := testGlobal(10, session.Begin)
	_, err := e.WriteSession(ctx, GlobalAddOp(g))
	require.NoError(t, err)

	conn, err := pool.Borrow(ctx)
	require.NoError(t, err)
	// Simulate a crash mid-GLOBAL_ADD: hash written, RPUSH never ran.
	require.NoError(t, conn.Client().LRem(ctx, statusListKey(session.Begin), 1, g.XID).Err())
	conn.Release()

	report, err := ReconcileStatusIndices(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, 1, report.IndexEntriesAdded)
	require.Equal(t, 0, report.IndexEntriesRemoved)

	conn, err = pool.Borrow(ctx)
	require.NoError(t, err)
	defer conn.Release()
	members, err := conn.Client().LRange(ctx, statusListKey(session.Begin), 0, -1).Result()
	require.NoError(t, err)
	require.Equal(t, []string{g.XID}, members)
}

func TestReconcileStatusIndicesNoOpWhenConsistent(t *testing.T) {
	pool, _ := newTestPool(t, 2)
	e := NewEngine(pool)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		_, err := e.WriteSession(ctx, GlobalAddOp(testGlobal(i, session.Begin)))
		require.NoError(t, err)
	}

	report, err := ReconcileStatusIndices(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, 5, report.GlobalsScanned)
	require.Equal(t, 0, report.IndexEntriesAdded)
	require.Equal(t, 0, report.IndexEntriesRemoved)
}
