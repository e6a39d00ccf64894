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

func newTestSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	pool, _ := newTestPool(t, 4)
	return &SessionStore{
		pool:   pool,
		engine: NewEngine(pool),
		query:  NewQuery(pool, 100),
		cfg:    DefaultConfig(),
	}
}

func TestSessionStoreWriteAndReadSession(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()
	g := testGlobal(10, session.Begin)

	ok, err := s.WriteSession(ctx, GlobalAddOp(g))
	require.NoError(t, err)
	require.True(t, ok)

	agg, err := s.ReadSessionFull(ctx, g.XID)
	require.NoError(t, err)
	require.Equal(t, g.XID, agg.Global.XID)
}

func TestSessionStoreReadSessionByConditionXID(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()
	g := testGlobal(10, session.Begin)
	_, err := s.WriteSession(ctx, GlobalAddOp(g))
	require.NoError(t, err)

	aggs, err := s.ReadSessionByCondition(ctx, ByXID(g.XID), false)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
	require.Equal(t, g.XID, aggs[0].Global.XID)
}

func TestSessionStoreReadSessionByConditionTID(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()
	g := testGlobal(10, session.Begin)
	_, err := s.WriteSession(ctx, GlobalAddOp(g))
	require.NoError(t, err)

	aggs, err := s.ReadSessionByCondition(ctx, ByTransactionID(10), false)
	require.NoError(t, err)
	require.Len(t, aggs, 1)
}

func TestSessionStoreReadSessionByConditionStatus(t *testing.T) {
	s := newTestSessionStore(t)
	ctx := context.Background()
	_, err := s.WriteSession(ctx, GlobalAddOp(testGlobal(10, session.Begin)))
	require.NoError(t, err)
	_, err = s.WriteSession(ctx, GlobalAddOp(testGlobal(11, session.Begin)))
	require.NoError(t, err)

	aggs, err := s.ReadSessionByCondition(ctx, ByStatus(session.Begin), false)
	require.NoError(t, err)
	require.Len(t, aggs, 2)
}

func TestSessionStoreReadSessionByConditionAbsentXID(t *testing.T) {
	s := newTestSessionStore(t)
	aggs, err := s.ReadSessionByCondition(context.Background(), ByXID(session.FormatXID("1.1.1.1", 1, 999)), false)
	require.NoError(t, err)
	require.Nil(t, aggs)
}

func TestDefaultIsLazyAndSingleton(t *testing.T) {
	first := Default()
	second := Default()
	require.Same(t, first, second)
}
