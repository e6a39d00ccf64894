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
	"sync"

	"github.com/txcoord/tcstore/session"
)

// SessionStore is the consumer-facing contract of spec §6: it wires the
// Connection Source, Store Engine, and Query Engine behind the operation
// set the coordinator depends on.
type SessionStore struct {
	pool   *ConnPool
	engine *Engine
	query  *Query
	cfg    Config
}

// New builds a SessionStore directly from a Config; most callers should
// prefer Default, which lazily builds and caches one process-wide
// instance.
func New(cfg Config) *SessionStore {
	pool := NewConnPool(cfg.Redis)
	return &SessionStore{
		pool:   pool,
		engine: NewEngine(pool),
		query:  NewQuery(pool, cfg.Redis.QueryLimit),
		cfg:    cfg,
	}
}

var (
	defaultOnce  sync.Once
	defaultStore *SessionStore
)

// Default returns the process-wide SessionStore, building it from
// DefaultConfig on first use. Per spec §9's double-checked-singleton
// design note, this expresses "one initialized store per process" as a
// lazy, thread-safe first-use value rather than a checked-every-call
// nil guard.
func Default() *SessionStore {
	defaultOnce.Do(func() {
		defaultStore = New(DefaultConfig())
	})
	return defaultStore
}

// SetDefault overrides the process-wide instance Default returns,
// forcing the lazy initializer to have already run. Intended for tests
// and for a process's startup code that has its own Config to apply.
func SetDefault(s *SessionStore) {
	defaultOnce.Do(func() {})
	defaultStore = s
}

// Pool exposes the underlying connection pool for health checks and
// metrics scraping.
func (s *SessionStore) Pool() *ConnPool { return s.pool }

// Close releases every pooled connection. The store must not be used
// afterward.
func (s *SessionStore) Close() error { return s.pool.Close() }

// WriteSession is writeSession(kind, record).
func (s *SessionStore) WriteSession(ctx context.Context, op Operation) (bool, error) {
	return s.engine.WriteSession(ctx, op)
}

// ReadSession is readSession(xid, withBranches).
func (s *SessionStore) ReadSession(ctx context.Context, xid string, withBranches bool) (*session.Aggregate, error) {
	return s.query.ReadByXid(ctx, xid, withBranches)
}

// ReadSessionFull is readSession(xid), the shorthand for ReadSession(xid,
// true).
func (s *SessionStore) ReadSessionFull(ctx context.Context, xid string) (*session.Aggregate, error) {
	return s.query.ReadByXid(ctx, xid, true)
}

// ReadSessionsByStatus is readSession(statuses[], withBranches).
func (s *SessionStore) ReadSessionsByStatus(ctx context.Context, statuses []session.GlobalStatus, withBranches bool) ([]*session.Aggregate, error) {
	return s.query.ReadByStatus(ctx, statuses, withBranches)
}

// Condition is the union readSession(condition) dispatches on: exactly
// one of XID, TransactionID, or Statuses is populated.
type Condition struct {
	XID           string
	HasXID        bool
	TransactionID int64
	HasTID        bool
	Statuses      []session.GlobalStatus
}

// ByXID builds a Condition selecting a single transaction by xid.
func ByXID(xid string) Condition { return Condition{XID: xid, HasXID: true} }

// ByTransactionID builds a Condition selecting a single transaction by
// transaction id.
func ByTransactionID(tid int64) Condition { return Condition{TransactionID: tid, HasTID: true} }

// ByStatus builds a Condition selecting every transaction in the given
// statuses.
func ByStatus(statuses ...session.GlobalStatus) Condition { return Condition{Statuses: statuses} }

// ReadSessionByCondition is readSession(condition): xid / tid / statuses,
// always returning a list (a single-record condition yields a list of at
// most one).
func (s *SessionStore) ReadSessionByCondition(ctx context.Context, cond Condition, withBranches bool) ([]*session.Aggregate, error) {
	switch {
	case cond.HasXID:
		agg, err := s.query.ReadByXid(ctx, cond.XID, withBranches)
		if err != nil {
			return nil, err
		}
		if agg == nil {
			return nil, nil
		}
		return []*session.Aggregate{agg}, nil
	case cond.HasTID:
		agg, err := s.query.ReadByTransactionID(ctx, cond.TransactionID, withBranches)
		if err != nil {
			return nil, err
		}
		if agg == nil {
			return nil, nil
		}
		return []*session.Aggregate{agg}, nil
	default:
		return s.query.ReadByStatus(ctx, cond.Statuses, withBranches)
	}
}

// ReadSessionStatusByPage is readSessionStatusByPage(status, pageNum,
// pageSize, withBranch).
func (s *SessionStore) ReadSessionStatusByPage(ctx context.Context, status session.GlobalStatus, pageNum, pageSize int, withBranches bool) ([]*session.Aggregate, error) {
	return s.query.ReadByStatusPaged(ctx, status, pageNum, pageSize, withBranches)
}

// FindBranchSessionByXid is findBranchSessionByXid(xid).
func (s *SessionStore) FindBranchSessionByXid(ctx context.Context, xid string) ([]*session.BranchSession, error) {
	return s.query.ReadBranchesByXid(ctx, xid)
}

// FindGlobalSessionByPage is findGlobalSessionByPage(pageNum, pageSize,
// withBranch).
func (s *SessionStore) FindGlobalSessionByPage(ctx context.Context, pageNum, pageSize int, withBranches bool) ([]*session.Aggregate, error) {
	return s.query.FindGlobalsByPage(ctx, pageNum, pageSize, withBranches)
}

// CountByGlobalSessions is countByGlobalSessions(statuses[]).
func (s *SessionStore) CountByGlobalSessions(ctx context.Context, statuses []session.GlobalStatus) (int64, error) {
	return s.query.CountByStatus(ctx, statuses)
}

// Reconcile runs the recovery scan (spec §7's external collaborator
// contract) against this store's backing pool.
func (s *SessionStore) Reconcile(ctx context.Context) (ReconcileReport, error) {
	return ReconcileStatusIndices(ctx, s.pool)
}
