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
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/txcoord/tcstore/internal/log"
	"github.com/txcoord/tcstore/session"
)

// branchScanChunk bounds each LRANGE window readBranchesByXid issues while
// draining branches:<xid>, so a transaction with an unexpectedly large
// number of branches never pulls the whole list in one round trip.
const branchScanChunk = 20

// Query is the Query Engine: read paths over the records the Store Engine
// writes. It never mutates the backing store, except for the auto-heal of
// stale branch-list references readBranchesByXid performs on read.
type Query struct {
	pool       *ConnPool
	queryLimit int
	log        log.Logger
}

// NewQuery wraps pool with the read-path logic. queryLimit is the
// logQueryLimit of spec §4.5's readByStatus.
func NewQuery(pool *ConnPool, queryLimit int) *Query {
	if queryLimit <= 0 {
		queryLimit = 100
	}
	return &Query{pool: pool, queryLimit: queryLimit, log: log.New("component", "store.query")}
}

// ReadByXid is readByXid: HGETALL global:<tid> with tid extracted from xid,
// optionally hydrating branches.
func (q *Query) ReadByXid(ctx context.Context, xid string, withBranches bool) (*session.Aggregate, error) {
	defer readTimer.UpdateSince(time.Now())

	tid, err := session.ParseXID(xid)
	if err != nil {
		return nil, newErr("readByXid", KindInvalidArgument, err)
	}
	return q.ReadByTransactionID(ctx, tid, withBranches)
}

// ReadByTransactionID is readByTransactionId: same as ReadByXid, keyed
// directly by transaction id.
func (q *Query) ReadByTransactionID(ctx context.Context, tid int64, withBranches bool) (*session.Aggregate, error) {
	defer readTimer.UpdateSince(time.Now())

	conn, err := q.pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	h, err := conn.Client().HGetAll(ctx, globalKey(tid)).Result()
	if err != nil {
		return nil, newErr("readByTransactionId", KindBackingStore, err)
	}
	if len(h) == 0 {
		return nil, nil
	}
	g := decodeGlobal(h)

	agg := &session.Aggregate{Global: g}
	if withBranches {
		branches, err := q.readBranchesByXidConn(ctx, conn, g.XID)
		if err != nil {
			return nil, err
		}
		agg.Branches = branches
	}
	return agg, nil
}

// ReadByStatus is readByStatus: N pipelined LRANGE calls, one per status,
// each capped at max(1, logQueryLimit/N), concatenated and hydrated.
func (q *Query) ReadByStatus(ctx context.Context, statuses []session.GlobalStatus, withBranches bool) ([]*session.Aggregate, error) {
	defer readTimer.UpdateSince(time.Now())

	if len(statuses) == 0 {
		return nil, nil
	}

	conn, err := q.pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	limit := q.queryLimit / len(statuses)
	if limit < 1 {
		limit = 1
	}

	cmds := make([]*redis.StringSliceCmd, len(statuses))
	_, err = conn.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, s := range statuses {
			cmds[i] = pipe.LRange(ctx, statusListKey(s), 0, int64(limit)-1)
		}
		return nil
	})
	if err != nil {
		return nil, newErr("readByStatus", KindBackingStore, err)
	}

	var xids []string
	for _, cmd := range cmds {
		members, err := cmd.Result()
		if err != nil {
			return nil, newErr("readByStatus", KindBackingStore, err)
		}
		xids = append(xids, members...)
	}

	return q.hydrateXids(ctx, conn, xids, withBranches)
}

// ReadByStatusPaged is readByStatusPaged: LRANGE the status list over the
// window [start, end] implied by pageNum/pageSize.
func (q *Query) ReadByStatusPaged(ctx context.Context, status session.GlobalStatus, pageNum, pageSize int, withBranches bool) ([]*session.Aggregate, error) {
	defer readTimer.UpdateSince(time.Now())

	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	start := int64((pageNum - 1) * pageSize)
	end := int64(pageNum*pageSize - 1)

	conn, err := q.pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	xids, err := conn.Client().LRange(ctx, statusListKey(status), start, end).Result()
	if err != nil {
		return nil, newErr("readByStatusPaged", KindBackingStore, err)
	}

	return q.hydrateXids(ctx, conn, xids, withBranches)
}

// FindGlobalsByPage is findGlobalsByPage. SCAN cursors are opaque: per
// spec §9 open question (b), pagination walks the cursor returned by each
// SCAN call and stops once pageNum*pageSize distinct keys have been
// accumulated or the cursor returns to "0", never a computed offset into
// the keyspace. The page is the last pageSize of those keys, in the order
// SCAN first returned them.
func (q *Query) FindGlobalsByPage(ctx context.Context, pageNum, pageSize int, withBranches bool) ([]*session.Aggregate, error) {
	defer readTimer.UpdateSince(time.Now())

	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	conn, err := q.pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	client := conn.Client()
	seen := make(map[string]struct{})
	var ordered []string
	skip := (pageNum - 1) * pageSize

	var cursor uint64
	for {
		var keys []string
		var err error
		keys, cursor, err = client.Scan(ctx, cursor, globalScanPattern, 100).Result()
		if err != nil {
			return nil, newErr("findGlobalsByPage", KindBackingStore, err)
		}
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			ordered = append(ordered, k)
		}
		if cursor == 0 || len(ordered) >= skip+pageSize {
			break
		}
	}

	// Keys stay in first-seen SCAN order: every call walks the same cursor
	// sequence from "0", so on an unchanged keyspace page N+1 continues
	// exactly where page N ended.
	tids := make([]int64, 0, len(ordered))
	for _, k := range ordered {
		if tid, ok := transactionIDFromGlobalKey(k); ok {
			tids = append(tids, tid)
		}
	}

	if skip >= len(tids) {
		return nil, nil
	}
	end := skip + pageSize
	if end > len(tids) {
		end = len(tids)
	}
	page := tids[skip:end]

	aggs := make([]*session.Aggregate, 0, len(page))
	for _, tid := range page {
		agg, err := q.readByTransactionIDConn(ctx, conn, tid, withBranches)
		if err != nil {
			return nil, err
		}
		if agg != nil {
			aggs = append(aggs, agg)
		}
	}
	return aggs, nil
}

// CountByStatus is countByStatus: pipelined LLEN per status list, summed.
func (q *Query) CountByStatus(ctx context.Context, statuses []session.GlobalStatus) (int64, error) {
	defer readTimer.UpdateSince(time.Now())

	if len(statuses) == 0 {
		return 0, nil
	}

	conn, err := q.pool.Borrow(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	cmds := make([]*redis.IntCmd, len(statuses))
	_, err = conn.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, s := range statuses {
			cmds[i] = pipe.LLen(ctx, statusListKey(s))
		}
		return nil
	})
	if err != nil {
		return 0, newErr("countByStatus", KindBackingStore, err)
	}

	var total int64
	for _, cmd := range cmds {
		n, err := cmd.Result()
		if err != nil {
			return 0, newErr("countByStatus", KindBackingStore, err)
		}
		total += n
	}
	return total, nil
}

// ReadBranchesByXid is readBranchesByXid.
func (q *Query) ReadBranchesByXid(ctx context.Context, xid string) ([]*session.BranchSession, error) {
	defer readTimer.UpdateSince(time.Now())

	conn, err := q.pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()
	return q.readBranchesByXidConn(ctx, conn, xid)
}

// readBranchesByXidConn drains branches:<xid> in fixed-size windows, then
// pipelined-HGETALLs each branchKey. Entries whose hash comes back empty
// (the branch was removed by a concurrent BRANCH_REMOVE after the LRANGE
// observed it) are auto-healed out of the list and dropped from the
// result, rather than surfaced as a stale reference to the caller.
func (q *Query) readBranchesByXidConn(ctx context.Context, conn *Conn, xid string) ([]*session.BranchSession, error) {
	client := conn.Client()
	listKey := branchListKey(xid)

	var keys []string
	for offset := int64(0); ; offset += branchScanChunk {
		window, err := client.LRange(ctx, listKey, offset, offset+branchScanChunk-1).Result()
		if err != nil {
			return nil, newErr("readBranchesByXid", KindBackingStore, err)
		}
		keys = append(keys, window...)
		if int64(len(window)) < branchScanChunk {
			break
		}
	}
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err := client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.HGetAll(ctx, k)
		}
		return nil
	})
	if err != nil {
		return nil, newErr("readBranchesByXid", KindBackingStore, err)
	}

	branches := make([]*session.BranchSession, 0, len(keys))
	for i, cmd := range cmds {
		h, err := cmd.Result()
		if err != nil {
			return nil, newErr("readBranchesByXid", KindBackingStore, err)
		}
		if len(h) == 0 {
			q.log.Debug("dropping stale branch list entry", "xid", xid, "key", keys[i])
			if err := client.LRem(ctx, listKey, 1, keys[i]).Err(); err != nil {
				q.log.Warn("auto-heal: failed to remove stale branch list entry", "xid", xid, "key", keys[i], "err", err)
			}
			continue
		}
		branches = append(branches, decodeBranch(h))
	}

	sort.Slice(branches, func(i, j int) bool { return branches[i].BranchID < branches[j].BranchID })
	return branches, nil
}

func (q *Query) readByTransactionIDConn(ctx context.Context, conn *Conn, tid int64, withBranches bool) (*session.Aggregate, error) {
	h, err := conn.Client().HGetAll(ctx, globalKey(tid)).Result()
	if err != nil {
		return nil, newErr("findGlobalsByPage", KindBackingStore, err)
	}
	if len(h) == 0 {
		return nil, nil
	}
	g := decodeGlobal(h)
	agg := &session.Aggregate{Global: g}
	if withBranches {
		branches, err := q.readBranchesByXidConn(ctx, conn, g.XID)
		if err != nil {
			return nil, err
		}
		agg.Branches = branches
	}
	return agg, nil
}

func (q *Query) hydrateXids(ctx context.Context, conn *Conn, xids []string, withBranches bool) ([]*session.Aggregate, error) {
	aggs := make([]*session.Aggregate, 0, len(xids))
	for _, xid := range xids {
		tid, err := session.ParseXID(xid)
		if err != nil {
			q.log.Warn("skipping malformed xid in status index", "xid", xid, "err", err)
			continue
		}
		agg, err := q.readByTransactionIDConn(ctx, conn, tid, withBranches)
		if err != nil {
			return nil, err
		}
		if agg == nil {
			q.log.Warn("dropping dangling status index entry", "xid", xid)
			continue
		}
		aggs = append(aggs, agg)
	}
	return aggs, nil
}
