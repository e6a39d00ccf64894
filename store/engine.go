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
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/txcoord/tcstore/internal/log"
	"github.com/txcoord/tcstore/session"
)

// Engine is the Store Engine: it turns an Operation into the backing-store
// commands spec §4.4 describes, borrowing a handle from pool for the
// duration of each call.
type Engine struct {
	pool *ConnPool
	log  log.Logger
}

// NewEngine wraps pool with the write-path logic.
func NewEngine(pool *ConnPool) *Engine {
	return &Engine{pool: pool, log: log.New("component", "store.engine")}
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// WriteSession is writeSession from spec §4.4: an exhaustive switch over
// op.Kind, never a map of function values, so an unhandled kind is a
// compile-time-visible default branch.
func (e *Engine) WriteSession(ctx context.Context, op Operation) (bool, error) {
	defer writeTimer.UpdateSince(time.Now())

	conn, err := e.pool.Borrow(ctx)
	if err != nil {
		writeErrorCounter.Inc(1)
		return false, err
	}
	defer conn.Release()

	var ok bool
	switch op.Kind {
	case GlobalAdd:
		ok, err = e.insertGlobal(ctx, conn, op.Global)
	case GlobalUpdate:
		ok, err = e.updateGlobal(ctx, conn, op.Global)
	case GlobalRemove:
		ok, err = e.deleteGlobal(ctx, conn, op.Global)
	case BranchAdd:
		ok, err = e.insertBranch(ctx, conn, op.Branch)
	case BranchUpdate:
		ok, err = e.updateBranch(ctx, conn, op.Branch)
	case BranchRemove:
		ok, err = e.deleteBranch(ctx, conn, op.Branch)
	default:
		return false, newErr("writeSession", KindInvalidArgument, fmt.Errorf("unhandled operation kind %d", op.Kind))
	}
	if err != nil {
		writeErrorCounter.Inc(1)
	}
	return ok, err
}

// insertGlobal is GLOBAL_ADD: the hash and its status-list membership are
// written together in a single pipeline, since nothing else can yet be
// watching a key that doesn't exist.
func (e *Engine) insertGlobal(ctx context.Context, conn *Conn, g *session.GlobalSession) (bool, error) {
	now := nowMillis()
	g.GmtCreate = now
	g.GmtModified = now
	fields := encodeGlobal(g)

	_, err := conn.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, globalKey(g.TransactionID), toHMSetArgs(fields)...)
		pipe.RPush(ctx, statusListKey(g.Status), g.XID)
		return nil
	})
	if err != nil {
		return false, newErr("insertGlobal", KindBackingStore, err)
	}
	return true, nil
}

// deleteGlobal is GLOBAL_REMOVE. Absence of the hash is treated as success
// (idempotent retry of a delete that already landed), per the same
// reasoning spec §4.4 gives for GLOBAL_UPDATE's own idempotence.
func (e *Engine) deleteGlobal(ctx context.Context, conn *Conn, g *session.GlobalSession) (bool, error) {
	client := conn.Client()
	xid, err := client.HGet(ctx, globalKey(g.TransactionID), fieldXID).Result()
	if err == redis.Nil || xid == "" {
		return true, nil
	}
	if err != nil {
		return false, newErr("deleteGlobal", KindBackingStore, err)
	}

	_, err = client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, statusListKey(g.Status), 1, xid)
		pipe.Del(ctx, globalKey(g.TransactionID))
		return nil
	})
	if err != nil {
		return false, newErr("deleteGlobal", KindBackingStore, err)
	}
	return true, nil
}

// updateGlobal is GLOBAL_UPDATE, the critical path of spec §4.4:
//
//  1. WATCH the global hash.
//  2. HMGET its current status and gmtModified.
//  3. Missing hash: UNWATCH, not-found.
//  4. Current status already equals the requested status: UNWATCH,
//     report success (idempotent retries never fail).
//  5. Otherwise HSET the new status/gmtModified and move the xid between
//     status-list indices inside one MULTI/EXEC. If EXEC aborts because
//     the watched hash changed underneath us, another peer has already
//     advanced this transaction; that counts as success too.
//  6. EXEC committed: inspect each reply. The status lists are NOT
//     watched, so a concurrent GLOBAL_REMOVE or GLOBAL_UPDATE can have
//     already moved the xid out of the list we expected it in, leaving
//     LREM a true no-op (count 0) even though EXEC itself succeeded.
//  7. Any reply unsatisfactory: best-effort compensating rollback, then
//     report failure. The periodic recovery scan is the actual safety
//     net; this rollback only shrinks the window it has to close.
func (e *Engine) updateGlobal(ctx context.Context, conn *Conn, g *session.GlobalSession) (bool, error) {
	client := conn.Client()
	key := globalKey(g.TransactionID)

	var (
		success  bool
		notFound bool
	)

	txErr := client.Watch(ctx, func(tx *redis.Tx) error {
		vals, err := tx.HMGet(ctx, key, fieldStatus, fieldGmtModified).Result()
		if err != nil {
			return err
		}
		if vals[0] == nil {
			notFound = true
			return nil
		}

		curStatus := session.GlobalStatus(parseInt64(asString(vals[0])))
		curGmtModified := parseInt64(asString(vals[1]))

		if curStatus == g.Status {
			success = true
			return nil
		}

		now := nowMillis()
		var hset *redis.IntCmd
		var lrem *redis.IntCmd
		var rpush *redis.IntCmd
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			hset = pipe.HSet(ctx, key,
				fieldStatus, strconv.FormatInt(int64(g.Status), 10),
				fieldGmtModified, strconv.FormatInt(now, 10))
			lrem = pipe.LRem(ctx, statusListKey(curStatus), 1, g.XID)
			rpush = pipe.RPush(ctx, statusListKey(g.Status), g.XID)
			return nil
		})
		if err == redis.TxFailedErr {
			// The watched hash changed between our HMGET and EXEC: some
			// other peer already moved this transaction along. Swallow
			// as success rather than retrying, per spec design.
			conflictCounter.Inc(1)
			success = true
			return nil
		}
		if err != nil {
			return err
		}

		hsetOK := hset.Err() == nil
		lremOK := lrem.Err() == nil && lrem.Val() > 0
		rpushOK := rpush.Err() == nil && rpush.Val() > 0

		if hsetOK && lremOK && rpushOK {
			success = true
			return nil
		}

		e.compensateGlobalUpdate(ctx, client, g, curStatus, curGmtModified, hsetOK, lremOK, rpushOK)
		success = false
		return nil
	}, key)

	if txErr != nil {
		return false, newErr("updateGlobal", KindBackingStore, txErr)
	}
	if notFound {
		return false, newErr("updateGlobal", KindNotFound, nil)
	}
	return success, nil
}

// compensateGlobalUpdate undoes whichever pieces of a failed GLOBAL_UPDATE
// EXEC actually took effect, restoring the previous (status, gmtModified)
// and status-list membership on a best-effort basis. Failure here is
// logged, not retried: the recovery scan reconciles any index left
// inconsistent.
func (e *Engine) compensateGlobalUpdate(ctx context.Context, client *redis.Client, g *session.GlobalSession, priorStatus session.GlobalStatus, priorGmtModified int64, hsetOK, lremOK, rpushOK bool) {
	key := globalKey(g.TransactionID)

	if hsetOK {
		err := client.Watch(ctx, func(tx *redis.Tx) error {
			xid, err := tx.HGet(ctx, key, fieldXID).Result()
			if err == redis.Nil || xid == "" {
				return nil
			}
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.HSet(ctx, key,
					fieldStatus, strconv.FormatInt(int64(priorStatus), 10),
					fieldGmtModified, strconv.FormatInt(priorGmtModified, 10))
				return nil
			})
			return err
		}, key)
		if err != nil && err != redis.TxFailedErr {
			compensationFailures.Inc(1)
			e.log.Error("compensation: restore prior hash state failed", "xid", g.XID, "err", err)
		}
	}

	if lremOK {
		if err := client.RPush(ctx, statusListKey(priorStatus), g.XID).Err(); err != nil {
			compensationFailures.Inc(1)
			e.log.Error("compensation: restore prior status index failed", "xid", g.XID, "status", priorStatus, "err", err)
		}
	}

	if rpushOK {
		if err := client.LRem(ctx, statusListKey(g.Status), 1, g.XID).Err(); err != nil {
			compensationFailures.Inc(1)
			e.log.Error("compensation: remove from new status index failed", "xid", g.XID, "status", g.Status, "err", err)
		}
	}
}

// insertBranch is BRANCH_ADD.
func (e *Engine) insertBranch(ctx context.Context, conn *Conn, b *session.BranchSession) (bool, error) {
	now := nowMillis()
	b.GmtCreate = now
	b.GmtModified = now
	fields := encodeBranch(b)

	_, err := conn.Client().Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, branchKey(b.BranchID), toHMSetArgs(fields)...)
		pipe.RPush(ctx, branchListKey(b.XID), branchKey(b.BranchID))
		return nil
	})
	if err != nil {
		return false, newErr("insertBranch", KindBackingStore, err)
	}
	return true, nil
}

// deleteBranch is BRANCH_REMOVE, idempotent like deleteGlobal.
func (e *Engine) deleteBranch(ctx context.Context, conn *Conn, b *session.BranchSession) (bool, error) {
	client := conn.Client()
	xid, err := client.HGet(ctx, branchKey(b.BranchID), fieldXID).Result()
	if err == redis.Nil || xid == "" {
		return true, nil
	}
	if err != nil {
		return false, newErr("deleteBranch", KindBackingStore, err)
	}

	_, err = client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, branchListKey(xid), 1, branchKey(b.BranchID))
		pipe.Del(ctx, branchKey(b.BranchID))
		return nil
	})
	if err != nil {
		return false, newErr("deleteBranch", KindBackingStore, err)
	}
	return true, nil
}

// updateBranch is BRANCH_UPDATE. Branches carry no status index (spec
// §4.4), so this is a plain conditional HSET: fail not-found if the
// branch's prior state is gone, otherwise overwrite status, gmtModified,
// and applicationData when supplied.
func (e *Engine) updateBranch(ctx context.Context, conn *Conn, b *session.BranchSession) (bool, error) {
	client := conn.Client()
	key := branchKey(b.BranchID)

	prior, err := client.HGet(ctx, key, fieldStatus).Result()
	if err == redis.Nil {
		return false, newErr("updateBranch", KindNotFound, nil)
	}
	if err != nil {
		return false, newErr("updateBranch", KindBackingStore, err)
	}
	if prior == "" {
		return false, newErr("updateBranch", KindNotFound, nil)
	}

	now := nowMillis()
	args := []interface{}{
		fieldStatus, strconv.FormatInt(int64(b.Status), 10),
		fieldGmtModified, strconv.FormatInt(now, 10),
	}
	if b.ApplicationData != "" {
		args = append(args, fieldApplicationData, b.ApplicationData)
	}

	if err := client.HSet(ctx, key, args...).Err(); err != nil {
		return false, newErr("updateBranch", KindBackingStore, err)
	}
	return true, nil
}

// asString coerces an HMGET reply element (a nil-or-string interface{})
// to a string, treating nil as empty.
func asString(v interface{}) string {
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
