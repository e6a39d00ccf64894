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

	"github.com/redis/go-redis/v9"

	"github.com/txcoord/tcstore/internal/log"
	"github.com/txcoord/tcstore/session"
)

// ReconcileReport summarizes one ReconcileStatusIndices pass.
type ReconcileReport struct {
	GlobalsScanned      int
	IndexEntriesAdded   int
	IndexEntriesRemoved int
}

// ReconcileStatusIndices is the recovery scan spec §7 and §9 hold up as
// the actual correctness mechanism behind I1: best-effort compensation on
// the write path only narrows the inconsistency window, it does not
// eliminate it, so a periodic out-of-band scan restores "every live
// GlobalRecord's xid appears in status:<status> exactly once and nowhere
// else" from scratch.
//
// Two passes: first, scan every global:* hash to build the desired
// xid->status mapping; second, walk every status list and drop any entry
// that is dangling (no matching global hash), filed under the wrong
// status, or a repeat of one already seen in the correct list, tracking
// which xids were found correctly indexed along
// the way. A final pass appends any xid missing from its correct list
// entirely.
func ReconcileStatusIndices(ctx context.Context, pool *ConnPool) (ReconcileReport, error) {
	logger := log.New("component", "store.recovery")

	conn, err := pool.Borrow(ctx)
	if err != nil {
		return ReconcileReport{}, err
	}
	defer conn.Release()
	client := conn.Client()

	desired, err := scanDesiredStatuses(ctx, client)
	if err != nil {
		return ReconcileReport{}, err
	}

	var report ReconcileReport
	report.GlobalsScanned = len(desired)

	recordedIn := make(map[string]bool, len(desired))
	for s := session.UnKnown; s <= session.Finished; s++ {
		members, err := client.LRange(ctx, statusListKey(s), 0, -1).Result()
		if err != nil {
			return report, newErr("reconcileStatusIndices", KindBackingStore, err)
		}
		for _, xid := range members {
			wantStatus, ok := desired[xid]
			if !ok {
				logger.Warn("recovery: dropping dangling status index entry", "xid", xid, "status", s)
				if err := client.LRem(ctx, statusListKey(s), 1, xid).Err(); err != nil {
					logger.Error("recovery: failed to drop dangling entry", "xid", xid, "status", s, "err", err)
					continue
				}
				report.IndexEntriesRemoved++
				continue
			}
			if wantStatus != s {
				logger.Warn("recovery: dropping misfiled status index entry", "xid", xid, "listed_under", s, "actual", wantStatus)
				if err := client.LRem(ctx, statusListKey(s), 1, xid).Err(); err != nil {
					logger.Error("recovery: failed to drop misfiled entry", "xid", xid, "status", s, "err", err)
					continue
				}
				report.IndexEntriesRemoved++
				continue
			}
			if recordedIn[xid] {
				logger.Warn("recovery: dropping duplicate status index entry", "xid", xid, "status", s)
				if err := client.LRem(ctx, statusListKey(s), 1, xid).Err(); err != nil {
					logger.Error("recovery: failed to drop duplicate entry", "xid", xid, "status", s, "err", err)
					continue
				}
				report.IndexEntriesRemoved++
				continue
			}
			recordedIn[xid] = true
		}
	}

	for xid, status := range desired {
		if recordedIn[xid] {
			continue
		}
		logger.Warn("recovery: restoring missing status index entry", "xid", xid, "status", status)
		if err := client.RPush(ctx, statusListKey(status), xid).Err(); err != nil {
			return report, newErr("reconcileStatusIndices", KindBackingStore, err)
		}
		report.IndexEntriesAdded++
	}

	return report, nil
}

func scanDesiredStatuses(ctx context.Context, client *redis.Client) (map[string]session.GlobalStatus, error) {
	desired := make(map[string]session.GlobalStatus)

	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, globalScanPattern, 200).Result()
		if err != nil {
			return nil, newErr("reconcileStatusIndices", KindBackingStore, err)
		}
		if len(keys) > 0 {
			cmds := make([]*redis.MapStringStringCmd, len(keys))
			_, err := client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
				for i, k := range keys {
					cmds[i] = pipe.HGetAll(ctx, k)
				}
				return nil
			})
			if err != nil {
				return nil, newErr("reconcileStatusIndices", KindBackingStore, err)
			}
			for _, cmd := range cmds {
				h, err := cmd.Result()
				if err != nil {
					return nil, newErr("reconcileStatusIndices", KindBackingStore, err)
				}
				if len(h) == 0 {
					continue
				}
				g := decodeGlobal(h)
				if g.XID == "" {
					continue
				}
				desired[g.XID] = g.Status
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return desired, nil
}
