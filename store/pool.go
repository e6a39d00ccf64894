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

	"github.com/redis/go-redis/v9"

	"github.com/txcoord/tcstore/internal/metrics"
)

// ConnPool is the Connection Source: a fixed set of pooled client handles
// to the backing store. Each logical operation borrows a handle and must
// release it on every exit path; a borrowed handle supports single
// commands, pipelines, and optimistic (WATCH/MULTI/EXEC) transactions,
// since all three are just methods on the borrowed *redis.Client.
type ConnPool struct {
	handles chan *redis.Client
	all     []*redis.Client
	inUse   metrics.Gauge
}

// NewConnPool builds a ConnPool of cfg.PoolSize handles against cfg.Addr.
// Handles are created eagerly; no network round trip happens until the
// first borrowed command runs.
func NewConnPool(cfg RedisConfig) *ConnPool {
	size := cfg.PoolSize
	if size <= 0 {
		size = 1
	}

	p := &ConnPool{
		handles: make(chan *redis.Client, size),
		all:     make([]*redis.Client, 0, size),
		inUse:   metrics.NewRegisteredGauge("store/pool/inuse", nil),
	}
	for i := 0; i < size; i++ {
		c := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Username:     cfg.Username,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		})
		p.all = append(p.all, c)
		p.handles <- c
	}
	return p
}

// newConnPoolFromClients builds a ConnPool over already-constructed
// clients, for tests that point multiple handles at a miniredis instance.
func newConnPoolFromClients(clients []*redis.Client) *ConnPool {
	p := &ConnPool{
		handles: make(chan *redis.Client, len(clients)),
		all:     clients,
		inUse:   metrics.NewGauge(),
	}
	for _, c := range clients {
		p.handles <- c
	}
	return p
}

// Conn is a borrowed handle. Release must be called exactly once, on
// every exit path (normally via defer immediately after a successful
// Borrow).
type Conn struct {
	client   *redis.Client
	pool     *ConnPool
	released bool
}

// Client returns the underlying *redis.Client for single commands,
// Pipelined, or Watch+TxPipelined.
func (c *Conn) Client() *redis.Client { return c.client }

// Release returns the handle to the pool. Safe to call more than once;
// only the first call has an effect.
func (c *Conn) Release() {
	if c.released {
		return
	}
	c.released = true
	c.pool.inUse.Update(c.pool.inUse.Value() - 1)
	c.pool.handles <- c.client
}

// Borrow blocks until a handle is available or ctx is done. Callers must
// release the returned Conn on every exit path.
func (p *ConnPool) Borrow(ctx context.Context) (*Conn, error) {
	select {
	case c := <-p.handles:
		p.inUse.Update(p.inUse.Value() + 1)
		return &Conn{client: c, pool: p}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("store: borrow connection: %w", ctx.Err())
	}
}

// PoolStats is operational introspection for the connection pool, mirroring
// the data/idle/in-use shape a caller would scrape alongside the store's
// timers and counters.
type PoolStats struct {
	Capacity int
	InUse    int64
	Idle     int64
}

// Stats returns a snapshot of the pool's current occupancy.
func (p *ConnPool) Stats() PoolStats {
	inUse := p.inUse.Value()
	return PoolStats{
		Capacity: len(p.all),
		InUse:    inUse,
		Idle:     int64(len(p.all)) - inUse,
	}
}

// Ping borrows a handle and pings the backing store, surfacing
// connectivity failures without requiring a full read/write round trip.
func (p *ConnPool) Ping(ctx context.Context) error {
	conn, err := p.Borrow(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if err := conn.Client().Ping(ctx).Err(); err != nil {
		return newErr("ping", KindBackingStore, err)
	}
	return nil
}

// Close releases every underlying client. The pool must not be used
// afterward.
func (p *ConnPool) Close() error {
	var firstErr error
	for _, c := range p.all {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
