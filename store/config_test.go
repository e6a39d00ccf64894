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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigQueryLimit(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, 100, cfg.Redis.QueryLimit)
	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tcstore.toml")
	const doc = `
[redis]
addr = "redis-0:6379"
pool_size = 32
query_limit = 250
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "redis-0:6379", cfg.Redis.Addr)
	require.Equal(t, 32, cfg.Redis.PoolSize)
	require.Equal(t, 250, cfg.Redis.QueryLimit)
	// Fields absent from the file keep the DefaultConfig value.
	require.Equal(t, DefaultConfig().Redis.DialTimeout, cfg.Redis.DialTimeout)
}

func TestLoadConfigZeroQueryLimitFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tcstore.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[redis]
addr = "x:6379"
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Redis.QueryLimit)
}
