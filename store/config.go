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
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/naoina/toml"
)

// Config configures the Connection Source and the Query Engine's query
// limit. The connection endpoint, auth and pool size are read here from a
// TOML file; everything else about how the coordinator wires the store up
// (RPC, console, the two-phase protocol) is out of scope per spec §1.
type Config struct {
	Redis RedisConfig `toml:"redis"`
}

// RedisConfig is the [redis] section of the TOML file.
type RedisConfig struct {
	Addr         string        `toml:"addr"`
	Username     string        `toml:"username"`
	Password     string        `toml:"password"`
	DB           int           `toml:"db"`
	PoolSize     int           `toml:"pool_size"`
	DialTimeout  time.Duration `toml:"dial_timeout"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`

	// QueryLimit is store.redis.queryLimit (spec §6): the maximum total
	// xids returned by a single multi-status query.
	QueryLimit int `toml:"query_limit"`
}

// DefaultConfig returns the configuration used when no file is loaded.
func DefaultConfig() Config {
	return Config{
		Redis: RedisConfig{
			Addr:         "127.0.0.1:6379",
			PoolSize:     10,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			QueryLimit:   100,
		},
	}
}

var tomlSettings = toml.Config{
	MissingField: func(typ reflect.Type, field string) error {
		return nil // unknown keys are ignored, not fatal, for forward compatibility
	},
}

// LoadConfig reads path as TOML and overlays it onto DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("store: open config %s: %w", path, err)
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("store: parse config %s: %w", path, err)
	}
	if cfg.Redis.QueryLimit <= 0 {
		cfg.Redis.QueryLimit = 100
	}
	return cfg, nil
}
