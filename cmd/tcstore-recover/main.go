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

// Command tcstore-recover runs the status-index recovery scan against a
// backing store, either once or on a fixed interval.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/txcoord/tcstore/internal/log"
	"github.com/txcoord/tcstore/store"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "path to a store TOML config file",
	}
	intervalFlag = &cli.DurationFlag{
		Name:  "interval",
		Usage: "re-run the scan on this interval instead of exiting after one pass",
	}
	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "has no effect: every reconciled index entry is logged, along with the run summary, whether or not this is set",
	}
)

func main() {
	app := &cli.App{
		Name:  "tcstore-recover",
		Usage: "reconcile the transaction session store's status indices",
		Flags: []cli.Flag{configFlag, intervalFlag, verboseFlag},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := store.DefaultConfig()
	if path := c.String(configFlag.Name); path != "" {
		loaded, err := store.LoadConfig(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	s := store.New(cfg)
	defer s.Close()

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.Pool().Ping(ctx); err != nil {
		return fmt.Errorf("connecting to backing store: %w", err)
	}

	interval := c.Duration(intervalFlag.Name)
	if interval <= 0 {
		return reconcileOnce(ctx, s)
	}

	log.Info("starting periodic reconciliation", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := reconcileOnce(ctx, s); err != nil {
			log.Error("reconciliation pass failed", "err", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func reconcileOnce(ctx context.Context, s *store.SessionStore) error {
	start := time.Now()
	report, err := s.Reconcile(ctx)
	if err != nil {
		return err
	}
	log.Info("reconciliation pass complete",
		"globals_scanned", report.GlobalsScanned,
		"entries_added", report.IndexEntriesAdded,
		"entries_removed", report.IndexEntriesRemoved,
		"elapsed", time.Since(start))
	return nil
}
