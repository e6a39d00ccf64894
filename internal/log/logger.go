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

// Package log provides the structured logger used across the store. It
// wraps log/slog rather than reinventing a handler pipeline, in the shape
// of the package it was grounded on: package-level level funcs, a Logger
// that can bind a context of key-value pairs with New, and a process-wide
// default swappable with SetDefault.
package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger writes structured, leveled log lines. Each method takes a message
// followed by alternating key/value pairs.
type Logger interface {
	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})

	// New returns a Logger with ctx's key/value pairs bound to every line.
	New(ctx ...interface{}) Logger

	// Handler returns the underlying slog.Handler.
	Handler() slog.Handler
}

// LevelTrace sits below slog.LevelDebug so verbose store internals (raw
// pipeline replies, cache hits) can be filtered independently of Debug.
const LevelTrace = slog.LevelDebug - 4

// LevelCrit sits above slog.LevelError for conditions the caller should
// treat as a store-wide emergency. (A failed compensating rollback is
// logged at Error, not Crit.)
const LevelCrit = slog.LevelError + 4

type logger struct {
	inner *slog.Logger
}

// NewLogger wraps an slog.Handler in the Logger interface.
func NewLogger(h slog.Handler) Logger {
	return &logger{inner: slog.New(h)}
}

func (l *logger) write(level slog.Level, msg string, ctx []interface{}) {
	l.inner.Log(context.Background(), level, msg, ctx...)
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(LevelTrace, msg, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(slog.LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(slog.LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(slog.LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(slog.LevelError, msg, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{})  { l.write(LevelCrit, msg, ctx) }

func (l *logger) New(ctx ...interface{}) Logger {
	return &logger{inner: slog.New(l.inner.Handler().WithAttrs(toAttrs(ctx)))}
}

func (l *logger) Handler() slog.Handler { return l.inner.Handler() }

func toAttrs(ctx []interface{}) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		key, _ := ctx[i].(string)
		attrs = append(attrs, slog.Any(key, ctx[i+1]))
	}
	return attrs
}

var defaultLogger atomic.Value // Logger

func init() {
	defaultLogger.Store(NewLogger(NewTerminalHandler(os.Stderr, false)))
}

// SetDefault installs l as the package-wide default logger used by the
// package-level Trace/Debug/Info/Warn/Error/Crit functions.
func SetDefault(l Logger) { defaultLogger.Store(l) }

// Root returns the package-wide default logger.
func Root() Logger { return defaultLogger.Load().(Logger) }

func Trace(msg string, ctx ...interface{}) { Root().Trace(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { Root().Debug(msg, ctx...) }
func Info(msg string, ctx ...interface{})  { Root().Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { Root().Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { Root().Error(msg, ctx...) }
func Crit(msg string, ctx ...interface{})  { Root().Crit(msg, ctx...) }

// New returns a fresh Logger with ctx's key/value pairs bound, derived
// from the current default.
func New(ctx ...interface{}) Logger { return Root().New(ctx...) }
