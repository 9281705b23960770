// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

var root atomic.Value

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(l)
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().(Logger)
}

// WithContext returns a logger bound to the given key/value context. The root
// handler is resolved at log time, so handlers installed later by SetDefault
// apply to loggers created during package init.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type contextLogger struct {
	ctx []any
}

func (c *contextLogger) resolve() Logger {
	return Root().With(c.ctx...)
}

func (c *contextLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(c.ctx)+len(ctx))
	merged = append(merged, c.ctx...)
	merged = append(merged, ctx...)
	return &contextLogger{ctx: merged}
}

func (c *contextLogger) New(ctx ...any) Logger {
	return c.With(ctx...)
}

func (c *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	c.resolve().Write(level, msg, ctx...)
}

func (c *contextLogger) Trace(msg string, ctx ...any) {
	c.resolve().Write(LevelTrace, msg, ctx...)
}

func (c *contextLogger) Debug(msg string, ctx ...any) {
	c.resolve().Write(slog.LevelDebug, msg, ctx...)
}

func (c *contextLogger) Info(msg string, ctx ...any) {
	c.resolve().Write(slog.LevelInfo, msg, ctx...)
}

func (c *contextLogger) Warn(msg string, ctx ...any) {
	c.resolve().Write(slog.LevelWarn, msg, ctx...)
}

func (c *contextLogger) Error(msg string, ctx ...any) {
	c.resolve().Write(slog.LevelError, msg, ctx...)
}

func (c *contextLogger) Crit(msg string, ctx ...any) {
	c.resolve().Crit(msg, ctx...)
}

func (c *contextLogger) Write(level slog.Level, msg string, attrs ...any) {
	c.resolve().Write(level, msg, attrs...)
}

func (c *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (c *contextLogger) Handler() slog.Handler {
	return Root().Handler()
}

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...any) {
	Root().Write(LevelTrace, msg, ctx...)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...any) {
	Root().Write(slog.LevelDebug, msg, ctx...)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...any) {
	Root().Write(slog.LevelInfo, msg, ctx...)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...any) {
	Root().Write(slog.LevelWarn, msg, ctx...)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...any) {
	Root().Write(slog.LevelError, msg, ctx...)
}

// Crit is a convenient alias for Root().Crit
func Crit(msg string, ctx ...any) {
	Root().Crit(msg, ctx...)
}
