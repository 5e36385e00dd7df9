// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// logf emits a record attributed to the caller of the logging method.
func logf(l *slog.Logger, lvl slog.Level, msg string, args ...any) {
	if l == nil || !l.Enabled(context.Background(), lvl) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	r := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(context.Background(), r)
}

func (l *Library) debug(msg string, args ...any) {
	logf(l.cnf.Logger, slog.LevelDebug, msg, args...)
}

func (l *Library) warn(msg string, args ...any) {
	logf(l.cnf.Logger, slog.LevelWarn, msg, args...)
}
