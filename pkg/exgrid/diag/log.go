// Package diag carries the operational logging used across exgrid: leveled
// messages through alog and an elapsed-time file logger for long jobs.
package diag

import (
	"context"
	"sync/atomic"

	"go.alis.build/alog"
)

var quiet atomic.Bool

// SetQuiet suppresses Warnf/Infof output, e.g. for CLI commands whose
// stdout is machine-read.
func SetQuiet(q bool) { quiet.Store(q) }

// Warnf reports a recoverable problem, such as a worksheet part that could
// not be read and was skipped.
func Warnf(ctx context.Context, format string, a ...any) {
	if quiet.Load() {
		return
	}
	alog.Warnf(ctx, format, a...)
}

// Infof reports routine progress.
func Infof(ctx context.Context, format string, a ...any) {
	if quiet.Load() {
		return
	}
	alog.Infof(ctx, format, a...)
}

// Debugf reports detail useful while tracing a load or save.
func Debugf(ctx context.Context, format string, a ...any) {
	if quiet.Load() {
		return
	}
	alog.Debugf(ctx, format, a...)
}

// SetLevel forwards to alog.SetLevel.
func SetLevel(level alog.LogLevel) { alog.SetLevel(level) }
