// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package alog is a minimal leveled logging indirection layer.
//
// The afu core logs only diagnostics (probe outcomes, fallback decisions)
// and must work against whatever logging stack the host application runs.
// alog decouples the core from that choice: one [Logger] contract, several
// interchangeable backends, selected once at startup.
//
// Backend selection reads AFU_LOG on first use:
//
//	structured  github.com/sa6mwa/pslog structured (JSON) adapter, stderr
//	console     pslog console adapter, stderr
//	off         discard everything
//	(other)     the process log/slog default logger
//
// [Set] installs a custom backend at any time and wins over the
// environment. Logging is best-effort and never part of correctness; a
// cause is passed as an "err" key-value pair.
package alog

import (
	"os"
	"sync/atomic"
)

// Level identifies a diagnostic severity. Trace is the lowest.
type Level int8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the leveled logging contract the afu core needs.
// Implementations must be safe for concurrent use and must not panic;
// keyvals are alternating key-value pairs, read-only to the backend.
type Logger interface {
	// Enabled reports whether records at the given level are emitted.
	// Callers use it to skip expensive argument construction.
	Enabled(level Level) bool
	Trace(msg string, keyvals ...any)
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// holder wraps the interface value so the backend can be swapped with a
// single pointer store.
type holder struct {
	l Logger
}

var backend atomic.Pointer[holder]

// L returns the process logger, selecting the backend from AFU_LOG on
// first use.
func L() Logger {
	if h := backend.Load(); h != nil {
		return h.l
	}
	h := &holder{l: fromEnv(os.Getenv("AFU_LOG"))}
	if backend.CompareAndSwap(nil, h) {
		return h.l
	}
	return backend.Load().l
}

// Set installs l as the process logger, replacing any environment-selected
// backend. A nil l silences logging.
func Set(l Logger) {
	if l == nil {
		l = Nop()
	}
	backend.Store(&holder{l: l})
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Enabled(Level) bool   { return false }
func (nopLogger) Trace(string, ...any) {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
