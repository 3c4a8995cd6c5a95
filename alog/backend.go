// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package alog

import (
	"context"
	"log/slog"
	"os"

	"pkt.systems/pslog"
)

// fromEnv builds the backend named by mode. Unknown modes, including the
// empty string, fall back to the host application's slog default so afu
// diagnostics land wherever the application already logs.
func fromEnv(mode string) Logger {
	switch mode {
	case "off":
		return Nop()
	case "structured":
		return pslogBackend{l: pslog.NewStructured(os.Stderr)}
	case "console":
		return pslogBackend{l: pslog.New(os.Stderr)}
	default:
		return NewSlog(slog.Default())
	}
}

// NewSlog adapts a log/slog logger to the [Logger] contract.
// Trace maps below slog.LevelDebug so it stays gated by default.
func NewSlog(l *slog.Logger) Logger {
	return slogBackend{l: l}
}

// levelTrace sits one slog band below debug.
const levelTrace = slog.LevelDebug - 4

type slogBackend struct {
	l *slog.Logger
}

func (b slogBackend) slogLevel(level Level) slog.Level {
	switch level {
	case LevelTrace:
		return levelTrace
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

func (b slogBackend) Enabled(level Level) bool {
	return b.l.Enabled(context.Background(), b.slogLevel(level))
}

func (b slogBackend) Trace(msg string, keyvals ...any) {
	b.l.Log(context.Background(), levelTrace, msg, keyvals...)
}

func (b slogBackend) Debug(msg string, keyvals ...any) { b.l.Debug(msg, keyvals...) }
func (b slogBackend) Info(msg string, keyvals ...any)  { b.l.Info(msg, keyvals...) }
func (b slogBackend) Warn(msg string, keyvals ...any)  { b.l.Warn(msg, keyvals...) }
func (b slogBackend) Error(msg string, keyvals ...any) { b.l.Error(msg, keyvals...) }

// pslogger is the slice of the pslog API the adapter needs; holding the
// methods structurally keeps the adapter independent of the concrete
// pslog logger type.
type pslogger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

type pslogBackend struct {
	l pslogger
}

// Enabled is always true: pslog gates levels internally and the afu core
// logs rarely enough that pre-filtering buys nothing.
func (b pslogBackend) Enabled(Level) bool { return true }

// Trace maps to pslog debug; pslog has no trace band.
func (b pslogBackend) Trace(msg string, keyvals ...any) { b.l.Debug(msg, keyvals...) }

func (b pslogBackend) Debug(msg string, keyvals ...any) { b.l.Debug(msg, keyvals...) }
func (b pslogBackend) Info(msg string, keyvals ...any)  { b.l.Info(msg, keyvals...) }
func (b pslogBackend) Warn(msg string, keyvals ...any)  { b.l.Warn(msg, keyvals...) }
func (b pslogBackend) Error(msg string, keyvals ...any) { b.l.Error(msg, keyvals...) }
