// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package xlog is the module-wide logging facade. The teacher
// (intuitivelabs/wtimer) guards every diagnostic behind a DBGon()/ERRon()
// check before formatting and logs through github.com/intuitivelabs/slog
// — wtimer.go, wtimer_ticker.go and wtimer_run.go all call DBG(...)/
// ERR(...) this way, though the teacher's own definition of those helpers
// was not part of the retrieved source; this package supplies the same
// shape so the rest of the module can keep using it unchanged.
package xlog

import "github.com/intuitivelabs/slog"

// Log is the package-wide logger instance. Its level is configured once
// at process start (e.g. via SetLevel) and never touched from inside the
// timing engine's state machine itself — logging here is pure
// observability, never control flow.
var Log slog.Log

// SetLevel adjusts the minimum level that reaches the log sink.
func SetLevel(level slog.LogLevel) {
	slog.SetLevel(&Log, level)
}

// DBGon reports whether debug-level logging is currently enabled, so
// callers can skip formatting work entirely when it is not.
func DBGon() bool { return Log.DBGon() }

// ERRon reports whether error-level logging is currently enabled.
func ERRon() bool { return Log.ERRon() }

// DBG logs a debug-level diagnostic. Callers should guard expensive
// argument construction with DBGon() first.
func DBG(f string, args ...interface{}) { Log.DBG(f, args...) }

// ERR logs an error-level diagnostic.
func ERR(f string, args ...interface{}) { Log.ERR(f, args...) }

// WARN logs a warning-level diagnostic.
func WARN(f string, args ...interface{}) { Log.WARN(f, args...) }
