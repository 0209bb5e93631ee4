// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package twistytimer is the module root; it declares the error kinds
// shared across the core timing engine (spec §7). Every sub-package
// returns one of these, wrapped with context via fmt.Errorf's %w.
package twistytimer

import "errors"

// ErrInvalidEncoding is returned when decoding a Penalties or TimerState
// blob yields a bit pattern that cannot correspond to any valid value.
var ErrInvalidEncoding = errors.New("twistytimer: invalid encoding")

// ErrIllegalState is returned when an API is used from a stage that
// forbids it (e.g. starting a solve while inspection is still running).
// This is always a caller bug; the state machine never recovers from it.
var ErrIllegalState = errors.New("twistytimer: illegal state")

// ErrInvalidArgument is returned for out-of-range arguments: a refresh
// period <= 0 (other than the -1 "restore default" sentinel), a time
// <= 0 (and not TimeDNF) added to a calculator, or N <= 0 for a
// calculator.
var ErrInvalidArgument = errors.New("twistytimer: invalid argument")
