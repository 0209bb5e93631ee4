// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package penalty implements the WCA-compliant penalty algebra described
// in spec §3.1, §3.2 and §4.1: a closed Penalty enum and an immutable
// Penalties value object tracking independent pre-start (inspection) and
// post-start (solve) penalty phases.
package penalty

import (
	"fmt"

	twistytimer "github.com/damo/twistytimer-core"
)

// Penalty is the closed set of per-incursion penalty variants.
type Penalty int

const (
	// None applies no penalty.
	None Penalty = iota
	// PlusTwo adds PlusTwoMs to the solve's time.
	PlusTwo
	// DNF disqualifies the solve; it contributes no time.
	DNF
)

func (p Penalty) String() string {
	switch p {
	case None:
		return "None"
	case PlusTwo:
		return "PlusTwo"
	case DNF:
		return "DNF"
	default:
		return fmt.Sprintf("Penalty(%d)", int(p))
	}
}

const (
	// MaxPlusTwos is the maximum number of "+2" penalties a single phase
	// (pre-start or post-start) can carry.
	MaxPlusTwos = 4
	// PlusTwoMs is the time penalty, in milliseconds, of a single "+2".
	PlusTwoMs = 2000
	// maxPhaseByte is the highest valid encoded byte for one phase:
	// 2*MaxPlusTwos + 1 (dnf bit set).
	maxPhaseByte = 2*MaxPlusTwos + 1
)

// Penalties is the immutable value object pairing the pre-start
// (inspection) and post-start (solve) penalty phases. Every mutator
// returns a (possibly unchanged) Penalties; there is no way to mutate one
// in place. Zero value is NoPenalties (no penalty in either phase).
type Penalties struct {
	prePlusTwos  int8
	preDNF       bool
	postPlusTwos int8
	postDNF      bool
}

// NoPenalties is the zero-valued, fully clean Penalties.
var NoPenalties = Penalties{}

// PrePlusTwos returns the number of "+2"s incurred pre-start.
func (p Penalties) PrePlusTwos() int { return int(p.prePlusTwos) }

// PreDNF reports whether a pre-start DNF was incurred.
func (p Penalties) PreDNF() bool { return p.preDNF }

// PostPlusTwos returns the number of "+2"s incurred post-start.
func (p Penalties) PostPlusTwos() int { return int(p.postPlusTwos) }

// PostDNF reports whether a post-start DNF was incurred.
func (p Penalties) PostDNF() bool { return p.postDNF }

// HasPostPenalties reports whether the post-start phase carries any
// penalty at all (used by the pre-DNF-implies-empty-post invariant).
func (p Penalties) HasPostPenalties() bool {
	return p.postPlusTwos > 0 || p.postDNF
}

// IsDNF reports whether the combined penalties disqualify the solve
// (either phase carries a DNF).
func (p Penalties) IsDNF() bool { return p.preDNF || p.postDNF }

// valid reports whether p satisfies the invariants of spec §3.2:
// bounded counts, at most one DNF total, and pre-DNF implies empty post.
func (p Penalties) valid() bool {
	if p.prePlusTwos < 0 || p.prePlusTwos > MaxPlusTwos {
		return false
	}
	if p.postPlusTwos < 0 || p.postPlusTwos > MaxPlusTwos {
		return false
	}
	if p.preDNF && p.postDNF {
		return false
	}
	if p.preDNF && p.HasPostPenalties() {
		return false
	}
	return true
}

// TimePenaltyMs returns the total time penalty contributed by both
// phases, regardless of DNF state (spec §3.2 "Time penalty").
func (p Penalties) TimePenaltyMs() int64 {
	return int64(p.prePlusTwos+p.postPlusTwos) * PlusTwoMs
}

// PreTimePenaltyMs returns the time penalty contributed by the pre-start
// phase alone, used by TimerState.CommitSolve (spec §4.3.2: "time =
// elapsed + pre-phase time penalties").
func (p Penalties) PreTimePenaltyMs() int64 {
	return int64(p.prePlusTwos) * PlusTwoMs
}

// New builds a Penalties from explicit phase values, validating and
// interning it. Exposed mainly for decode and tests; ordinary callers
// build up a Penalties via IncurPreStart/IncurPostStart/AnnulPostStart
// starting from NoPenalties.
func New(prePlusTwos int, preDNF bool, postPlusTwos int, postDNF bool) (Penalties, error) {
	p := Penalties{
		prePlusTwos:  int8(prePlusTwos),
		preDNF:       preDNF,
		postPlusTwos: int8(postPlusTwos),
		postDNF:      postDNF,
	}
	if !p.valid() {
		return Penalties{}, fmt.Errorf("penalty: invalid combination %+v: %w", p, twistytimer.ErrInvalidEncoding)
	}
	return intern(p), nil
}

// IncurPreStart adds p to the pre-start (inspection) phase if the phase
// has room and doing so would not violate the cross-phase invariant;
// otherwise it returns p unchanged (self).
func (p Penalties) IncurPreStart(incur Penalty) Penalties {
	switch incur {
	case PlusTwo:
		if p.prePlusTwos >= MaxPlusTwos {
			return p
		}
		cand := p
		cand.prePlusTwos++
		if !cand.valid() {
			return p
		}
		return intern(cand)
	case DNF:
		if p.preDNF || p.postDNF {
			return p
		}
		cand := p
		cand.preDNF = true
		if !cand.valid() {
			return p
		}
		return intern(cand)
	default:
		return p
	}
}

// CanIncurPostStart reports whether IncurPostStart(incur) would change
// the value. Used by UI code to grey out buttons.
func (p Penalties) CanIncurPostStart(incur Penalty) bool {
	if p.preDNF {
		// post phase must stay entirely empty once a pre-start DNF exists.
		return false
	}
	switch incur {
	case PlusTwo:
		return p.postPlusTwos < MaxPlusTwos
	case DNF:
		return !p.postDNF
	default:
		return false
	}
}

// IncurPostStart adds incur to the post-start (solve) phase, subject to
// CanIncurPostStart; otherwise returns p unchanged.
func (p Penalties) IncurPostStart(incur Penalty) Penalties {
	if !p.CanIncurPostStart(incur) {
		return p
	}
	cand := p
	switch incur {
	case PlusTwo:
		cand.postPlusTwos++
	case DNF:
		cand.postDNF = true
	default:
		return p
	}
	if !cand.valid() {
		return p
	}
	return intern(cand)
}

// CanAnnulPostStart reports whether AnnulPostStart(annul) would change
// the value.
func (p Penalties) CanAnnulPostStart(annul Penalty) bool {
	switch annul {
	case PlusTwo:
		return p.postPlusTwos > 0
	case DNF:
		return p.postDNF
	default:
		return false
	}
}

// AnnulPostStart removes one instance of annul from the post-start phase
// if present; otherwise returns p unchanged. Pre-start penalties can
// never be annulled — there is no AnnulPreStart.
func (p Penalties) AnnulPostStart(annul Penalty) Penalties {
	if !p.CanAnnulPostStart(annul) {
		return p
	}
	cand := p
	switch annul {
	case PlusTwo:
		cand.postPlusTwos--
	case DNF:
		cand.postDNF = false
	default:
		return p
	}
	return intern(cand)
}

// Encode packs p into the 16-bit layout of spec §3.2: pre-phase in bits
// 0-7, post-phase in bits 8-15; within a phase, bit 0 is the DNF flag and
// the remaining bits hold plusTwos (phaseByte = 2*plusTwos + dnf).
func (p Penalties) Encode() uint16 {
	preByte := encodePhase(p.prePlusTwos, p.preDNF)
	postByte := encodePhase(p.postPlusTwos, p.postDNF)
	return uint16(preByte) | uint16(postByte)<<8
}

func encodePhase(plusTwos int8, dnf bool) uint8 {
	b := uint8(plusTwos) << 1
	if dnf {
		b |= 1
	}
	return b
}

func decodePhase(b uint8) (plusTwos int8, dnf bool, ok bool) {
	if b > maxPhaseByte {
		return 0, false, false
	}
	return int8(b >> 1), b&1 != 0, true
}

// Decode unpacks the 16-bit layout written by Encode, rejecting negative
// values, bits outside 0-15, per-phase counts above MaxPlusTwos, and the
// illegal pre-DNF-with-post-penalty combination.
func Decode(encoded int32) (Penalties, error) {
	if encoded < 0 || encoded > 0xFFFF {
		return Penalties{}, fmt.Errorf("penalty: encoded value %d out of range: %w", encoded, twistytimer.ErrInvalidEncoding)
	}
	preByte := uint8(encoded & 0xFF)
	postByte := uint8((encoded >> 8) & 0xFF)
	prePlusTwos, preDNF, ok := decodePhase(preByte)
	if !ok {
		return Penalties{}, fmt.Errorf("penalty: invalid pre-start phase byte 0x%02x: %w", preByte, twistytimer.ErrInvalidEncoding)
	}
	postPlusTwos, postDNF, ok := decodePhase(postByte)
	if !ok {
		return Penalties{}, fmt.Errorf("penalty: invalid post-start phase byte 0x%02x: %w", postByte, twistytimer.ErrInvalidEncoding)
	}
	p := Penalties{prePlusTwos: prePlusTwos, preDNF: preDNF, postPlusTwos: postPlusTwos, postDNF: postDNF}
	if !p.valid() {
		return Penalties{}, fmt.Errorf("penalty: decoded combination %+v violates invariants: %w", p, twistytimer.ErrInvalidEncoding)
	}
	return intern(p), nil
}

func (p Penalties) String() string {
	return fmt.Sprintf("Penalties{pre:%d+%v post:%d+%v}", p.prePlusTwos, p.preDNF, p.postPlusTwos, p.postDNF)
}
