// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package timerstate

import (
	"bytes"
	"encoding/binary"
	"fmt"

	twistytimer "github.com/damo/twistytimer-core"
	"github.com/damo/twistytimer-core/cue"
	"github.com/damo/twistytimer-core/penalty"
	"github.com/damo/twistytimer-core/solve"
	"github.com/damo/twistytimer-core/stage"
)

// blobVersion guards the wire format below; ToBlob always writes the
// current version and FromBlob rejects anything else outright rather
// than attempting to migrate it — a format change ships with a new
// version number, not a shim (spec §4.3.4 leaves the encoding opaque to
// callers, so there is nothing external depending on this staying
// stable across versions).
const blobVersion = 1

// ToBlob serialises ts for persistence across process death, including a
// reboot that resets the monotonic clock (spec §4.3.4). now_mono/now_wall
// are the current readings at save time, used to compute each running
// segment's elapsed-at-save and to stamp the wall-clock the blob was
// written at.
func (ts *TimerState) ToBlob(nowMono, nowWall int64) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(blobVersion)

	writeInt64(&buf, ts.inspectionDurationMs)
	writeBool(&buf, ts.holdToStartEnabled)
	buf.WriteByte(byte(ts.st))
	writeInt64(&buf, nowWall)

	writeCueState(&buf, ts.cues)

	writeUint16(&buf, ts.inProgressPenalties.Encode())

	writeBool(&buf, ts.inspection.started)
	writeBool(&buf, ts.inspection.stopped)
	writeInt64(&buf, ts.inspection.elapsedMs(nowMono))

	writeBool(&buf, ts.solve.started)
	writeBool(&buf, ts.solve.paused)
	writeBool(&buf, ts.solve.stopped)
	writeInt64(&buf, ts.solve.elapsedMs(nowMono))

	writeBool(&buf, ts.hasPendingTemplate)
	if ts.hasPendingTemplate {
		buf.WriteByte(byte(ts.pendingPuzzleType))
		writeString(&buf, ts.pendingCategory)
		writeString(&buf, ts.pendingScramble)
	}

	if s, ok := ts.AttachedSolve(); ok {
		writeBool(&buf, true)
		writeSolve(&buf, s)
	} else {
		writeBool(&buf, false)
	}

	return buf.Bytes(), nil
}

// FromBlob rebuilds a TimerState from data written by ToBlob, anchoring
// any segment that was running at save time to a fresh monotonic base so
// that continued elapsed time = (elapsed at save) + (wall delta since
// save); paused or stopped segments are restored with their elapsed time
// unchanged (spec §4.3.4). now_mono/now_wall are the current readings at
// restore time.
func FromBlob(data []byte, nowMono, nowWall int64) (*TimerState, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil || version != blobVersion {
		return nil, fmt.Errorf("timerstate: FromBlob: unsupported version: %w", twistytimer.ErrInvalidEncoding)
	}

	inspectionDurationMs, err := readInt64(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	holdToStartEnabled, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	stageByte, err := r.ReadByte()
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	st := stage.Stage(stageByte)
	if !st.Valid() {
		return nil, fmt.Errorf("timerstate: FromBlob: invalid stage %d: %w", stageByte, twistytimer.ErrInvalidEncoding)
	}
	savedWallMs, err := readInt64(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	wallDelta := nowWall - savedWallMs

	cues, err := readCueState(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}

	encodedPenalties, err := readUint16(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	inProgressPenalties, err := penalty.Decode(int32(encodedPenalties))
	if err != nil {
		return nil, err
	}

	ts := &TimerState{
		inspectionDurationMs: inspectionDurationMs,
		holdToStartEnabled:   holdToStartEnabled,
		st:                   st,
		cues:                 cues,
		inProgressPenalties:  inProgressPenalties,
		refreshPeriodMs:      RefreshPeriodDefault,
	}

	inspStarted, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	inspStopped, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	inspElapsedAtSave, err := readInt64(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	if inspStarted {
		running := !inspStopped
		elapsed := inspElapsedAtSave
		if running {
			elapsed += wallDelta
			if elapsed < 0 {
				elapsed = 0
			}
			ts.inspection = inspectionPhase{started: true, startMono: nowMono - elapsed}
			ts.cues.Reload(cue.InspectionResumed)
		} else {
			ts.inspection = inspectionPhase{started: true, stopped: true, startMono: 0, stopMono: inspElapsedAtSave}
		}
	}

	solveStarted, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	solvePaused, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	solveStopped, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	solveElapsedAtSave, err := readInt64(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	if solveStarted {
		running := !solvePaused && !solveStopped
		if running {
			elapsed := solveElapsedAtSave + wallDelta
			if elapsed < 0 {
				elapsed = 0
			}
			ts.solve = solvePhase{started: true, segmentStart: nowMono - elapsed}
			ts.cues.Reload(cue.SolveResumed)
		} else {
			ts.solve = solvePhase{started: true, paused: solvePaused, stopped: solveStopped, runAccumMs: solveElapsedAtSave}
		}
	}

	hasPendingTemplate, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	if hasPendingTemplate {
		ptByte, err := r.ReadByte()
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		pt := solve.PuzzleType(ptByte)
		if !pt.Valid() {
			return nil, fmt.Errorf("timerstate: FromBlob: invalid puzzle type %d: %w", ptByte, twistytimer.ErrInvalidEncoding)
		}
		category, err := readString(r)
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		scramble, err := readString(r)
		if err != nil {
			return nil, wrapDecodeErr(err)
		}
		ts.hasPendingTemplate = true
		ts.pendingPuzzleType = pt
		ts.pendingCategory = category
		ts.pendingScramble = scramble
	}

	hasAttachedSolve, err := readBool(r)
	if err != nil {
		return nil, wrapDecodeErr(err)
	}
	if hasAttachedSolve {
		s, err := readSolve(r)
		if err != nil {
			return nil, err
		}
		ts.attachedSolve = &s
	}

	ts.setMark(nowMono)
	return ts, nil
}

func wrapDecodeErr(cause error) error {
	return fmt.Errorf("timerstate: FromBlob: truncated blob (%v): %w", cause, twistytimer.ErrInvalidEncoding)
}

// --- primitive wire helpers ------------------------------------------

func writeBool(buf *bytes.Buffer, b bool) {
	if b {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], uint64(v))
	buf.Write(tmp[:])
}

func readInt64(r *bytes.Reader) (int64, error) {
	var tmp [8]byte
	if _, err := readFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(tmp[:])), nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var tmp [2]byte
	if _, err := readFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint16(buf, uint16(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint16(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := readFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n, err := r.Read(b)
	if err == nil && n != len(b) {
		err = fmt.Errorf("short read: got %d want %d", n, len(b))
	}
	return n, err
}

// eligibleRaw reports a cue's raw eligible bit, which HasFired/CanFire
// don't expose directly once a cue has fired (CanFire masks it false).
// cue.State doesn't export the bit itself, so the blob derives it from
// the same default table restore would otherwise discard: a cue counts
// as "eligible" for serialisation purposes if it either has already
// fired, or could still fire right now.
func eligibleRaw(s *cue.State, c cue.Cue) bool {
	return s.HasFired(c) || s.CanFire(c)
}

func writeCueState(buf *bytes.Buffer, s *cue.State) {
	var fired, eligible uint16
	for _, c := range cue.All() {
		if s.HasFired(c) {
			fired |= 1 << uint(c)
		}
		if eligibleRaw(s, c) {
			eligible |= 1 << uint(c)
		}
	}
	writeUint16(buf, fired)
	writeUint16(buf, eligible)
}

func readCueState(r *bytes.Reader) (*cue.State, error) {
	firedBits, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	eligibleBits, err := readUint16(r)
	if err != nil {
		return nil, err
	}
	return cue.RestoreState(
		func(c cue.Cue) bool { return firedBits&(1<<uint(c)) != 0 },
		func(c cue.Cue) bool { return eligibleBits&(1<<uint(c)) != 0 },
	), nil
}

func writeSolve(buf *bytes.Buffer, s solve.Solve) {
	writeInt64(buf, int64(s.ID()))
	writeInt64(buf, s.ExactTimeMs())
	buf.WriteByte(byte(s.PuzzleType()))
	writeString(buf, s.Category())
	writeInt64(buf, s.DateMs())
	writeString(buf, s.Scramble())
	writeUint16(buf, s.Penalties().Encode())
	writeString(buf, s.Comment())
	writeBool(buf, s.History())
}

func readSolve(r *bytes.Reader) (solve.Solve, error) {
	id, err := readInt64(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	exactTimeMs, err := readInt64(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	ptByte, err := r.ReadByte()
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	pt := solve.PuzzleType(ptByte)
	category, err := readString(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	dateMs, err := readInt64(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	scramble, err := readString(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	encodedPenalties, err := readUint16(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	penalties, err := penalty.Decode(int32(encodedPenalties))
	if err != nil {
		return solve.Solve{}, err
	}
	comment, err := readString(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	history, err := readBool(r)
	if err != nil {
		return solve.Solve{}, wrapDecodeErr(err)
	}
	s, err := solve.New(exactTimeMs, pt, category, dateMs, scramble, penalties, comment)
	if err != nil {
		return solve.Solve{}, err
	}
	s = s.WithID(solve.SolveId(id)).WithHistory(history)
	return s, nil
}
