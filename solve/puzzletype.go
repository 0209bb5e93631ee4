// Copyright 2026 Damo. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package solve

import "fmt"

// PuzzleType is the closed set of puzzles the timer can be configured
// for (spec §3.3). The zero value, Cube333, is the default puzzle.
type PuzzleType int

const (
	Cube333 PuzzleType = iota
	Cube222
	Cube444
	Cube555
	Cube666
	Cube777
	Cube333BLD
	Cube333OH
	Pyraminx
	Megaminx
	Skewb

	numPuzzleTypes
)

var puzzleTypeNames = [numPuzzleTypes]string{
	Cube333:    "3x3x3",
	Cube222:    "2x2x2",
	Cube444:    "4x4x4",
	Cube555:    "5x5x5",
	Cube666:    "6x6x6",
	Cube777:    "7x7x7",
	Cube333BLD: "3x3x3 BLD",
	Cube333OH:  "3x3x3 OH",
	Pyraminx:   "Pyraminx",
	Megaminx:   "Megaminx",
	Skewb:      "Skewb",
}

// Valid reports whether pt is one of the closed PuzzleType variants.
func (pt PuzzleType) Valid() bool {
	return pt >= Cube333 && pt < numPuzzleTypes
}

func (pt PuzzleType) String() string {
	if !pt.Valid() {
		return fmt.Sprintf("PuzzleType(%d)", int(pt))
	}
	return puzzleTypeNames[pt]
}
