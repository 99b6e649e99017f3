// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"fmt"
	"math"

	"github.com/grailbio/hts/sam"
)

const (
	// InfinityPos is 1+ the largest possible alignment position.
	InfinityPos = math.MaxInt32

	// UnmappedRefID is the reference ID of unplaced records.  They sort after
	// every mapped record.
	UnmappedRefID = int32(-1)
)

// Coord is a (reference, position) pair in coordinate-sorted BAM order.
type Coord struct {
	RefID int32
	Pos   int32
}

// CoordRange is a half-open range [Start, Limit) of Coords.
type CoordRange struct {
	Start, Limit Coord
}

func sortableRefID(id int32) int32 {
	if id == UnmappedRefID {
		return math.MaxInt32
	}
	return id
}

// Compare returns (negative int, 0, positive int) if (r<r1, r=r1, r>r1)
// respectively.
func (r Coord) Compare(r1 Coord) int {
	refid0 := sortableRefID(r.RefID)
	refid1 := sortableRefID(r1.RefID)
	if refid0 != refid1 {
		if refid0 < refid1 {
			return -1
		}
		return 1
	}
	return int(r.Pos) - int(r1.Pos)
}

// LT returns true iff r < r1.
func (r Coord) LT(r1 Coord) bool { return r.Compare(r1) < 0 }

// LE returns true iff r <= r1.
func (r Coord) LE(r1 Coord) bool { return r.Compare(r1) <= 0 }

// GT returns true iff r > r1.
func (r Coord) GT(r1 Coord) bool { return r.Compare(r1) > 0 }

// GE returns true iff r >= r1.
func (r Coord) GE(r1 Coord) bool { return r.Compare(r1) >= 0 }

// Unmapped reports whether r is the coordinate of an unplaced record.
func (r Coord) Unmapped() bool { return r.RefID == UnmappedRefID }

func (r Coord) String() string {
	if r.Unmapped() {
		return "unmapped"
	}
	return fmt.Sprintf("%d:%d", r.RefID, r.Pos)
}

// Contains returns true iff a is in r.
func (r CoordRange) Contains(a Coord) bool {
	return a.GE(r.Start) && a.LT(r.Limit)
}

// NewCoord creates a Coord for the given reference and position.  A nil
// reference yields the unmapped coordinate.
func NewCoord(ref *sam.Reference, pos int) Coord {
	a := Coord{RefID: int32(ref.ID()), Pos: int32(pos)}
	if a.RefID == UnmappedRefID && pos < 0 {
		// The convention is to store -1 as the position of unplaced records, but
		// negative positions are not used elsewhere.
		a.Pos = 0
	}
	return a
}

// CoordFromSAMRecord computes the Coord of the given record.
func CoordFromSAMRecord(rec *sam.Record) Coord {
	return NewCoord(rec.Ref, rec.Pos)
}
