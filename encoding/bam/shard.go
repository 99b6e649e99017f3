// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package bam

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// Shard represents a genomic interval. The <StartRef,Start> and <EndRef,End>
// coordinates form a half-open, 0-based interval. An iterator for such a range
// will return reads whose start positions fall within that range.
//
// Padding must be >=0. It expands the read range to [PaddedStart, PaddedEnd),
// where PaddedStart=max(0, Start-Padding) and PaddedEnd=min(EndRef.Len(),
// End+Padding)).  Realignment windows use the start padding to pick up
// records that begin before the window but extend into it.
//
// ShardIdx is the index of the shard in the caller's list of work.
type Shard struct {
	StartRef *sam.Reference
	EndRef   *sam.Reference
	Start    int
	End      int

	Padding  int
	ShardIdx int
}

// ContigShard creates a shard that starts at the given position and extends
// to the end of ref.
func ContigShard(ref *sam.Reference, start, padding, shardIdx int) Shard {
	return Shard{
		StartRef: ref,
		EndRef:   ref,
		Start:    start,
		End:      ref.Len(),
		Padding:  padding,
		ShardIdx: shardIdx,
	}
}

// PadStart returns max(s.Start-padding, 0).
func (s *Shard) PadStart(padding int) int {
	return max(0, s.Start-padding)
}

// PaddedStart computes the effective start of the range to read, including
// padding.
func (s *Shard) PaddedStart() int {
	return s.PadStart(s.Padding)
}

// PadEnd end returns min(s.End+padding, length of s.EndRef)
func (s *Shard) PadEnd(padding int) int {
	if s.EndRef == nil {
		return min(InfinityPos, s.End+padding)
	}
	return min(s.EndRef.Len(), s.End+padding)
}

// PaddedEnd computes the effective limit of the range to read, including
// padding.
func (s *Shard) PaddedEnd() int {
	return s.PadEnd(s.Padding)
}

// CoordInShard returns whether coord is within the shard plus the
// supplied padding (this uses the padding parameter in place of
// s.Padding).
func (s *Shard) CoordInShard(padding int, coord Coord) bool {
	return s.PaddedRange(padding).Contains(coord)
}

// PaddedRange returns the CoordRange covered by the shard plus the supplied
// padding.
func (s *Shard) PaddedRange(padding int) CoordRange {
	return CoordRange{
		Start: NewCoord(s.StartRef, s.PadStart(padding)),
		Limit: NewCoord(s.EndRef, s.PadEnd(padding)),
	}
}

// String returns a debug string for s.
func (s *Shard) String() string {
	return fmt.Sprintf("%d:(%s[%d],%d(%d))-(%s[%d],%d(%d))",
		s.ShardIdx, s.StartRef.Name(), s.StartRef.ID(), s.Start, s.PaddedStart(),
		s.EndRef.Name(), s.EndRef.ID(), s.End, s.PaddedEnd())
}

func min(x, y int) int {
	if y < x {
		return y
	}
	return x
}

func max(x, y int) int {
	if y > x {
		return y
	}
	return x
}
