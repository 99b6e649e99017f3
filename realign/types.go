// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package realign

import (
	"fmt"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/realigner/gapped"
	"github.com/grailbio/realigner/interval"
)

// Region is a half-open, 0-based interval [Start, End) on contig RefName.
// RefID is the contig's index in the BAM header, or -1 if not resolved yet.
type Region struct {
	RefName    string
	RefID      int
	Start, End int
}

// RegionFromEntry converts an interval entry to an unresolved Region.
func RegionFromEntry(e interval.Entry) Region {
	return Region{RefName: e.ChrName, RefID: -1, Start: int(e.Start0), End: int(e.End)}
}

// String returns the region as a 1-based samtools-style string.
func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.RefName, r.Start+1, r.End)
}

// Len returns End-Start.
func (r Region) Len() int { return r.End - r.Start }

// extend widens r by radius on both sides, clamped to [0, contigLen].
func (r Region) extend(radius, contigLen int) Region {
	r.Start = maxInt(0, r.Start-radius)
	r.End = minInt(contigLen, r.End+radius)
	return r
}

// Read is one alignment record loaded for a window.  It is not modified after
// loading.
type Read struct {
	Name string
	// Seq holds the read bases including soft clips.  It is empty if the record
	// stores no sequence.
	Seq      []byte
	Unmapped bool
	// Pos is the 0-based reference position of the first aligned base.
	Pos   int
	Cigar sam.Cigar
}

func newRead(rec *sam.Record) Read {
	return Read{
		Name:     rec.Name,
		Seq:      rec.Seq.Expand(),
		Unmapped: rec.Flags&sam.Unmapped != 0,
		Pos:      rec.Pos,
		Cigar:    rec.Cigar,
	}
}

// refSpan returns the number of reference bases the read's CIGAR consumes.
func (r *Read) refSpan() int {
	ref, _ := r.Cigar.Lengths()
	return ref
}

// AlignedRead is the layout of one mapped read within its window.
//
// Begin and End are column coordinates.  Before projection they equal
// RefBegin and RefEnd; afterwards End-Begin == Seq.ViewLen() and column
// Begin+i holds Seq.At(i).
type AlignedRead struct {
	// ReadIdx indexes Window.Reads.
	ReadIdx int
	// RefBegin and RefEnd delimit the reference bases covered by the read,
	// relative to the window start.
	RefBegin, RefEnd int
	Begin, End       int
	// Seq holds the aligned bases, with the read's own deletions as gaps.
	Seq *gapped.Sequence
	// LeadingInsertion is the length of the insertion that precedes the
	// read's first aligned base.  TrailingInsertion follows its last one.
	LeadingInsertion  int
	TrailingInsertion int
	// Soft-clipped flanks, kept only under ClipFlank.
	LeadingClip, TrailingClip []byte

	placed bool
}

// ReferenceWindow is the reference sequence of a window.
type ReferenceWindow struct {
	RefName string
	// Start is the 0-based contig position of the first base.
	Start int
	Seq   *gapped.Sequence
}

// Column is one shared insertion column block: Width gap columns placed
// before window-relative reference position Pos.
type Column struct {
	Pos, Width int
}

// WindowStats summarizes one window.
type WindowStats struct {
	// NoAlignments is set when no mapped read overlaps the window.  This is a
	// warning, not an error.
	NoAlignments bool
	Mapped       int
	Unmapped     int
	// Columns and GapWidth count the projected insertion columns and their
	// total width.
	Columns  int
	GapWidth int
}

// Window is the state of one region being realigned.  It is owned by a
// single goroutine.
type Window struct {
	// Requested is the region as given by the caller, with RefID resolved.
	Requested Region
	// Region is the final extent: Requested widened by the radius and by the
	// loaded alignments.
	Region Region
	Ref    ReferenceWindow
	Reads  []Read
	// Aligned and Insertions are parallel arrays, one entry per mapped read.
	Aligned    []AlignedRead
	Insertions []InsertionTable
	// Gaps holds the columns that are yet to be projected.
	Gaps GapTable
	// Columns lists the projected columns in increasing position order.
	Columns []Column
	Stats   WindowStats
}

func minInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func maxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}
