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

	"github.com/grailbio/realigner/gapped"
)

// Ingested is the result of walking one read's CIGAR.
type Ingested struct {
	Aligned    AlignedRead
	Insertions InsertionTable
}

// Ingest converts a mapped read into its initial layout relative to a window
// starting at contig position windowStart.
//
// The aligned bases (match and insertion operations) form the read's gapped
// sequence, with a gap run for every deletion or reference skip.  Each
// insertion is recorded in the insertion table at the reference position it
// precedes.  An insertion at the read's first reference position also counts
// as the leading insertion, and one at its end as the trailing insertion; an
// insertion that follows a leading deletion is internal.
// Soft clips are dropped or kept as flanks according to opts.ClipPolicy.
//
// The read's CIGAR must consume exactly len(read.Seq) read bases.  If the
// record carries no sequence, the aligned bases are rendered as 'N'.
func Ingest(read Read, windowStart int, opts Opts) (Ingested, error) {
	if read.Unmapped {
		return Ingested{}, dataConsistencyError(fmt.Sprintf("read %s: cannot ingest an unmapped read", read.Name))
	}
	_, readLen := read.Cigar.Lengths()
	seq := read.Seq
	if len(seq) == 0 && readLen > 0 {
		seq = make([]byte, readLen)
		for i := range seq {
			seq[i] = 'N'
		}
	}
	if readLen != len(seq) {
		return Ingested{}, dataConsistencyError(
			fmt.Sprintf("read %s: CIGAR %v consumes %d bases, but the read has %d", read.Name, read.Cigar, readLen, len(seq)))
	}

	var (
		refBegin = read.Pos - windowStart
		refOff   int // reference bases consumed
		seqOff   int // read bases consumed, including clips
		aligned  = make([]byte, 0, len(seq))
		dels     []gapped.Run
		ins      = InsertionTable{}
		matched  bool
		res      Ingested
	)
	for _, co := range read.Cigar {
		kind, err := opKindOf(co.Type())
		if err != nil {
			return Ingested{}, dataConsistencyError(err, "read", read.Name)
		}
		n := co.Len()
		switch kind {
		case Match:
			aligned = append(aligned, seq[seqOff:seqOff+n]...)
			refOff += n
			seqOff += n
			matched = true
		case Insertion:
			ins[refBegin+refOff] += n
			aligned = append(aligned, seq[seqOff:seqOff+n]...)
			seqOff += n
		case Deletion:
			dels = append(dels, gapped.Run{Pos: len(aligned), Len: n})
			refOff += n
		case Padding, HardClip:
		case SoftClip:
			if opts.ClipPolicy == ClipFlank {
				clip := seq[seqOff : seqOff+n]
				if !matched && len(aligned) == 0 {
					res.Aligned.LeadingClip = append(res.Aligned.LeadingClip, clip...)
				} else {
					res.Aligned.TrailingClip = append(res.Aligned.TrailingClip, clip...)
				}
			}
			seqOff += n
		}
	}

	gs := gapped.New(aligned)
	for _, d := range dels {
		if err := gs.InsertGapsAtSource(d.Pos, d.Len); err != nil {
			return Ingested{}, dataConsistencyError(err, "read", read.Name)
		}
	}
	refEnd := refBegin + refOff
	res.Aligned.RefBegin, res.Aligned.RefEnd = refBegin, refEnd
	res.Aligned.Begin, res.Aligned.End = refBegin, refEnd
	res.Aligned.Seq = gs
	res.Aligned.LeadingInsertion = ins[refBegin]
	if refEnd > refBegin {
		res.Aligned.TrailingInsertion = ins[refEnd]
	}
	res.Insertions = ins
	return res, nil
}

// Ingest ingests every mapped read of the window and aggregates their
// insertions into w.Gaps.  It replaces any previous ingestion result.
func (w *Window) Ingest(opts Opts) error {
	w.Aligned = w.Aligned[:0]
	w.Insertions = w.Insertions[:0]
	w.Gaps.Reset()
	w.Columns = nil
	for i := range w.Reads {
		if w.Reads[i].Unmapped {
			continue
		}
		res, err := Ingest(w.Reads[i], w.Region.Start, opts)
		if err != nil {
			return err
		}
		res.Aligned.ReadIdx = i
		w.Aligned = append(w.Aligned, res.Aligned)
		w.Insertions = append(w.Insertions, res.Insertions)
		w.Gaps.Merge(res.Insertions)
	}
	return nil
}
