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
	"context"
	"fmt"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
	gbam "github.com/grailbio/realigner/encoding/bam"
	"github.com/grailbio/realigner/encoding/bamprovider"
	"github.com/grailbio/realigner/encoding/fasta"
	"github.com/grailbio/realigner/gapped"
)

// LoadWindow loads the reads and the reference for a region.
//
// The region is first widened by opts.WindowRadius on both sides.  Records
// are then streamed in coordinate order, starting opts.MaxReadSpan bases
// before the widened start so that reads reaching into the window from the
// left are seen; a read starting further back is missed, never rejected.
// Every record overlapping the window is kept, and the window
// grows to cover each kept record's reference span.  Streaming stops at the
// first record past the current window end or at the first unplaced record.
// The reference is fetched last, for exactly the final window.
//
// An unknown contig yields an error for which IsNameResolution is true.  A
// window without mapped reads is not an error; it is reported through
// Stats.NoAlignments.
func LoadWindow(ctx context.Context, provider bamprovider.Provider, ref fasta.Fasta, region Region, opts Opts) (*Window, error) {
	header, err := provider.GetHeader()
	if err != nil {
		return nil, err
	}
	samRef := bamprovider.RefByName(header, region.RefName)
	if samRef == nil {
		return nil, nameResolutionError(fmt.Sprintf("contig %s of region %v not found in the BAM header", region.RefName, region))
	}
	region.RefID = samRef.ID()
	if region.Start < 0 || region.Start > region.End {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("invalid region %v", region))
	}
	w := &Window{Requested: region}
	ext := region.extend(opts.WindowRadius, samRef.Len())
	if ext.Start > ext.End {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("region %v lies past the end of %s (length %d)",
			region, region.RefName, samRef.Len()))
	}
	if opts.Verbosity >= 2 {
		log.Printf("Loading alignments for %v", ext)
	}
	if err := w.loadReads(provider, samRef, &ext, opts); err != nil {
		return nil, err
	}
	w.Region = ext
	if w.Stats.Mapped == 0 {
		log.Printf("WARNING: No alignments in region %v", region)
		w.Stats.NoAlignments = true
	}

	if opts.Verbosity >= 2 {
		log.Printf("Loading reference for %v", ext)
	}
	seq, err := ref.Get(ext.RefName, uint64(ext.Start), uint64(ext.End))
	if err != nil {
		if errors.Is(errors.NotExist, err) {
			return nil, nameResolutionError(err, "reference for region", region.String())
		}
		return nil, errors.E(err, "reference for region", region.String())
	}
	w.Ref = ReferenceWindow{RefName: ext.RefName, Start: ext.Start, Seq: gapped.NewString(seq)}
	return w, nil
}

// loadReads streams the records for the window, widening ext to cover every
// record kept.
func (w *Window) loadReads(provider bamprovider.Provider, samRef *sam.Reference, ext *Region, opts Opts) (err error) {
	iter := provider.NewIterator(gbam.ContigShard(samRef, ext.Start, opts.MaxReadSpan, 0))
	defer func() {
		if e := iter.Close(); e != nil && err == nil {
			err = e
		}
	}()

	contigLen := samRef.Len()
	// Records that ended before the window start when they were seen.  They
	// may still overlap once an earlier-starting read widens the window.
	var early []Read
	for iter.Scan() {
		rec := iter.Record()
		coord := gbam.CoordFromSAMRecord(rec)
		if coord.Unmapped() || coord.GT(gbam.NewCoord(samRef, ext.End)) {
			break
		}
		read := newRead(rec)
		if read.Unmapped {
			if read.Pos >= ext.Start {
				w.Reads = append(w.Reads, read)
				w.Stats.Unmapped++
			}
			continue
		}
		span := read.refSpan()
		if !overlaps(read.Pos, read.Pos+span, ext.Start) {
			early = append(early, read)
			continue
		}
		w.addMapped(read, span, ext, contigLen)
	}
	if err = iter.Err(); err != nil {
		return err
	}

	// Pull in early records until none overlaps the widened window.
	for added := true; added; {
		added = false
		for i := len(early) - 1; i >= 0; i-- {
			read := early[i]
			span := read.refSpan()
			if !overlaps(read.Pos, read.Pos+span, ext.Start) {
				continue
			}
			w.addMapped(read, span, ext, contigLen)
			early = append(early[:i], early[i+1:]...)
			added = true
		}
	}
	sort.SliceStable(w.Reads, func(i, j int) bool { return w.Reads[i].Pos < w.Reads[j].Pos })
	return nil
}

func (w *Window) addMapped(read Read, span int, ext *Region, contigLen int) {
	w.Reads = append(w.Reads, read)
	w.Stats.Mapped++
	ext.Start = minInt(ext.Start, read.Pos)
	ext.End = maxInt(ext.End, minInt(read.Pos+span, contigLen))
}

// overlaps reports whether a read spanning [pos, end) touches a window
// starting at start.  Reads that start inside the window always do, even if
// they consume no reference.
func overlaps(pos, end, start int) bool {
	return end > start || pos >= start
}
