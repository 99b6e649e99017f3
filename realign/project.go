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
	"sort"

	"github.com/grailbio/realigner/interval"
)

// Project turns the pending columns in w.Gaps into shared gap columns.
//
// Columns are applied from the highest reference position to the lowest, so
// applying a column never moves the positions of the columns still to come.
// For a column of width W at position p:
//
//   - every read whose reference span strictly contains p receives
//     W - (its own insertion at p) gaps right after its own bases at p, and
//     its end moves by W;
//   - every read that begins at or after p moves right by W.
//
// A read that starts exactly at p only moves: its own leading insertion is
// placed right-aligned in the column block when its begin is finalized.  A
// read that ends exactly at p gets its trailing insertion left-aligned in the
// block when its end is finalized.  Then the reference receives W gaps before
// p.
//
// The pending table is consumed, so calling Project again is a no-op.
func Project(w *Window) error {
	var cols []Column
	w.Gaps.Descend(func(c Column) { cols = append(cols, c) })

	if len(cols) > 0 {
		var index interval.OverlapIndex
		for i := range w.Aligned {
			a := &w.Aligned[i]
			if a.placed {
				return dataConsistencyError(fmt.Sprintf("window %v: read %s was already projected",
					w.Region, w.Reads[a.ReadIdx].Name))
			}
			if err := index.Add(a.RefBegin, a.RefEnd, i); err != nil {
				return dataConsistencyError(err, "window", w.Region.String())
			}
		}
		index.Build()

		// Indices into w.Aligned, sorted by Begin.  Shifting a suffix by the same
		// width keeps the order.
		order := make([]int, len(w.Aligned))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return w.Aligned[order[i]].Begin < w.Aligned[order[j]].Begin
		})

		for _, c := range cols {
			for _, i := range index.Query(c.Pos) {
				if err := w.projectColumn(i, c); err != nil {
					return err
				}
			}
			k := sort.Search(len(order), func(j int) bool { return w.Aligned[order[j]].Begin >= c.Pos })
			for _, i := range order[k:] {
				w.Aligned[i].Begin += c.Width
				w.Aligned[i].End += c.Width
			}
		}
		for _, c := range cols {
			if err := w.Ref.Seq.InsertGapsAtSource(c.Pos, c.Width); err != nil {
				return dataConsistencyError(err, "window", w.Region.String(), "reference")
			}
		}
	}

	for i := range w.Aligned {
		a := &w.Aligned[i]
		if a.placed {
			continue
		}
		a.Begin -= a.LeadingInsertion
		a.End += a.TrailingInsertion
		if a.Begin < 0 || a.End-a.Begin != a.Seq.ViewLen() {
			return dataConsistencyError(fmt.Sprintf("window %v: read %s placed at [%d,%d) but has %d columns",
				w.Region, w.Reads[a.ReadIdx].Name, a.Begin, a.End, a.Seq.ViewLen()))
		}
		a.placed = true
	}

	for i := len(cols) - 1; i >= 0; i-- {
		w.Columns = append(w.Columns, cols[i])
	}
	sort.Slice(w.Columns, func(i, j int) bool { return w.Columns[i].Pos < w.Columns[j].Pos })
	w.Stats.Columns += len(cols)
	w.Stats.GapWidth += w.Gaps.Total()
	w.Gaps.Reset()
	return nil
}

// projectColumn applies column c to aligned read i, which covers c.Pos.
func (w *Window) projectColumn(i int, c Column) error {
	a := &w.Aligned[i]
	off := c.Pos - a.RefBegin
	if off == 0 || off == a.RefEnd-a.RefBegin {
		return nil
	}
	own := w.Insertions[i][c.Pos]
	n := c.Width - own
	if n < 0 {
		return dataConsistencyError(fmt.Sprintf("window %v: read %s inserts %d bases at %d, wider than the column (%d)",
			w.Region, w.Reads[a.ReadIdx].Name, own, c.Pos, c.Width))
	}
	// View offset just past the read's own bases at c.Pos.
	v := off + w.Insertions[i].through(a.RefBegin, c.Pos)
	if v < 0 || v > a.Seq.ViewLen() {
		return dataConsistencyError(fmt.Sprintf("window %v: read %s: column %d maps to offset %d outside [0,%d]",
			w.Region, w.Reads[a.ReadIdx].Name, c.Pos, v, a.Seq.ViewLen()))
	}
	if err := a.Seq.InsertGaps(v, n); err != nil {
		return dataConsistencyError(err, "read", w.Reads[a.ReadIdx].Name)
	}
	a.End += c.Width
	return nil
}
