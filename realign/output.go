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
	"bytes"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/tsv"
)

// LayoutWriter writes realigned windows as TSV, one line per row:
//
//   #REGION  ROW  NAME  BEGIN  END  SEQ  [LCLIP  RCLIP]
//
// Row 0 of each window is the gapped reference, named after the contig and
// spanning all columns.  Reads follow in order of their begin column.  BEGIN
// and END are 0-based, half-open column coordinates within the window.  The
// clip columns are present only under ClipFlank; they hold the soft-clipped
// bases in lowercase, or "." when there are none.
type LayoutWriter struct {
	w      *tsv.Writer
	policy ClipPolicy
}

// NewLayoutWriter creates a LayoutWriter that writes to w.
func NewLayoutWriter(w io.Writer, policy ClipPolicy) *LayoutWriter {
	return &LayoutWriter{w: tsv.NewWriter(w), policy: policy}
}

// WriteHeader writes the column header line.
func (lw *LayoutWriter) WriteHeader() error {
	lw.w.WriteString("#REGION\tROW\tNAME\tBEGIN\tEND\tSEQ")
	if lw.policy == ClipFlank {
		lw.w.WriteString("LCLIP\tRCLIP")
	}
	return lw.w.EndLine()
}

// WriteWindow writes the rows of a projected window.
func (lw *LayoutWriter) WriteWindow(w *Window) error {
	region := w.Requested.String()
	if err := lw.writeRow(region, 0, w.Ref.RefName, 0, w.Ref.Seq.ViewLen(), w.Ref.Seq.String(), nil, nil); err != nil {
		return err
	}
	order := make([]int, len(w.Aligned))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := &w.Aligned[order[i]], &w.Aligned[order[j]]
		if a.Begin != b.Begin {
			return a.Begin < b.Begin
		}
		return a.ReadIdx < b.ReadIdx
	})
	for row, i := range order {
		a := &w.Aligned[i]
		if err := lw.writeRow(region, row+1, w.Reads[a.ReadIdx].Name, a.Begin, a.End, a.Seq.String(),
			a.LeadingClip, a.TrailingClip); err != nil {
			return err
		}
	}
	return nil
}

func (lw *LayoutWriter) writeRow(region string, row int, name string, begin, end int, seq string, lclip, rclip []byte) error {
	lw.w.WriteString(region)
	lw.w.WriteString(strconv.Itoa(row))
	lw.w.WriteString(name)
	lw.w.WriteInt64(int64(begin))
	lw.w.WriteInt64(int64(end))
	lw.w.WriteString(seq)
	if lw.policy == ClipFlank {
		lw.w.WriteString(clipField(lclip))
		lw.w.WriteString(clipField(rclip))
	}
	return lw.w.EndLine()
}

func clipField(clip []byte) string {
	if len(clip) == 0 {
		return "."
	}
	return string(bytes.ToLower(clip))
}

// Flush flushes buffered rows to the underlying writer.
func (lw *LayoutWriter) Flush() error {
	return lw.w.Flush()
}
