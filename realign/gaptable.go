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
	"github.com/biogo/store/llrb"
)

// InsertionTable maps a window-relative reference position to the number of
// bases a read inserts immediately before that position.
type InsertionTable map[int]int

// through returns the total insertion length at positions [from, to].
func (t InsertionTable) through(from, to int) int {
	n := 0
	for pos, l := range t {
		if pos >= from && pos <= to {
			n += l
		}
	}
	return n
}

type gapColumn Column

// Compare implements llrb.Comparable.
func (c gapColumn) Compare(b llrb.Comparable) int {
	return c.Pos - b.(gapColumn).Pos
}

// GapTable maps a window-relative reference position to the widest
// insertion any read makes before it.  The result does not depend on the
// order in which values are added.
type GapTable struct {
	tree  llrb.Tree
	total int
}

// Set raises the width at pos to width if that is larger than the current
// value.  Nonpositive widths are ignored.
func (t *GapTable) Set(pos, width int) {
	if width <= 0 {
		return
	}
	old := t.Get(pos)
	if width <= old {
		return
	}
	t.tree.Insert(gapColumn{Pos: pos, Width: width})
	t.total += width - old
}

// Merge adds every entry of a read's insertion table.
func (t *GapTable) Merge(ins InsertionTable) {
	for pos, width := range ins {
		t.Set(pos, width)
	}
}

// Get returns the width at pos, or 0.
func (t *GapTable) Get(pos int) int {
	if c := t.tree.Get(gapColumn{Pos: pos}); c != nil {
		return c.(gapColumn).Width
	}
	return 0
}

// Len returns the number of positions with a nonzero width.
func (t *GapTable) Len() int { return t.tree.Len() }

// Total returns the sum of all widths.
func (t *GapTable) Total() int { return t.total }

// Descend calls fn for each column, from the highest position to the lowest.
func (t *GapTable) Descend(fn func(c Column)) {
	t.tree.DoReverse(func(e llrb.Comparable) bool {
		fn(Column(e.(gapColumn)))
		return false
	})
}

// Columns returns all columns in increasing position order.
func (t *GapTable) Columns() []Column {
	cols := make([]Column, 0, t.tree.Len())
	t.tree.Do(func(e llrb.Comparable) bool {
		cols = append(cols, Column(e.(gapColumn)))
		return false
	})
	return cols
}

// Reset removes all columns.
func (t *GapTable) Reset() {
	*t = GapTable{}
}
