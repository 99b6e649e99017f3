package interval

import (
	"sort"

	biointerval "github.com/biogo/store/interval"
)

// span is a tagged half-open interval stored in an OverlapIndex.
type span struct {
	start, end int
	tag        int
}

func (s span) Overlap(b biointerval.IntRange) bool {
	return s.end > b.Start && s.start < b.End
}

func (s span) ID() uintptr { return uintptr(s.tag) }

func (s span) Range() biointerval.IntRange {
	return biointerval.IntRange{Start: s.start, End: s.end}
}

// point is a query for the spans containing a single position.
type point int

func (p point) Overlap(b biointerval.IntRange) bool {
	return b.Start <= int(p) && int(p) < b.End
}

// OverlapIndex answers "which spans contain position p" for a fixed set of
// half-open spans [start, end) identified by non-negative integer tags.  It
// is built once with Add and Build, and queried read-only afterwards.
type OverlapIndex struct {
	tree  biointerval.IntTree
	built bool
}

// Add registers span [start, end) under the given tag.  Empty spans are
// ignored since they contain no position.  Tags must be unique.
func (x *OverlapIndex) Add(start, end, tag int) error {
	if end <= start {
		return nil
	}
	x.built = false
	return x.tree.Insert(span{start: start, end: end, tag: tag}, true)
}

// Build finalizes the index after a sequence of Add calls.
func (x *OverlapIndex) Build() {
	x.tree.AdjustRanges()
	x.built = true
}

// Len returns the number of indexed spans.
func (x *OverlapIndex) Len() int { return x.tree.Len() }

// Query returns the tags of the spans that contain pos, in increasing order.
func (x *OverlapIndex) Query(pos int) []int {
	if !x.built {
		x.Build()
	}
	hits := x.tree.Get(point(pos))
	tags := make([]int, len(hits))
	for i, h := range hits {
		tags[i] = h.(span).tag
	}
	sort.Ints(tags)
	return tags
}
