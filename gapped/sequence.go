// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package gapped implements a sequence of source symbols interleaved with
// runs of gap characters.
//
// A Sequence has two coordinate systems.  Source positions index the
// underlying ungapped symbols, in [0, SourceLen()].  View positions index the
// gapped rendition, in [0, ViewLen()].  Gaps are stored as runs anchored
// before a source position, so a run anchored at SourceLen() is a trailing
// run.  For example, source "ACGT" with a run of two anchored at 2 renders
// as "AC--GT":
//
//   view:   0 1 2 3 4 5
//   symbol: A C - - G T
//   source: 0 1 2 2 2 3
package gapped

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Gap is the character used to render a gap column.
const Gap = '-'

// Run is a maximal run of gaps anchored immediately before source position
// Pos.
type Run struct {
	Pos int
	Len int
}

// Sequence is a source sequence plus a set of gap runs.  The zero value is an
// empty sequence.
type Sequence struct {
	src []byte
	// Runs sorted by source position.  Positions are unique.
	pos []int
	// cum[i] is the total gap length of runs [0,i].
	cum []int
}

// New creates a gap-free Sequence over src.  The Sequence takes ownership of
// src.
func New(src []byte) *Sequence {
	return &Sequence{src: src}
}

// NewString is New([]byte(src)).
func NewString(src string) *Sequence {
	return New([]byte(src))
}

// SourceLen returns the number of source symbols.
func (s *Sequence) SourceLen() int { return len(s.src) }

// GapCount returns the total number of gap characters.
func (s *Sequence) GapCount() int {
	if len(s.cum) == 0 {
		return 0
	}
	return s.cum[len(s.cum)-1]
}

// ViewLen returns the length of the gapped rendition.
func (s *Sequence) ViewLen() int { return len(s.src) + s.GapCount() }

// Ungapped returns the source symbols.  The caller must not modify the
// result.
func (s *Sequence) Ungapped() []byte { return s.src }

// Runs returns a copy of the gap runs in source order.
func (s *Sequence) Runs() []Run {
	runs := make([]Run, len(s.pos))
	for i := range s.pos {
		runs[i] = Run{Pos: s.pos[i], Len: s.runLen(i)}
	}
	return runs
}

func (s *Sequence) runLen(i int) int {
	if i == 0 {
		return s.cum[0]
	}
	return s.cum[i] - s.cum[i-1]
}

// gapsBefore returns the total gap length of runs [0,i).
func (s *Sequence) gapsBefore(i int) int {
	if i == 0 {
		return 0
	}
	return s.cum[i-1]
}

// runViewStart returns the view position of the first gap of run i.
func (s *Sequence) runViewStart(i int) int {
	return s.pos[i] + s.gapsBefore(i)
}

// SourceToView returns the view position of source symbol p.  For
// p==SourceLen(), it returns ViewLen().
func (s *Sequence) SourceToView(p int) int {
	// Runs anchored at or before p precede symbol p.
	i := sort.Search(len(s.pos), func(i int) bool { return s.pos[i] > p })
	return p + s.gapsBefore(i)
}

// locate finds the run that contains or immediately precedes view position
// v.  It returns the number of runs whose first gap is at or before v.
func (s *Sequence) locate(v int) int {
	return sort.Search(len(s.pos), func(i int) bool { return s.runViewStart(i) > v })
}

// ViewToSource returns the source position at view position v.  If v is a gap,
// it returns the position of the next source symbol.
func (s *Sequence) ViewToSource(v int) int {
	k := s.locate(v)
	if k == 0 {
		return v
	}
	if v < s.pos[k-1]+s.cum[k-1] {
		return s.pos[k-1]
	}
	return v - s.cum[k-1]
}

// IsGap reports whether view position v is a gap.
func (s *Sequence) IsGap(v int) bool {
	k := s.locate(v)
	return k > 0 && v < s.pos[k-1]+s.cum[k-1]
}

// At returns the symbol at view position v.
func (s *Sequence) At(v int) byte {
	if s.IsGap(v) {
		return Gap
	}
	return s.src[s.ViewToSource(v)]
}

// InsertGaps inserts n gaps at view position v, so that the symbol previously
// at v moves to v+n.  v may equal ViewLen(), which appends trailing gaps.
func (s *Sequence) InsertGaps(v, n int) error {
	if v < 0 || v > s.ViewLen() {
		return errors.Errorf("gapped: view position %d out of range [0,%d]", v, s.ViewLen())
	}
	if n < 0 {
		return errors.Errorf("gapped: negative gap count %d", n)
	}
	if n == 0 {
		return nil
	}
	k := s.locate(v)
	if k > 0 && v <= s.pos[k-1]+s.cum[k-1] {
		// v falls inside run k-1 or right after it; grow that run.
		s.grow(k-1, n)
		return nil
	}
	src := v
	if k > 0 {
		src = v - s.cum[k-1]
	}
	s.insertRun(k, src, n)
	return nil
}

// InsertGapsAtSource inserts n gaps immediately before source symbol p,
// after any gaps already anchored there.  p may equal SourceLen().
func (s *Sequence) InsertGapsAtSource(p, n int) error {
	if p < 0 || p > len(s.src) {
		return errors.Errorf("gapped: source position %d out of range [0,%d]", p, len(s.src))
	}
	return s.InsertGaps(s.SourceToView(p), n)
}

func (s *Sequence) grow(i, n int) {
	for j := i; j < len(s.cum); j++ {
		s.cum[j] += n
	}
}

func (s *Sequence) insertRun(i, p, n int) {
	s.pos = append(s.pos, 0)
	copy(s.pos[i+1:], s.pos[i:])
	s.pos[i] = p
	s.cum = append(s.cum, 0)
	copy(s.cum[i+1:], s.cum[i:])
	s.cum[i] = s.gapsBefore(i)
	s.grow(i, n)
}

// String renders the gapped sequence, using Gap for gap columns.
func (s *Sequence) String() string {
	var b strings.Builder
	b.Grow(s.ViewLen())
	prev := 0
	for i, p := range s.pos {
		b.Write(s.src[prev:p])
		for j := s.runLen(i); j > 0; j-- {
			b.WriteByte(Gap)
		}
		prev = p
	}
	b.Write(s.src[prev:])
	return b.String()
}
