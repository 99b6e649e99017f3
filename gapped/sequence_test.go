package gapped_test

import (
	"testing"

	"github.com/grailbio/realigner/gapped"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestInsertGaps(t *testing.T) {
	s := gapped.NewString("ACGT")
	assert.NoError(t, s.InsertGaps(2, 2))
	expect.EQ(t, s.String(), "AC--GT")
	expect.EQ(t, s.ViewLen(), 6)
	expect.EQ(t, s.GapCount(), 2)

	// Inserting inside or at the end of a run grows it.
	assert.NoError(t, s.InsertGaps(3, 1))
	expect.EQ(t, s.String(), "AC---GT")
	assert.NoError(t, s.InsertGaps(5, 1))
	expect.EQ(t, s.String(), "AC----GT")
	expect.EQ(t, s.Runs(), []gapped.Run{{Pos: 2, Len: 4}})

	assert.NoError(t, s.InsertGaps(0, 1))
	assert.NoError(t, s.InsertGaps(s.ViewLen(), 2))
	expect.EQ(t, s.String(), "-AC----GT--")
	expect.EQ(t, s.Runs(), []gapped.Run{{Pos: 0, Len: 1}, {Pos: 2, Len: 4}, {Pos: 4, Len: 2}})
	expect.EQ(t, string(s.Ungapped()), "ACGT")

	assert.NoError(t, s.InsertGaps(3, 0))
	expect.EQ(t, s.String(), "-AC----GT--")
	expect.HasSubstr(t, s.InsertGaps(12, 1).Error(), "out of range")
	expect.HasSubstr(t, s.InsertGaps(-1, 1).Error(), "out of range")
	expect.HasSubstr(t, s.InsertGaps(0, -1).Error(), "negative")
}

func TestInsertGapsAtSource(t *testing.T) {
	s := gapped.NewString("AACCGG")
	assert.NoError(t, s.InsertGapsAtSource(3, 1))
	expect.EQ(t, s.String(), "AAC-CGG")
	assert.NoError(t, s.InsertGapsAtSource(3, 1))
	expect.EQ(t, s.String(), "AAC--CGG")
	assert.NoError(t, s.InsertGapsAtSource(6, 1))
	expect.EQ(t, s.String(), "AAC--CGG-")
	assert.NoError(t, s.InsertGapsAtSource(1, 1))
	expect.EQ(t, s.String(), "A-AC--CGG-")
	expect.HasSubstr(t, s.InsertGapsAtSource(7, 1).Error(), "out of range")
}

func TestCoordinates(t *testing.T) {
	s := gapped.NewString("ACGT")
	assert.NoError(t, s.InsertGapsAtSource(2, 2))
	assert.NoError(t, s.InsertGapsAtSource(4, 1))
	// A C - - G T -
	tests := []struct {
		view   int
		source int
		gap    bool
		sym    byte
	}{
		{0, 0, false, 'A'},
		{1, 1, false, 'C'},
		{2, 2, true, '-'},
		{3, 2, true, '-'},
		{4, 2, false, 'G'},
		{5, 3, false, 'T'},
		{6, 4, true, '-'},
	}
	for _, tt := range tests {
		expect.EQ(t, s.ViewToSource(tt.view), tt.source, "view %d", tt.view)
		expect.EQ(t, s.IsGap(tt.view), tt.gap, "view %d", tt.view)
		expect.EQ(t, s.At(tt.view), tt.sym, "view %d", tt.view)
	}
	for p, v := range []int{0, 1, 4, 5, 7} {
		expect.EQ(t, s.SourceToView(p), v, "source %d", p)
	}
}

func TestEmpty(t *testing.T) {
	var s gapped.Sequence
	expect.EQ(t, s.ViewLen(), 0)
	expect.EQ(t, s.String(), "")
	assert.NoError(t, s.InsertGaps(0, 3))
	expect.EQ(t, s.String(), "---")
	expect.EQ(t, s.SourceLen(), 0)
}
