package realign

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
)

func TestParseClipPolicy(t *testing.T) {
	for _, c := range []ClipPolicy{ClipDrop, ClipFlank} {
		got, err := ParseClipPolicy(c.String())
		expect.NoError(t, err)
		expect.EQ(t, got, c)
	}
	got, err := ParseClipPolicy("FLANK")
	expect.NoError(t, err)
	expect.EQ(t, got, ClipFlank)

	_, err = ParseClipPolicy("trim")
	expect.True(t, errors.Is(errors.Invalid, err))
	expect.EQ(t, ClipPolicy(7).String(), "ClipPolicy(7)")
}

func TestOptsValidate(t *testing.T) {
	region := DefaultOpts
	region.Region = "chr1:10-20"
	expect.NoError(t, region.validate())

	bed := DefaultOpts
	bed.BedPath = "regions.bed"
	expect.NoError(t, bed.validate())

	for _, opts := range []Opts{
		DefaultOpts,
		{Region: "chr1", BedPath: "regions.bed", MaxReadSpan: 10},
		{Region: "chr1", MaxReadSpan: 0},
		{Region: "chr1", MaxReadSpan: 10, WindowRadius: -1},
		{Region: "chr1", MaxReadSpan: 10, ClipPolicy: ClipPolicy(3)},
	} {
		err := opts.validate()
		expect.True(t, errors.Is(errors.Invalid, err), "%+v", opts)
	}
}

func TestInsertionTableThrough(t *testing.T) {
	ins := InsertionTable{2: 1, 4: 2, 9: 5}
	expect.EQ(t, ins.through(0, 1), 0)
	expect.EQ(t, ins.through(0, 2), 1)
	expect.EQ(t, ins.through(2, 4), 3)
	expect.EQ(t, ins.through(3, 8), 2)
	expect.EQ(t, ins.through(0, 100), 8)
}

func TestRegion(t *testing.T) {
	r := Region{RefName: "chr1", Start: 9, End: 20}
	expect.EQ(t, r.String(), "chr1:10-20")
	expect.EQ(t, r.Len(), 11)
	expect.EQ(t, r.extend(5, 100), Region{RefName: "chr1", Start: 4, End: 25})
	expect.EQ(t, r.extend(50, 30), Region{RefName: "chr1", Start: 0, End: 30})
}
