package bam_test

import (
	"testing"

	"github.com/grailbio/hts/sam"
	"github.com/grailbio/realigner/encoding/bam"
	"github.com/grailbio/testutil/expect"
)

func TestShard(t *testing.T) {
	ref1, err := sam.NewReference("chr1", "", "", 100, nil, nil)
	expect.NoError(t, err)
	s := bam.Shard{StartRef: ref1, Start: 20, EndRef: ref1, End: 90, Padding: 3}
	expect.EQ(t, s.PaddedStart(), 17)
	expect.EQ(t, s.PaddedEnd(), 93)
	expect.EQ(t, s.PadStart(8), 12)
	expect.EQ(t, s.PadStart(21), 0)
	expect.EQ(t, s.PadEnd(11), 100)

	s = bam.ContigShard(ref1, 40, 50, 2)
	expect.EQ(t, s.PaddedStart(), 0)
	expect.EQ(t, s.End, 100)
	expect.EQ(t, s.PaddedEnd(), 100)
	expect.EQ(t, s.ShardIdx, 2)
	expect.EQ(t, s.String(), "2:(chr1[-1],40(0))-(chr1[-1],100(100))")
}

func TestCoordInShard(t *testing.T) {
	ref1, err := sam.NewReference("chr1", "", "", 100, nil, nil)
	expect.NoError(t, err)
	ref2, err := sam.NewReference("chr2", "", "", 200, nil, nil)
	expect.NoError(t, err)
	_, err = sam.NewHeader(nil, []*sam.Reference{ref1, ref2})
	expect.NoError(t, err)

	s := bam.Shard{StartRef: ref2, Start: 20, EndRef: ref2, End: 90, Padding: 5}
	expect.False(t, s.CoordInShard(0, bam.NewCoord(ref2, 19)))
	expect.True(t, s.CoordInShard(0, bam.NewCoord(ref2, 20)))
	expect.True(t, s.CoordInShard(5, bam.NewCoord(ref2, 15)))
	expect.False(t, s.CoordInShard(5, bam.NewCoord(ref2, 95)))
	expect.False(t, s.CoordInShard(5, bam.NewCoord(ref1, 50)))
	expect.False(t, s.CoordInShard(5, bam.NewCoord(nil, -1)))
}

func TestCoordCompare(t *testing.T) {
	unmapped := bam.Coord{RefID: bam.UnmappedRefID}
	a := bam.Coord{RefID: 0, Pos: 10}
	b := bam.Coord{RefID: 0, Pos: 11}
	c := bam.Coord{RefID: 1, Pos: 0}
	expect.True(t, a.LT(b))
	expect.True(t, b.LT(c))
	expect.True(t, c.LT(unmapped))
	expect.True(t, unmapped.GT(c))
	expect.True(t, a.LE(a))
	expect.True(t, a.GE(a))
	expect.EQ(t, a.Compare(a), 0)
	expect.True(t, unmapped.Unmapped())
	expect.EQ(t, a.String(), "0:10")
	expect.EQ(t, unmapped.String(), "unmapped")
	expect.EQ(t, bam.NewCoord(nil, -1), unmapped)

	r := bam.CoordRange{Start: a, Limit: c}
	expect.True(t, r.Contains(a))
	expect.True(t, r.Contains(b))
	expect.False(t, r.Contains(c))
}
