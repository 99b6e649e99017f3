package realign_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/realigner/encoding/fasta"
	"github.com/grailbio/realigner/gapped"
	"github.com/grailbio/realigner/realign"
	"github.com/grailbio/testutil/assert"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func mustCigar(t *testing.T, s string) sam.Cigar {
	cigar, err := sam.ParseCigar([]byte(s))
	assert.NoError(t, err)
	return cigar
}

func newRead(t *testing.T, name string, pos int, cigar, seq string) realign.Read {
	return realign.Read{Name: name, Pos: pos, Cigar: mustCigar(t, cigar), Seq: []byte(seq)}
}

func newRecord(t *testing.T, name string, ref *sam.Reference, pos int, cigar, seq string) *sam.Record {
	r, err := sam.NewRecord(name, ref, nil, pos, -1, 0, 60, mustCigar(t, cigar), []byte(seq), nil, nil)
	assert.NoError(t, err)
	return r
}

// newUnmappedRecord returns an unmapped record placed at ref:pos, the way
// aligners store the unmapped mate of a mapped read.
func newUnmappedRecord(t *testing.T, name string, ref *sam.Reference, pos int, seq string) *sam.Record {
	r, err := sam.NewRecord(name, ref, nil, pos, -1, 0, 0, nil, []byte(seq), nil, nil)
	assert.NoError(t, err)
	r.Flags |= sam.Unmapped
	return r
}

func newHeader(t *testing.T, refs ...*sam.Reference) *sam.Header {
	header, err := sam.NewHeader(nil, refs)
	assert.NoError(t, err)
	header.SortOrder = sam.Coordinate
	return header
}

func newReference(t *testing.T, name string, length int) *sam.Reference {
	ref, err := sam.NewReference(name, "", "", length, nil, nil)
	assert.NoError(t, err)
	return ref
}

func newFasta(t *testing.T, seqs ...string) fasta.Fasta {
	var b strings.Builder
	for i := 0; i+1 < len(seqs); i += 2 {
		b.WriteString(">" + seqs[i] + "\n" + seqs[i+1] + "\n")
	}
	fa, err := fasta.New(strings.NewReader(b.String()))
	assert.NoError(t, err)
	return fa
}

// newWindow returns a window over ref that holds reads, ready for ingestion.
func newWindow(ref string, reads ...realign.Read) *realign.Window {
	region := realign.Region{RefName: "chr1", Start: 0, End: len(ref)}
	return &realign.Window{
		Requested: region,
		Region:    region,
		Ref:       realign.ReferenceWindow{RefName: "chr1", Seq: gapped.NewString(ref)},
		Reads:     reads,
	}
}

// layout maps read names to their placed row, "begin:end:seq".
func layout(w *realign.Window) map[string]string {
	m := map[string]string{}
	for _, a := range w.Aligned {
		m[w.Reads[a.ReadIdx].Name] = placement(a)
	}
	return m
}

func placement(a realign.AlignedRead) string {
	return fmt.Sprintf("%d:%d:%s", a.Begin, a.End, a.Seq.String())
}
