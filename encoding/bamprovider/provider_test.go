package bamprovider_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	gbam "github.com/grailbio/realigner/encoding/bam"
	"github.com/grailbio/realigner/encoding/bamprovider"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	status := m.Run()
	shutdown()
	os.Exit(status)
}

func newRecord(t *testing.T, name string, ref *sam.Reference, pos, length int) *sam.Record {
	seq := bytes.Repeat([]byte("A"), length)
	r, err := sam.NewRecord(name, ref, nil, pos, -1, 0, 60,
		[]sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, length)}, seq, nil, nil)
	require.NoError(t, err)
	return r
}

func testRecords(t *testing.T) (*sam.Header, []*sam.Record) {
	chr1, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	chr2, err := sam.NewReference("chr2", "", "", 1000, nil, nil)
	require.NoError(t, err)
	header, err := sam.NewHeader(nil, []*sam.Reference{chr1, chr2})
	require.NoError(t, err)
	header.SortOrder = sam.Coordinate
	return header, []*sam.Record{
		newRecord(t, "r1", chr1, 10, 10),
		newRecord(t, "r2", chr1, 100, 10),
		newRecord(t, "r3", chr1, 500, 10),
		newRecord(t, "r4", chr2, 5, 10),
	}
}

// writeIndexedBAM writes recs to dir/test.bam and builds dir/test.bam.bai.
func writeIndexedBAM(t *testing.T, dir string, header *sam.Header, recs []*sam.Record) string {
	var buf bytes.Buffer
	w, err := bam.NewWriter(&buf, header, 1)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	path := filepath.Join(dir, "test.bam")
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))

	r, err := bam.NewReader(bytes.NewReader(buf.Bytes()), 1)
	require.NoError(t, err)
	var idx bam.Index
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, idx.Add(rec, r.LastChunk()))
	}
	require.NoError(t, r.Close())
	var idxBuf bytes.Buffer
	require.NoError(t, bam.WriteIndex(&idxBuf, &idx))
	require.NoError(t, ioutil.WriteFile(path+".bai", idxBuf.Bytes(), 0644))
	return path
}

func readNames(t *testing.T, iter bamprovider.Iterator) []string {
	names := []string{}
	for iter.Scan() {
		names = append(names, iter.Record().Name)
	}
	require.NoError(t, iter.Err())
	require.NoError(t, iter.Close())
	return names
}

// shard returns the shard [start, end) of the named reference, widened by
// padding.
func shard(t *testing.T, p bamprovider.Provider, refName string, start, end, padding int) gbam.Shard {
	header, err := p.GetHeader()
	require.NoError(t, err)
	ref := bamprovider.RefByName(header, refName)
	require.NotNil(t, ref)
	return gbam.Shard{StartRef: ref, EndRef: ref, Start: start, End: end, Padding: padding}
}

func testProvider(t *testing.T, p bamprovider.Provider) {
	// Iterators may run concurrently and be created repeatedly.
	for i := 0; i < 3; i++ {
		iters := []bamprovider.Iterator{
			p.NewIterator(shard(t, p, "chr1", 90, 600, 0)),
			p.NewIterator(shard(t, p, "chr1", 100, 600, 95)),
		}
		require.Equal(t, []string{"r2", "r3"}, readNames(t, iters[0]))
		require.Equal(t, []string{"r1", "r2", "r3"}, readNames(t, iters[1]))
		require.Equal(t, []string{"r4"}, readNames(t, p.NewIterator(shard(t, p, "chr2", 0, 1000, 0))))
		require.Equal(t, []string{}, readNames(t, p.NewIterator(shard(t, p, "chr2", 100, 1000, 0))))
	}

	header, err := p.GetHeader()
	require.NoError(t, err)
	require.Nil(t, bamprovider.RefByName(header, "chr3"))
	contig := gbam.ContigShard(header.Refs()[0], 400, 0, 0)
	require.Equal(t, []string{"r3"}, readNames(t, p.NewIterator(contig)))
}

func TestBAMProvider(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	header, recs := testRecords(t)
	path := writeIndexedBAM(t, tmpDir, header, recs)

	p := bamprovider.NewProvider(path)
	h, err := p.GetHeader()
	require.NoError(t, err)
	require.Equal(t, 2, len(h.Refs()))
	testProvider(t, p)
	require.NoError(t, p.Close())
}

func TestBAMProviderExplicitIndex(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	header, recs := testRecords(t)
	path := writeIndexedBAM(t, tmpDir, header, recs)
	index := filepath.Join(tmpDir, "other.bai")
	require.NoError(t, os.Rename(path+".bai", index))
	require.Equal(t, index, bamprovider.IndexPath(path, index))
	require.Equal(t, path+".bai", bamprovider.IndexPath(path, ""))

	p := bamprovider.NewProvider(path, bamprovider.ProviderOpts{Index: index})
	require.Equal(t, []string{"r2", "r3"}, readNames(t, p.NewIterator(shard(t, p, "chr1", 90, 600, 0))))
	require.NoError(t, p.Close())
}

func TestBAMProviderMissingIndex(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	header, recs := testRecords(t)
	path := writeIndexedBAM(t, tmpDir, header, recs)
	require.NoError(t, os.Remove(path+".bai"))

	p := bamprovider.NewProvider(path)
	_, err := p.GetHeader()
	require.Error(t, err)
	chr1, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	iter := p.NewIterator(gbam.ContigShard(chr1, 0, 0, 0))
	require.False(t, iter.Scan())
	require.Error(t, iter.Close())
	require.Error(t, p.Close())
}

func TestBAMProviderBadShard(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	header, recs := testRecords(t)
	path := writeIndexedBAM(t, tmpDir, header, recs)

	p := bamprovider.NewProvider(path)
	refs := header.Refs()
	iter := p.NewIterator(gbam.Shard{StartRef: refs[0], EndRef: refs[1], Start: 0, End: 10})
	require.False(t, iter.Scan())
	require.Error(t, iter.Close())
	require.NoError(t, p.Close())
}

func TestFakeProvider(t *testing.T) {
	header, recs := testRecords(t)
	p := bamprovider.NewFakeProvider(header, recs)
	testProvider(t, p)
	require.NoError(t, p.Close())
}
