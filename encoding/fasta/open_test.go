package fasta_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/realigner/encoding/fasta"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestOpenBuildsIndex(t *testing.T) {
	ctx := vcontext.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "ref.fa")
	assert.NoError(t, ioutil.WriteFile(path, []byte(fastaData), 0644))

	fa, err := fasta.Open(ctx, path)
	assert.NoError(t, err)
	seq, err := fa.Get("seq1", 3, 9)
	assert.NoError(t, err)
	expect.EQ(t, seq, "TACGTA")

	clone, err := fa.Clone(ctx)
	assert.NoError(t, err)
	seq, err = clone.Get("seq2", 3, 6)
	assert.NoError(t, err)
	expect.EQ(t, seq, "TAC")
	assert.NoError(t, clone.Close(ctx))
	assert.NoError(t, fa.Close(ctx))

	index, err := ioutil.ReadFile(fasta.IndexPath(path))
	assert.NoError(t, err)
	expect.EQ(t, string(index), fastaIndex)

	// The second open uses the saved index.
	fa, err = fasta.Open(ctx, path)
	assert.NoError(t, err)
	n, err := fa.Len("seq2")
	assert.NoError(t, err)
	expect.EQ(t, n, uint64(8))
	assert.NoError(t, fa.Close(ctx))
}

func TestOpenMissing(t *testing.T) {
	ctx := vcontext.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := fasta.Open(ctx, filepath.Join(tmpDir, "missing.fa"))
	expect.NotNil(t, err)
}
