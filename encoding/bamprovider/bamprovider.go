package bamprovider

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/bgzf/index"
	"github.com/grailbio/hts/sam"
	gbam "github.com/grailbio/realigner/encoding/bam"
	"v.io/x/lib/vlog"
)

// BAMProvider implements Provider for a coordinate-sorted BAM file with a
// .bai index.  Paths may be anything grailbio/base/file can open, e.g. S3
// URLs.
//
// The header and the index are loaded once and shared.  Every iterator opens
// its own handle on the BAM file.
type BAMProvider struct {
	// Path of the *.bam file. Must be nonempty.
	Path string
	// Index is the path of the *.bai file. If "", Path + ".bai".
	Index string

	once    sync.Once
	header  *sam.Header
	index   *bam.Index
	loadErr error

	mu      sync.Mutex
	nActive int
	err     error
}

// load reads the header and the index.
func (b *BAMProvider) load() error {
	b.once.Do(func() {
		ctx := vcontext.Background()
		b.header, b.loadErr = readHeader(ctx, b.Path)
		if b.loadErr == nil {
			b.index, b.loadErr = readIndex(ctx, IndexPath(b.Path, b.Index))
		}
		b.setErr(b.loadErr)
	})
	return b.loadErr
}

func readHeader(ctx context.Context, path string) (_ *sam.Header, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open BAM", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	r, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		return nil, errors.E(err, "read BAM header", path)
	}
	defer func() {
		if e := r.Close(); e != nil && err == nil {
			err = e
		}
	}()
	return r.Header(), nil
}

func readIndex(ctx context.Context, path string) (_ *bam.Index, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open BAM index", path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	idx, err := bam.ReadIndex(in.Reader(ctx))
	if err != nil {
		return nil, errors.E(err, "read BAM index", path)
	}
	return idx, nil
}

// setErr remembers the first error reported by the provider or one of its
// iterators.
func (b *BAMProvider) setErr(err error) {
	if err == nil {
		return
	}
	b.mu.Lock()
	if b.err == nil {
		b.err = err
	}
	b.mu.Unlock()
}

// GetHeader implements the Provider interface.
func (b *BAMProvider) GetHeader() (*sam.Header, error) {
	if err := b.load(); err != nil {
		return nil, err
	}
	return b.header, nil
}

// NewIterator implements the Provider interface.
func (b *BAMProvider) NewIterator(shard gbam.Shard) Iterator {
	if err := b.load(); err != nil {
		return NewErrorIterator(err)
	}
	if shard.StartRef == nil || shard.EndRef == nil || shard.StartRef.ID() != shard.EndRef.ID() {
		return NewErrorIterator(fmt.Errorf("bamprovider: shard %v must cover a single mapped reference", shard))
	}
	r := shard.PaddedRange(shard.Padding)
	if r.Start.GE(r.Limit) {
		return NewErrorIterator(fmt.Errorf("bamprovider: start %v not before limit %v", r.Start, r.Limit))
	}
	b.mu.Lock()
	b.nActive++
	b.mu.Unlock()
	iter := &bamIterator{provider: b, shardRange: r}
	iter.err = iter.open(shard)
	return iter
}

// Close implements the Provider interface.
func (b *BAMProvider) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.nActive > 0 {
		vlog.Fatalf("bamprovider: %d iterators still active for %s", b.nActive, b.Path)
	}
	return b.err
}

type bamIterator struct {
	provider   *BAMProvider
	shardRange gbam.CoordRange
	in         file.File
	reader     *bam.Reader
	rec        *sam.Record
	// err is io.EOF once the range is exhausted.
	err    error
	closed bool
}

// open positions the iterator at the first index chunk that may hold a record
// of the padded shard.
func (i *bamIterator) open(shard gbam.Shard) error {
	b := i.provider
	chunks, err := b.index.Chunks(shard.StartRef, shard.PaddedStart(), shard.PaddedEnd())
	if err == index.ErrInvalid || (err == nil && len(chunks) == 0) {
		return io.EOF
	}
	if err != nil {
		return err
	}
	ctx := vcontext.Background()
	if i.in, err = file.Open(ctx, b.Path); err != nil {
		return err
	}
	if i.reader, err = bam.NewReader(i.in.Reader(ctx), 1); err != nil {
		return err
	}
	return i.reader.Seek(chunks[0].Begin)
}

// Scan implements the Iterator interface.
func (i *bamIterator) Scan() bool {
	if i.closed {
		vlog.Fatal("bamprovider: Scan on a closed iterator")
	}
	for i.err == nil {
		if i.rec, i.err = i.reader.Read(); i.err != nil {
			break
		}
		c := gbam.CoordFromSAMRecord(i.rec)
		if c.LT(i.shardRange.Start) {
			continue
		}
		if c.GE(i.shardRange.Limit) {
			i.err = io.EOF
			break
		}
		return true
	}
	i.rec = nil
	return false
}

// Record implements the Iterator interface.
func (i *bamIterator) Record() *sam.Record { return i.rec }

// Err implements the Iterator interface.
func (i *bamIterator) Err() error {
	if i.err == io.EOF {
		return nil
	}
	return i.err
}

// Close implements the Iterator interface.
func (i *bamIterator) Close() error {
	if i.closed {
		vlog.Fatal("bamprovider: iterator closed twice")
	}
	i.closed = true
	err := i.Err()
	if i.reader != nil {
		if e := i.reader.Close(); e != nil && err == nil {
			err = e
		}
	}
	if i.in != nil {
		if e := i.in.Close(vcontext.Background()); e != nil && err == nil {
			err = e
		}
	}
	b := i.provider
	b.setErr(err)
	b.mu.Lock()
	b.nActive--
	b.mu.Unlock()
	return err
}
