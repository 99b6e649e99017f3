package fasta

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// IndexPath returns the conventional .fai path for the FASTA file at path.
func IndexPath(path string) string { return path + ".fai" }

// File is a FASTA file opened for random access through its .fai index.  It
// must be closed after use.
type File struct {
	Fasta
	path  string
	index []IndexEntry
	in    file.File
}

// Open opens the FASTA file at path.  If the .fai index next to it cannot be
// read, Open builds the index from the FASTA data and saves it; failing to
// save it is an error.
func Open(ctx context.Context, path string) (*File, error) {
	index, err := readIndex(ctx, IndexPath(path))
	if err != nil {
		log.Printf("fasta.Open: %s: building index (%v)", path, err)
		if index, err = buildIndex(ctx, path); err != nil {
			return nil, err
		}
	}
	return open(ctx, path, index)
}

// Clone opens another handle on the same file.  The handles share the index
// but not the file position, so they can be read concurrently without
// contention.
func (f *File) Clone(ctx context.Context) (*File, error) {
	return open(ctx, f.path, f.index)
}

// Close closes the underlying FASTA file.
func (f *File) Close(ctx context.Context) error {
	return f.in.Close(ctx)
}

func open(ctx context.Context, path string, index []IndexEntry) (*File, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open FASTA", path)
	}
	fa, err := NewIndexed(in.Reader(ctx), index)
	if err != nil {
		_ = in.Close(ctx)
		return nil, errors.E(err, "FASTA index", IndexPath(path))
	}
	return &File{Fasta: fa, path: path, index: index, in: in}, nil
}

func readIndex(ctx context.Context, path string) (index []IndexEntry, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ReadIndex(in.Reader(ctx))
}

func buildIndex(ctx context.Context, path string) ([]IndexEntry, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open FASTA", path)
	}
	index, err := BuildIndex(in.Reader(ctx))
	if cerr := in.Close(ctx); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.E(err, "build FASTA index", path)
	}
	if err := saveIndex(ctx, IndexPath(path), index); err != nil {
		return nil, errors.E(err, "could not save FASTA index", IndexPath(path))
	}
	return index, nil
}

func saveIndex(ctx context.Context, path string, index []IndexEntry) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	return WriteIndex(out.Writer(ctx), index)
}
