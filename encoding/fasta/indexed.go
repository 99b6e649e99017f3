package fasta

import (
	"fmt"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
)

type indexedFasta struct {
	entries map[string]IndexEntry
	names   []string

	mu  sync.Mutex
	in  io.ReadSeeker
	buf []byte
}

// NewIndexed returns a Fasta that reads bases from in on demand, at the
// offsets given by the index entries.
func NewIndexed(in io.ReadSeeker, entries []IndexEntry) (Fasta, error) {
	f := &indexedFasta{entries: make(map[string]IndexEntry, len(entries)), in: in}
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return nil, err
		}
		if _, ok := f.entries[e.Name]; ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("duplicate FASTA index entry %s", e.Name))
		}
		f.entries[e.Name] = e
		f.names = append(f.names, e.Name)
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *indexedFasta) Get(seqName string, start, end uint64) (string, error) {
	e, ok := f.entries[seqName]
	if !ok {
		return "", notFound(seqName)
	}
	if err := checkRange(seqName, uint64(e.Length), start, end); err != nil {
		return "", err
	}
	if start == end {
		return "", nil
	}
	first := e.byteOffset(int64(start))
	n := int(e.byteOffset(int64(end)-1) - first + 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if cap(f.buf) < n {
		f.buf = make([]byte, n)
	}
	buf := f.buf[:n]
	if _, err := f.in.Seek(first, io.SeekStart); err != nil {
		return "", errors.E(err, "seek in FASTA data", seqName)
	}
	if _, err := io.ReadFull(f.in, buf); err != nil {
		return "", errors.E(errors.Integrity, err, fmt.Sprintf("%s: FASTA data ends before byte %d", seqName, first+int64(n)))
	}
	seq := make([]byte, 0, end-start)
	for _, b := range buf {
		if b != '\n' && b != '\r' {
			seq = append(seq, b)
		}
	}
	if uint64(len(seq)) != end-start {
		return "", errors.E(errors.Integrity, fmt.Sprintf("%s: FASTA data does not match its index", seqName))
	}
	return string(seq), nil
}

// Len implements Fasta.Len().
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	e, ok := f.entries[seqName]
	if !ok {
		return 0, notFound(seqName)
	}
	return uint64(e.Length), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *indexedFasta) SeqNames() []string { return f.names }
