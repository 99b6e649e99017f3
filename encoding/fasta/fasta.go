// Package fasta reads reference sequences from FASTA files.
//
// A FASTA file holds named sequences, each introduced by a '>' header line and
// possibly wrapped over several lines:
//
// >chr7 optional description
// ACGTAC
// GAGGAC
// GCG
//
// The name of a sequence is the header text up to the first space or tab.
// Sequences are read either fully into memory (New) or on demand through a
// samtools-style .fai index (NewIndexed, Open).  See
// http://www.htslib.org/doc/faidx.html.
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
)

// Fasta gives access to the sequences of a FASTA file.
type Fasta interface {
	// Get returns bases [start, end) of the named sequence, 0-based.  An empty
	// range yields "".  Get is thread-safe.
	//
	// An unknown name yields an error of kind errors.NotExist; a bad range one
	// of kind errors.Invalid.
	Get(seqName string, start, end uint64) (string, error)

	// Len returns the length of the named sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the sequence names in file order.
	SeqNames() []string
}

// line is one line of FASTA text.
type line struct {
	// text excludes the line terminator.
	text []byte
	// off is the byte offset of the line; width includes the terminator.
	off   int64
	width int
}

func (l line) isHeader() bool { return len(l.text) > 0 && l.text[0] == '>' }

// name returns the sequence name of a header line.
func (l line) name() string {
	name := l.text[1:]
	if i := bytes.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

// scanLines calls fn on every line of r, in order.
func scanLines(r io.Reader, fn func(l line) error) error {
	br := bufio.NewReaderSize(r, 1<<16)
	var off int64
	for {
		b, err := br.ReadBytes('\n')
		if len(b) > 0 {
			if e := fn(line{text: bytes.TrimRight(b, "\r\n"), off: off, width: len(b)}); e != nil {
				return e
			}
			off += int64(len(b))
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func errNoHeader(off int64) error {
	return errors.E(errors.Invalid, fmt.Sprintf("malformed FASTA file: sequence data at byte %d precedes the first header", off))
}

func notFound(seqName string) error {
	return errors.E(errors.NotExist, fmt.Sprintf("sequence not found: %s", seqName))
}

// checkRange validates [start, end) against a sequence of the given length.
func checkRange(seqName string, length, start, end uint64) error {
	if end < start {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: start %d is after end %d", seqName, start, end))
	}
	if end > length {
		return errors.E(errors.Invalid, fmt.Sprintf("%s: end %d is past the sequence length %d", seqName, end, length))
	}
	return nil
}

type memFasta struct {
	seqs  map[string]string
	names []string
}

// New reads all sequences from r into memory.
func New(r io.Reader) (Fasta, error) {
	f := &memFasta{seqs: map[string]string{}}
	var (
		name    string
		seq     []byte
		started bool
	)
	add := func() error {
		if _, ok := f.seqs[name]; ok {
			return errors.E(errors.Invalid, fmt.Sprintf("duplicate FASTA sequence %s", name))
		}
		f.seqs[name] = string(seq)
		f.names = append(f.names, name)
		return nil
	}
	err := scanLines(r, func(l line) error {
		switch {
		case len(l.text) == 0:
		case l.isHeader():
			if started {
				if err := add(); err != nil {
					return err
				}
			}
			name, seq, started = l.name(), seq[:0], true
		case !started:
			return errNoHeader(l.off)
		default:
			seq = append(seq, l.text...)
		}
		return nil
	})
	if err == nil && started {
		err = add()
	}
	if err != nil {
		return nil, errors.E(err, "read FASTA data")
	}
	return f, nil
}

// Get implements Fasta.Get().
func (f *memFasta) Get(seqName string, start, end uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", notFound(seqName)
	}
	if err := checkRange(seqName, uint64(len(s)), start, end); err != nil {
		return "", err
	}
	return s[start:end], nil
}

// Len implements Fasta.Len().
func (f *memFasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, notFound(seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames().
func (f *memFasta) SeqNames() []string { return f.names }
