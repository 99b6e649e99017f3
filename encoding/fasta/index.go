package fasta

import (
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
)

// IndexEntry is one line of a .fai index.
type IndexEntry struct {
	Name string `tsv:"name"`
	// Length is the number of bases in the sequence.
	Length int64 `tsv:"length"`
	// Offset is the byte offset of the first base in the FASTA file.
	Offset int64 `tsv:"offset"`
	// LineBases and LineWidth are the bases and bytes (bases plus terminator)
	// of every line of the sequence but the last.
	LineBases int64 `tsv:"linebases"`
	LineWidth int64 `tsv:"linewidth"`
}

// byteOffset returns the file offset of base pos.
func (e IndexEntry) byteOffset(pos int64) int64 {
	return e.Offset + (pos/e.LineBases)*e.LineWidth + pos%e.LineBases
}

func (e IndexEntry) validate() error {
	if e.Length < 0 || e.Offset < 0 || (e.Length > 0 && (e.LineBases <= 0 || e.LineWidth < e.LineBases)) {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid FASTA index entry %+v", e))
	}
	return nil
}

// BuildIndex computes the .fai entries of the FASTA data in r.  Lines are
// expected to be of equal width within a sequence, except for its last line.
func BuildIndex(r io.Reader) ([]IndexEntry, error) {
	var (
		entries []IndexEntry
		cur     *IndexEntry
		nBytes  int64
	)
	err := scanLines(r, func(l line) error {
		nBytes = l.off + int64(l.width)
		switch {
		case len(l.text) == 0:
		case l.isHeader():
			entries = append(entries, IndexEntry{Name: l.name(), Offset: l.off + int64(l.width)})
			cur = &entries[len(entries)-1]
		case cur == nil:
			return errNoHeader(l.off)
		default:
			if cur.LineWidth == 0 {
				cur.LineBases, cur.LineWidth = int64(len(l.text)), int64(l.width)
			}
			cur.Length += int64(len(l.text))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if nBytes == 0 {
		return nil, errors.E(errors.Invalid, "empty FASTA file")
	}
	return entries, nil
}

// ReadIndex parses .fai data.
func ReadIndex(r io.Reader) ([]IndexEntry, error) {
	tr := tsv.NewReader(r)
	var entries []IndexEntry
	for {
		var e IndexEntry
		if err := tr.Read(&e); err != nil {
			if err == io.EOF {
				return entries, nil
			}
			return nil, errors.E(errors.Invalid, err, "read FASTA index")
		}
		if err := e.validate(); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
}

// WriteIndex writes entries in .fai format.
func WriteIndex(w io.Writer, entries []IndexEntry) error {
	tw := tsv.NewWriter(w)
	for _, e := range entries {
		tw.WriteString(e.Name)
		tw.WriteInt64(e.Length)
		tw.WriteInt64(e.Offset)
		tw.WriteInt64(e.LineBases)
		tw.WriteInt64(e.LineWidth)
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
