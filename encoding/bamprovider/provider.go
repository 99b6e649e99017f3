package bamprovider

import (
	"github.com/grailbio/hts/sam"
	gbam "github.com/grailbio/realigner/encoding/bam"
)

// ProviderOpts defines options for NewProvider.
type ProviderOpts struct {
	// Index is the path of the BAM index. If "", it defaults to path + ".bai".
	Index string
}

// Provider reads the records of one BAM file from several goroutines.
// Thread safe.
type Provider interface {
	// GetHeader returns the BAM header.  The caller must not modify it.
	//
	// REQUIRES: Close has not been called.
	GetHeader() (*sam.Header, error)

	// NewIterator returns an iterator over the records whose start
	// coordinate lies in the shard widened by shard.Padding.  StartRef and
	// EndRef must be the same mapped reference.
	//
	// REQUIRES: Close has not been called.
	NewIterator(shard gbam.Shard) Iterator

	// Close must be called exactly once, after every iterator is closed.  It
	// returns the first error seen by the provider or any of its iterators.
	Close() error
}

// Iterator yields records in ascending (refid, position) order. Thread
// compatible.
type Iterator interface {
	// Scan advances to the next record and reports whether there is one.  It
	// returns false at the end of the range or on error; see Err.
	Scan() bool

	// Record returns the current record.  It is valid only after Scan
	// returned true, until the next Scan.
	Record() *sam.Record

	// Err returns the error that stopped Scan, or nil at the end of the
	// range.
	Err() error

	// Close must be called exactly once.  It returns the value of Err(), or
	// an error closing the underlying file.
	Close() error
}

// IndexPath returns the BAM index path used for the BAM file at path: index
// if nonempty, else path + ".bai".
func IndexPath(path, index string) string {
	if index == "" {
		index = path + ".bai"
	}
	return index
}

// NewProvider creates a Provider for the BAM file at path.
func NewProvider(path string, optList ...ProviderOpts) Provider {
	p := &BAMProvider{Path: path}
	for _, o := range optList {
		if o.Index != "" {
			p.Index = o.Index
		}
	}
	return p
}
