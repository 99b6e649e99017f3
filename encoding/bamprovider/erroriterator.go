package bamprovider

import (
	"github.com/grailbio/hts/sam"
)

// errorIterator yields no records; Err and Close report err.
type errorIterator struct {
	err error
}

func (i *errorIterator) Scan() bool          { return false }
func (i *errorIterator) Record() *sam.Record { return nil }
func (i *errorIterator) Err() error          { return i.err }
func (i *errorIterator) Close() error        { return i.err }

// NewErrorIterator creates an Iterator that yields no record and returns err
// from Err and Close.
func NewErrorIterator(err error) Iterator {
	return &errorIterator{err: err}
}
