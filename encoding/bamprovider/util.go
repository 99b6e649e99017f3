package bamprovider

import (
	"github.com/grailbio/hts/sam"
)

// RefByName finds the reference with the given name in h, or returns nil.
func RefByName(h *sam.Header, refName string) *sam.Reference {
	for _, ref := range h.Refs() {
		if ref.Name() == refName {
			return ref
		}
	}
	return nil
}
