// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package realign

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// OpKind is the realignment-relevant class of a CIGAR operation.
type OpKind int

const (
	// Match covers M, = and X: both the read and the reference advance.
	Match OpKind = iota
	// Insertion advances the read only.
	Insertion
	// Deletion covers D and N: the reference advances only.
	Deletion
	// Padding (P) advances neither.
	Padding
	// SoftClip advances the read, but the bases are outside the alignment.
	SoftClip
	// HardClip advances neither; the bases are absent from the record.
	HardClip
)

// opKindOf classifies a CIGAR operation type.  The back operation, and
// anything else unknown, is rejected.
func opKindOf(t sam.CigarOpType) (OpKind, error) {
	switch t {
	case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
		return Match, nil
	case sam.CigarInsertion:
		return Insertion, nil
	case sam.CigarDeletion, sam.CigarSkipped:
		return Deletion, nil
	case sam.CigarPadded:
		return Padding, nil
	case sam.CigarSoftClipped:
		return SoftClip, nil
	case sam.CigarHardClipped:
		return HardClip, nil
	}
	return 0, dataConsistencyError(fmt.Sprintf("unsupported CIGAR operation %v", t))
}
