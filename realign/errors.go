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
	"github.com/grailbio/base/errors"
)

// A window fails with one of two kinds of error, and the run moves on to the
// next window either way:
//
//   errors.NotExist   the region's contig is unknown to the alignment or the
//                     reference source (name resolution).
//   errors.Integrity  the alignments contradict themselves, e.g. a CIGAR that
//                     disagrees with the read bases, or a gap position outside
//                     a read (data consistency).

func nameResolutionError(args ...interface{}) error {
	return errors.E(append([]interface{}{errors.NotExist}, args...)...)
}

func dataConsistencyError(args ...interface{}) error {
	return errors.E(append([]interface{}{errors.Integrity}, args...)...)
}

// IsNameResolution reports whether err was caused by a contig name that could
// not be resolved.
func IsNameResolution(err error) bool {
	return errors.Is(errors.NotExist, err)
}

// IsDataConsistency reports whether err was caused by inconsistent alignment
// data.
func IsDataConsistency(err error) bool {
	return errors.Is(errors.Integrity, err)
}
