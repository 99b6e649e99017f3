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

// Package realign builds a gap-synchronized multiple alignment ("pileup") of
// the reads overlapping a genomic window.
//
// Each read arrives aligned to the reference on its own, as a position plus a
// CIGAR.  Its insertions are invisible to the reference and to the other
// reads.  The package turns every insertion into a column shared by the whole
// window: the reference and every read spanning the position get gaps, so
// that afterwards all sequences share one column coordinate system.
//
// Processing a window goes through four stages:
//
//   LoadWindow  extends the region, streams the overlapping records and
//               fetches the reference for the final span.
//   Ingest      walks each read's CIGAR, producing its gapped sequence (own
//               deletions as gaps) and its insertion table.
//   GapTable    reduces the insertion tables to the widest insertion per
//               reference position.
//   Project     applies every column, from the highest position to the
//               lowest, to the overlapping reads and to the reference.
//
// Run drives all of this over a list of regions in parallel and writes the
// resulting layout as TSV.
package realign
