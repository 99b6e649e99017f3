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

/*
Given a coordinate-sorted, indexed BAM file, its reference FASTA, and either a
BED file or a single region, bio-realign lays out the reads of each region as
a gap-synchronized multiple alignment against the reference.  This is the
layout a consensus realigner starts from.

Each region is first widened by -window-radius bases on both sides, then by
the alignments that overlap it.  Reads starting up to -max-read-span bases
before a region are considered; a longer read is picked up only if it starts
inside the region.  Every insertion found in a read becomes a gap column that is
shared by the reference and all reads covering its position, so that after
projection the reference and every read are aligned column for column.

Output is TSV, one row per sequence:

  #REGION  ROW  NAME  BEGIN  END  SEQ

Row 0 of each region holds the gapped reference, named after its contig.
Reads follow in order of their BEGIN column.  BEGIN and END are 0-based
half-open column coordinates in the gapped reference.  With -clip=flank, two
more columns report the soft-clipped bases before and after the alignment,
lowercased, or "." when absent.

Regions whose contig is unknown to the BAM header or the FASTA are logged and
skipped.  Regions without alignments produce only the reference row.
*/
package main
