// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package bam provides the coordinate and shard types used to address
// records in sorted BAM files read through github.com/grailbio/hts.
package bam
