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
package main

/*
bio-realign builds a gap-synchronized multiple alignment of the reads in each
requested window of a coordinate-sorted, indexed BAM file.  Every insertion
becomes a gap column shared by the reference and all overlapping reads, and
the resulting layout is written as TSV.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/realigner/realign"
)

var (
	bedPath      = flag.String("bed", realign.DefaultOpts.BedPath, "Input BED path listing the windows to realign; this xor -region required")
	region       = flag.String("region", realign.DefaultOpts.Region, "Realign a single window. Format as <contig ID>:<1-based first pos>-<last pos>, <contig ID>:<1-based pos>, or just <contig ID>; this xor -bed required")
	bamIndexPath = flag.String("index", realign.DefaultOpts.BamIndexPath, "Input BAM index path. Defaults to bampath + .bai")
	windowRadius = flag.Int("window-radius", realign.DefaultOpts.WindowRadius, "Number of bases to extend each window by on both sides")
	maxReadSpan  = flag.Int("max-read-span", realign.DefaultOpts.MaxReadSpan, "Number of bases before each region to scan for overlapping reads")
	clip         = flag.String("clip", realign.DefaultOpts.ClipPolicy.String(), "Soft-clip handling: 'drop' discards clipped bases, 'flank' reports them next to the layout")
	outPath      = flag.String("out", "-", "Output TSV path; '-' for stdout, gzipped if it ends in .gz")
	parallelism  = flag.Int("parallelism", realign.DefaultOpts.Parallelism, "Maximum number of windows processed simultaneously; 0 = runtime.NumCPU()")
	verbosity    = flag.Int("verbosity", realign.DefaultOpts.Verbosity, "1 reports per-window progress, 2 also reports loading steps")
)

func bioRealignUsage() {
	fmt.Printf("Usage: %s [OPTIONS] bampath fapath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioRealignUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	nPositionalArgs := flag.NArg()
	positionalArgs := allArgs[len(allArgs)-nPositionalArgs:]
	if nPositionalArgs != 2 {
		if nPositionalArgs < 2 {
			log.Fatalf("Missing positional arguments (bampath and fapath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		} else {
			log.Fatalf("Too many positional arguments (only bampath and fapath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
		}
	}
	clipPolicy, err := realign.ParseClipPolicy(*clip)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()
	opts := realign.Opts{
		BedPath:      *bedPath,
		Region:       *region,
		BamIndexPath: *bamIndexPath,
		WindowRadius: *windowRadius,
		MaxReadSpan:  *maxReadSpan,
		ClipPolicy:   clipPolicy,
		Parallelism:  *parallelism,
		Verbosity:    *verbosity,
	}
	stats, err := realign.Run(ctx, positionalArgs[0], positionalArgs[1], *outPath, opts)
	if err != nil {
		log.Panicf("%v", err)
	}
	if stats.Failed > 0 {
		log.Printf("%d of %d window(s) failed", stats.Failed, stats.Regions)
	}
}
