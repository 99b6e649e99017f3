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
	"context"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/realigner/encoding/bamprovider"
	"github.com/grailbio/realigner/encoding/fasta"
	"github.com/grailbio/realigner/interval"
	"github.com/klauspost/compress/gzip"
)

// RunStats summarizes a Run.
type RunStats struct {
	Regions int
	// Failed counts windows that failed with an error; they are not written.
	Failed int
	// Empty counts windows without mapped reads.
	Empty   int
	Reads   int
	Columns int
}

// ProcessRegion loads, ingests and projects one region.
func ProcessRegion(ctx context.Context, provider bamprovider.Provider, ref fasta.Fasta, region Region, opts Opts) (*Window, error) {
	w, err := LoadWindow(ctx, provider, ref, region, opts)
	if err != nil {
		return nil, err
	}
	if err := w.Ingest(opts); err != nil {
		return nil, err
	}
	if err := Project(w); err != nil {
		return nil, err
	}
	return w, nil
}

// LoadRegions returns the regions selected by opts.Region or opts.BedPath.
func LoadRegions(opts Opts) ([]Region, error) {
	if opts.Region != "" {
		entry, err := interval.ParseRegionString(opts.Region)
		if err != nil {
			return nil, errors.E(errors.Invalid, err, "region", opts.Region)
		}
		return []Region{RegionFromEntry(entry)}, nil
	}
	entries, err := interval.ReadEntriesFromPath(opts.BedPath, interval.NewBEDOpts{})
	if err != nil {
		return nil, errors.E(err, "intervals", opts.BedPath)
	}
	regions := make([]Region, len(entries))
	for i, e := range entries {
		regions[i] = RegionFromEntry(e)
	}
	return regions, nil
}

// Run realigns every region selected by opts against the BAM file at
// bampath and the FASTA file at fapath, and writes the layout to outPath
// ("-" for stdout, gzipped if it ends in .gz).
//
// Failing to open any input is an error, reported before any region is
// processed.  A region that fails is logged, counted in RunStats.Failed and
// skipped.
func Run(ctx context.Context, bampath, fapath, outPath string, opts Opts) (stats RunStats, err error) {
	if err = opts.validate(); err != nil {
		return
	}
	var regions []Region
	if regions, err = LoadRegions(opts); err != nil {
		return
	}

	if opts.Verbosity >= 1 {
		log.Printf("Opening BAM index %s", bamprovider.IndexPath(bampath, opts.BamIndexPath))
	}
	if err = checkReadable(ctx, bamprovider.IndexPath(bampath, opts.BamIndexPath)); err != nil {
		return
	}
	provider := bamprovider.NewProvider(bampath, bamprovider.ProviderOpts{Index: opts.BamIndexPath})
	defer func() {
		if e := provider.Close(); e != nil && err == nil {
			err = e
		}
	}()
	if _, err = provider.GetHeader(); err != nil {
		err = errors.E(err, "BAM", bampath)
		return
	}

	if opts.Verbosity >= 1 {
		log.Printf("Opening FASTA %s", fapath)
	}
	var fa *fasta.File
	if fa, err = fasta.Open(ctx, fapath); err != nil {
		return
	}
	defer func() {
		if e := fa.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	nRegion := len(regions)
	windows := make([]*Window, nRegion)
	errs := make([]error, nRegion)
	if nRegion > 0 {
		parallelism := minInt(opts.parallelism(), nRegion)
		log.Debug.Printf("realign.Run: %d region(s), %d job(s)", nRegion, parallelism)
		err = traverse.Each(parallelism, func(jobIdx int) (err error) {
			// Each job reads the reference through its own handle.
			ref, err := fa.Clone(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if e := ref.Close(ctx); e != nil && err == nil {
					err = e
				}
			}()
			startIdx := (jobIdx * nRegion) / parallelism
			endIdx := ((jobIdx + 1) * nRegion) / parallelism
			for i := startIdx; i < endIdx; i++ {
				if opts.Verbosity >= 1 {
					log.Printf("Processing (#%d) %v", i+1, regions[i])
				}
				windows[i], errs[i] = ProcessRegion(ctx, provider, ref, regions[i], opts)
			}
			return nil
		})
		if err != nil {
			return
		}
	}

	err = writeLayout(ctx, outPath, opts.ClipPolicy, func(lw *LayoutWriter) error {
		for i, w := range windows {
			stats.Regions++
			if errs[i] != nil {
				log.Error.Printf("region %v: %v", regions[i], errs[i])
				stats.Failed++
				continue
			}
			if w.Stats.NoAlignments {
				stats.Empty++
			}
			stats.Reads += len(w.Aligned)
			stats.Columns += w.Stats.Columns
			if err := lw.WriteWindow(w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return
	}
	log.Printf("DONE: %d region(s), %d failed, %d without alignments, %d read(s), %d insertion column(s)",
		stats.Regions, stats.Failed, stats.Empty, stats.Reads, stats.Columns)
	return
}

func checkReadable(ctx context.Context, path string) error {
	f, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	return f.Close(ctx)
}

// writeLayout creates the output at path and passes a LayoutWriter on it to
// fn, after writing the header.
func writeLayout(ctx context.Context, path string, policy ClipPolicy, fn func(lw *LayoutWriter) error) (err error) {
	var out io.Writer = os.Stdout
	if path != "-" {
		var dst file.File
		if dst, err = file.Create(ctx, path); err != nil {
			return
		}
		defer file.CloseAndReport(ctx, dst, &err)
		out = dst.Writer(ctx)
	}
	if fileio.DetermineType(path) == fileio.Gzip {
		gz := gzip.NewWriter(out)
		defer func() {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}()
		out = gz
	}
	lw := NewLayoutWriter(out, policy)
	if err = lw.WriteHeader(); err != nil {
		return
	}
	if err = fn(lw); err != nil {
		return errors.E(err, "writing", path)
	}
	return lw.Flush()
}
