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
	"runtime"
	"strings"

	"github.com/grailbio/base/errors"
)

// ClipPolicy determines what happens to soft-clipped bases.  They never take
// part in alignment columns.
type ClipPolicy int

const (
	// ClipDrop discards soft-clipped bases.
	ClipDrop ClipPolicy = iota
	// ClipFlank keeps soft-clipped bases as unaligned flanks of the read
	// (AlignedRead.LeadingClip, AlignedRead.TrailingClip).
	ClipFlank
)

var clipPolicyNames = map[ClipPolicy]string{
	ClipDrop:  "drop",
	ClipFlank: "flank",
}

func (c ClipPolicy) String() string {
	if name, ok := clipPolicyNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ClipPolicy(%d)", int(c))
}

// ParseClipPolicy parses "drop" or "flank".
func ParseClipPolicy(s string) (ClipPolicy, error) {
	for c, name := range clipPolicyNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return ClipDrop, errors.E(errors.Invalid, fmt.Sprintf("unknown clip policy %q", s))
}

// Opts holds the realignment configuration.  It is passed by value and never
// modified after Run starts.
type Opts struct {
	// Commandline options.
	BedPath      string
	Region       string
	BamIndexPath string
	// WindowRadius extends each region on both sides before alignments are
	// loaded.
	WindowRadius int
	// MaxReadSpan is the look-back used when streaming a window: reads
	// starting up to this many bases before it are examined for overlap.
	// Longer reads that start inside the window are loaded as usual.
	MaxReadSpan int
	ClipPolicy  ClipPolicy
	// Parallelism is the number of regions processed concurrently.  Zero
	// means runtime.NumCPU().
	Parallelism int
	// Verbosity 1 logs per-region progress, 2 also logs per-stage progress.
	Verbosity int
}

// DefaultOpts is the default configuration of the bio-realign command.
var DefaultOpts = Opts{
	WindowRadius: 0,
	MaxReadSpan:  511,
	ClipPolicy:   ClipDrop,
	Parallelism:  0,
	Verbosity:    0,
}

func (o Opts) validate() error {
	if o.WindowRadius < 0 {
		return errors.E(errors.Invalid, "realign: window radius must be nonnegative")
	}
	if o.MaxReadSpan <= 0 {
		return errors.E(errors.Invalid, "realign: max read span must be positive")
	}
	if _, ok := clipPolicyNames[o.ClipPolicy]; !ok {
		return errors.E(errors.Invalid, fmt.Sprintf("realign: invalid clip policy %v", o.ClipPolicy))
	}
	if (o.BedPath == "") == (o.Region == "") {
		return errors.E(errors.Invalid, "realign: exactly one of -bed and -region is required")
	}
	return nil
}

func (o Opts) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.NumCPU()
	}
	return o.Parallelism
}
