// Copyright © 2024 Michael Hall <michael@mbh.sh>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package estimate

import (
	"fmt"
	"math"
)

// RelTolerance is the relative tolerance used when matching a stored
// aggregate against a recomputed median.
const RelTolerance = 1e-5

// Recompute re-derives the finite-only median from raw per-read estimates
// and audits a previously stored aggregate against it. The stored value must
// match either the all-estimates median or the finite-only median; anything
// else is an inconsistency and is reported as an error rather than repaired.
// The returned bool is true when the stored value was the all-estimates
// median and needs replacing; recomputing an already-corrected value is a
// no-op, so the operation is idempotent.
func Recompute(stored float64, ests []float64) (float64, bool, error) {
	if len(ests) == 0 {
		return 0, false, fmt.Errorf("no per-read estimates to recompute from")
	}

	all := Aggregate(ests, false)
	finite := Aggregate(ests, true)

	switch {
	case closeEnough(stored, finite):
		return finite, false, nil
	case closeEnough(stored, all):
		return finite, true, nil
	default:
		return 0, false, fmt.Errorf(
			"stored estimate %v matches neither the all-estimates median (%v) nor the finite-only median (%v)",
			stored, all, finite)
	}
}

func closeEnough(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= RelTolerance*scale
}
