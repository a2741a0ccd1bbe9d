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
	"math"
	"sort"
)

// Result is the aggregate of the per-read estimates. Median is the genome
// size estimate; Lower and Upper bound the confidence interval and are NaN
// when not requested. An infinite Median means every estimate considered was
// infinite - the data carried no information, which is distinct from having
// no data at all (NaN).
type Result struct {
	Lower  float64
	Median float64
	Upper  float64

	// NoOverlapCount is the number of reads without a single overlap. A high
	// value is a quality signal worth investigating (contamination, poor
	// quality reads, etc.).
	NoOverlapCount int
}

// Finite returns the finite values of ests.
func Finite(ests []float64) []float64 {
	out := make([]float64, 0, len(ests))
	for _, e := range ests {
		if !math.IsInf(e, 0) {
			out = append(out, e)
		}
	}
	return out
}

// Aggregate reduces per-read estimates to a single genome size. With
// finiteOnly, infinite estimates are dropped first. Returns NaN when there is
// nothing to aggregate at all, and +Inf when finiteOnly removed every value
// (all reads had zero overlaps).
func Aggregate(ests []float64, finiteOnly bool) float64 {
	if len(ests) == 0 {
		return math.NaN()
	}
	if finiteOnly {
		ests = Finite(ests)
		if len(ests) == 0 {
			return math.Inf(1)
		}
	}

	sorted := append([]float64(nil), ests...)
	sort.Float64s(sorted)
	return quantile(sorted, 0.5)
}

// Quantiles computes the lower quantile, median and upper quantile of the
// estimates under the same finite policy as Aggregate. lower must be in
// [0, 0.5] and upper in [0.5, 1].
func Quantiles(ests []float64, finiteOnly bool, lower, upper float64) Result {
	r := Result{Lower: math.NaN(), Median: math.NaN(), Upper: math.NaN()}
	for _, e := range ests {
		if math.IsInf(e, 1) {
			r.NoOverlapCount++
		}
	}

	if finiteOnly {
		ests = Finite(ests)
	}
	if len(ests) == 0 {
		if r.NoOverlapCount > 0 {
			r.Lower, r.Median, r.Upper = math.Inf(1), math.Inf(1), math.Inf(1)
		}
		return r
	}

	sorted := append([]float64(nil), ests...)
	sort.Float64s(sorted)

	r.Median = quantile(sorted, 0.5)
	if !math.IsNaN(lower) {
		r.Lower = quantile(sorted, lower)
	}
	if !math.IsNaN(upper) {
		r.Upper = quantile(sorted, upper)
	}
	return r
}

// quantile interpolates linearly between the two closest ranks of sorted
// data. q must be in [0, 1] and data non-empty and sorted ascending.
func quantile(data []float64, q float64) float64 {
	n := len(data)
	pos := q * float64(n-1)
	idx := int(math.Floor(pos))
	frac := pos - float64(idx)

	if idx+1 >= n {
		return data[idx]
	}
	if frac == 0 {
		return data[idx]
	}
	lo, hi := data[idx], data[idx+1]
	if math.IsInf(hi, 1) {
		// interpolating toward +Inf is +Inf regardless of the fraction
		return hi
	}
	return lo*(1-frac) + hi*frac
}
