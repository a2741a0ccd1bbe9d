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
	"testing"
)

func TestAggregateOdd(t *testing.T) {
	if m := Aggregate([]float64{300, 100, 200}, false); m != 200 {
		t.Errorf("got %v, want 200", m)
	}
}

func TestAggregateEven(t *testing.T) {
	if m := Aggregate([]float64{400, 100, 300, 200}, false); m != 250 {
		t.Errorf("got %v, want 250", m)
	}
}

func TestAggregateSingle(t *testing.T) {
	if m := Aggregate([]float64{42}, false); m != 42 {
		t.Errorf("got %v, want 42", m)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if m := Aggregate(nil, false); !math.IsNaN(m) {
		t.Errorf("got %v, want NaN", m)
	}
}

func TestAggregateWithInfinity(t *testing.T) {
	// infinities sort last; the median of [1 2 3 inf] interpolates
	// between the two finite middle values.
	inf := math.Inf(1)
	if m := Aggregate([]float64{1, 2, 3, inf}, false); m != 2.5 {
		t.Errorf("got %v, want 2.5", m)
	}
	if m := Aggregate([]float64{1, inf}, false); !math.IsInf(m, 1) {
		t.Errorf("got %v, want +Inf", m)
	}
}

func TestAggregateFiniteOnly(t *testing.T) {
	inf := math.Inf(1)
	if m := Aggregate([]float64{100, inf, 300, inf, 200}, true); m != 200 {
		t.Errorf("got %v, want 200", m)
	}
	// with infinities included, they occupy the top sorted positions
	if m := Aggregate([]float64{100, inf, 300, inf, 200}, false); m != 300 {
		t.Errorf("got %v, want 300", m)
	}
}

func TestAggregateAllInfinite(t *testing.T) {
	inf := math.Inf(1)
	if m := Aggregate([]float64{inf, inf}, true); !math.IsInf(m, 1) {
		t.Errorf("got %v, want +Inf", m)
	}
	if m := Aggregate([]float64{inf, inf}, false); !math.IsInf(m, 1) {
		t.Errorf("got %v, want +Inf", m)
	}
}

// interpolated ranks like 0.15*9 are not exactly representable in
// float64, so quantile expectations are compared within a tolerance.
func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQuantiles(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	r := Quantiles(data, false, LowerQuantile, UpperQuantile)
	if !approxEqual(r.Lower, 2.35) {
		t.Errorf("lower: got %v, want 2.35", r.Lower)
	}
	if !approxEqual(r.Median, 5.5) {
		t.Errorf("median: got %v, want 5.5", r.Median)
	}
	if !approxEqual(r.Upper, 6.85) {
		t.Errorf("upper: got %v, want 6.85", r.Upper)
	}
	if r.NoOverlapCount != 0 {
		t.Errorf("no-overlap count: got %d, want 0", r.NoOverlapCount)
	}
}

func TestQuantilesNoOverlapCount(t *testing.T) {
	inf := math.Inf(1)
	r := Quantiles([]float64{100, inf, 300, inf, 200}, true, LowerQuantile, UpperQuantile)
	if r.NoOverlapCount != 2 {
		t.Errorf("no-overlap count: got %d, want 2", r.NoOverlapCount)
	}
	if r.Median != 200 {
		t.Errorf("median: got %v, want 200", r.Median)
	}
}

func TestQuantilesAllInfiniteFiniteOnly(t *testing.T) {
	inf := math.Inf(1)
	r := Quantiles([]float64{inf, inf, inf}, true, LowerQuantile, UpperQuantile)
	if !math.IsInf(r.Median, 1) || !math.IsInf(r.Lower, 1) || !math.IsInf(r.Upper, 1) {
		t.Errorf("got %v/%v/%v, want all +Inf", r.Lower, r.Median, r.Upper)
	}
	if r.NoOverlapCount != 3 {
		t.Errorf("no-overlap count: got %d, want 3", r.NoOverlapCount)
	}
}

func TestQuantilesEmpty(t *testing.T) {
	r := Quantiles(nil, false, LowerQuantile, UpperQuantile)
	if !math.IsNaN(r.Median) {
		t.Errorf("got %v, want NaN", r.Median)
	}
}

func TestFinite(t *testing.T) {
	inf := math.Inf(1)
	got := Finite([]float64{1, inf, 2})
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}
