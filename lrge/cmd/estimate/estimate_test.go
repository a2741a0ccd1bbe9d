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

func TestPotentialPartners(t *testing.T) {
	ava := Config{Mode: ModeAva, NumReads: 100}
	if ava.PotentialPartners() != 99 {
		t.Errorf("ava potential partners: got %d, want 99", ava.PotentialPartners())
	}
	twoset := Config{Mode: ModeTwoSet, NumReads: 100}
	if twoset.PotentialPartners() != 100 {
		t.Errorf("twoset potential partners: got %d, want 100", twoset.PotentialPartners())
	}
}

func TestPerRead(t *testing.T) {
	// 4 partners, all overlapping, reads of length 1000, threshold 100.
	got := PerRead(1000, 1000, 4, 4, 100)
	if got != 1800 {
		t.Errorf("got %v, want 1800", got)
	}

	// reference read of 5000 against an overlap pool of 100 reads of
	// mean length 2000, 10 overlaps.
	got = PerRead(5000, 2000, 100, 10, 100)
	if got != 68000 {
		t.Errorf("got %v, want 68000", got)
	}

	// a read with no overlaps carries no information.
	got = PerRead(5000, 2000, 100, 0, 100)
	if !math.IsInf(got, 1) {
		t.Errorf("got %v, want +Inf", got)
	}
}

func TestAvaEstimates(t *testing.T) {
	// 5 reads of length 1000, every pair overlaps, so every read has
	// 4 overlaps and a leave-one-out mean partner length of 1000.
	counts := make(map[string]int)
	lens := make(map[string]int)
	var sumBases int64
	for _, id := range []string{"r1", "r2", "r3", "r4", "r5"} {
		counts[id] = 4
		lens[id] = 1000
		sumBases += 1000
	}

	cfg := Config{Mode: ModeAva, NumReads: 5, Threshold: 100}
	pres, err := AvaEstimates(counts, lens, sumBases, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pres) != 5 {
		t.Fatalf("got %d estimates, want 5", len(pres))
	}
	for _, p := range pres {
		if p.Estimate != 1800 {
			t.Errorf("read %s: got %v, want 1800", p.ID, p.Estimate)
		}
	}

	if m := Aggregate(Values(pres), false); m != 1800 {
		t.Errorf("median: got %v, want 1800", m)
	}
}

func TestAvaEstimatesZeroOverlap(t *testing.T) {
	counts := map[string]int{"a": 1, "b": 1, "c": 0}
	lens := map[string]int{"a": 1000, "b": 1000, "c": 1000}

	cfg := Config{Mode: ModeAva, NumReads: 3, Threshold: 100}
	pres, err := AvaEstimates(counts, lens, 3000, cfg)
	if err != nil {
		t.Fatal(err)
	}

	var infs int
	for _, p := range pres {
		if math.IsInf(p.Estimate, 1) {
			if p.ID != "c" {
				t.Errorf("read %s unexpectedly infinite", p.ID)
			}
			infs++
		}
	}
	if infs != 1 {
		t.Errorf("got %d infinite estimate(s), want 1", infs)
	}
}

func TestAvaEstimatesLeaveOneOut(t *testing.T) {
	// the partner-length statistic must exclude the read itself.
	counts := map[string]int{"a": 1, "b": 1}
	lens := map[string]int{"a": 1000, "b": 3000}

	cfg := Config{Mode: ModeAva, NumReads: 2, Threshold: 100}
	pres, err := AvaEstimates(counts, lens, 4000, cfg)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]float64{
		// (1/1) * (1000 + 3000 - 200)
		"a": 3800,
		// (1/1) * (3000 + 1000 - 200)
		"b": 3800,
	}
	for _, p := range pres {
		if p.Estimate != want[p.ID] {
			t.Errorf("read %s: got %v, want %v", p.ID, p.Estimate, want[p.ID])
		}
	}
}

func TestAvaEstimatesErrors(t *testing.T) {
	cfg := Config{Mode: ModeAva, NumReads: 1, Threshold: 100}
	if _, err := AvaEstimates(map[string]int{"a": 0}, map[string]int{"a": 100}, 100, cfg); err == nil {
		t.Error("expected error for a single read")
	}

	cfg = Config{Mode: ModeAva, NumReads: 2, Threshold: 100}
	if _, err := AvaEstimates(map[string]int{"a": 1, "b": 1}, map[string]int{"a": 100}, 200, cfg); err == nil {
		t.Error("expected error for a read without a recorded length")
	}
}

func TestTwoSetEstimates(t *testing.T) {
	// reference reads 5000 and 3000, overlap set of 100 reads with mean
	// length 2000; the first has 10 overlaps, the second none.
	counts := map[string]int{"A": 10}
	refLens := map[string]int{"A": 5000, "B": 3000}

	cfg := Config{Mode: ModeTwoSet, NumReads: 100, Threshold: 100}
	pres, err := TwoSetEstimates(counts, refLens, 2000, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(pres) != 2 {
		t.Fatalf("got %d estimates, want 2", len(pres))
	}

	for _, p := range pres {
		switch p.ID {
		case "A":
			if p.Estimate != 68000 {
				t.Errorf("read A: got %v, want 68000", p.Estimate)
			}
		case "B":
			if !math.IsInf(p.Estimate, 1) {
				t.Errorf("read B: got %v, want +Inf", p.Estimate)
			}
		default:
			t.Errorf("unexpected read id %s", p.ID)
		}
	}

	if m := Aggregate(Values(pres), true); m != 68000 {
		t.Errorf("finite-only median: got %v, want 68000", m)
	}
}

func TestModeString(t *testing.T) {
	if ModeAva.String() != "ava" || ModeTwoSet.String() != "twoset" {
		t.Errorf("got %s/%s", ModeAva, ModeTwoSet)
	}
}
