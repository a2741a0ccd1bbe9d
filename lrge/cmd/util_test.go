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

package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestFormatEstimate(t *testing.T) {
	if got := formatEstimate(4173000); got != "4173000" {
		t.Errorf("got %q", got)
	}
	if got := formatEstimate(math.Inf(1)); got != "inf" {
		t.Errorf("got %q", got)
	}
	if got := formatEstimate(1234.5); got != "1234.5" {
		t.Errorf("got %q", got)
	}
}

func TestParseEstimateValue(t *testing.T) {
	v, err := parseEstimateValue("inf")
	if err != nil || !math.IsInf(v, 1) {
		t.Errorf("got %v, %v", v, err)
	}
	v, err = parseEstimateValue("4173000")
	if err != nil || v != 4173000 {
		t.Errorf("got %v, %v", v, err)
	}
	if _, err = parseEstimateValue("not-a-number"); err == nil {
		t.Error("expected an error")
	}
}

func TestMeanStdev(t *testing.T) {
	mean, stdev := MeanStdev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if mean != 5 {
		t.Errorf("mean: got %v, want 5", mean)
	}
	if stdev != 2 {
		t.Errorf("stdev: got %v, want 2", stdev)
	}

	mean, stdev = MeanStdev(nil)
	if mean != 0 || stdev != 0 {
		t.Errorf("got %v/%v, want 0/0", mean, stdev)
	}
}

func TestReadPerReadEstimates(t *testing.T) {
	file := filepath.Join(t.TempDir(), "estimates.tsv")
	content := "read\testimate\nr1\t1800\nr2\tinf\nr3\t2100.5\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ests, err := readPerReadEstimates(file, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ests) != 3 {
		t.Fatalf("got %d estimate(s), want 3", len(ests))
	}

	var infs int
	var sum float64
	for _, e := range ests {
		if math.IsInf(e, 1) {
			infs++
			continue
		}
		sum += e
	}
	if infs != 1 {
		t.Errorf("got %d infinite value(s), want 1", infs)
	}
	if sum != 3900.5 {
		t.Errorf("got %v, want 3900.5", sum)
	}
}

func TestReadStoredEstimate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "size.txt")
	if err := os.WriteFile(file, []byte("4173000\n"), 0644); err != nil {
		t.Fatal(err)
	}
	v, err := readStoredEstimate(file)
	if err != nil || v != 4173000 {
		t.Errorf("got %v, %v", v, err)
	}
}
