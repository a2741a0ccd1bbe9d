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

// Package readset selects the read subsets used for estimation.
package readset

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seq"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/twotwotwo/sorts"
)

func init() {
	seq.ValidateSeq = false
}

// Strategy names how a read subset was chosen.
type Strategy string

const (
	// StrategyLongest takes the N longest reads.
	StrategyLongest Strategy = "long"
	// StrategyRandom samples N reads uniformly without replacement.
	StrategyRandom Strategy = "rand"
)

// Read is a read's identity and length; sequence content never matters to
// the estimator beyond being handed to the aligner.
type Read struct {
	ID  string
	Len int
}

// Set describes a selected read subset written to File.
type Set struct {
	File     string
	Strategy Strategy
	NumReads int
	SumBases int64
}

// AvgLen returns the mean read length of the set.
func (s Set) AvgLen() float64 {
	if s.NumReads == 0 {
		return 0
	}
	return float64(s.SumBases) / float64(s.NumReads)
}

// Scan reads a FASTA/FASTQ file and returns the id and length of every read
// of at least minLen bases, plus their cumulative length.
func Scan(file string, minLen int) ([]Read, int64, error) {
	reader, err := fastx.NewDefaultReader(file)
	if err != nil {
		return nil, 0, errors.Wrap(err, file)
	}

	reads := make([]Read, 0, 1<<16)
	var sum int64
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, errors.Wrap(err, file)
		}

		n := len(record.Seq.Seq)
		if n < minLen {
			continue
		}
		reads = append(reads, Read{ID: string(record.ID), Len: n})
		sum += int64(n)
	}
	return reads, sum, nil
}

// byLength sorts reads ascending by length, ties broken by id for a stable
// selection.
type byLength []Read

func (r byLength) Len() int { return len(r) }
func (r byLength) Less(i, j int) bool {
	if r[i].Len == r[j].Len {
		return r[i].ID < r[j].ID
	}
	return r[i].Len < r[j].Len
}
func (r byLength) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// SortByLength orders reads ascending by length in place.
func SortByLength(reads []Read) {
	sorts.Quicksort(byLength(reads))
}

// Longest returns the n longest reads in descending length order, or all
// reads if fewer exist. reads must already be sorted ascending by length.
func Longest(reads []Read, n int) []Read {
	if n > len(reads) {
		n = len(reads)
	}
	out := make([]Read, 0, n)
	for i := len(reads) - 1; i >= len(reads)-n; i-- {
		out = append(out, reads[i])
	}
	return out
}

// NextLongest returns up to n reads ranked directly after the skip longest
// ones, descending. reads must be sorted ascending by length.
func NextLongest(reads []Read, skip, n int) []Read {
	if skip >= len(reads) {
		return nil
	}
	rest := reads[:len(reads)-skip]
	return Longest(rest, n)
}

// Lengths returns the read lengths as floats, for summary statistics.
func Lengths(reads []Read) []float64 {
	out := make([]float64, len(reads))
	for i, r := range reads {
		out[i] = float64(r.Len)
	}
	return out
}
