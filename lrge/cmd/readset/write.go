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

package readset

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fastx"
	"github.com/shenwei356/xopen"
)

// WriteSubset copies the reads whose ids are in ids from input to output,
// returning the reads written and their cumulative length.
func WriteSubset(input, output string, ids map[string]struct{}) ([]Read, int64, error) {
	reader, err := fastx.NewDefaultReader(input)
	if err != nil {
		return nil, 0, errors.Wrap(err, input)
	}
	outfh, err := xopen.Wopen(output)
	if err != nil {
		return nil, 0, errors.Wrap(err, output)
	}
	defer outfh.Close()

	remaining := len(ids)
	written := make([]Read, 0, remaining)
	var sum int64
	for remaining > 0 {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, errors.Wrap(err, input)
		}

		id := string(record.ID)
		if _, ok := ids[id]; !ok {
			continue
		}
		record.FormatToWriter(outfh, 0)
		written = append(written, Read{ID: id, Len: len(record.Seq.Seq)})
		sum += int64(len(record.Seq.Seq))
		remaining--
	}
	return written, sum, nil
}

// WriteFirstN copies the first n reads of at least minLen bases from input
// to output. Used with length-presorted input, where the first n reads are
// the n longest; the caller's presorted declaration is trusted, not checked.
func WriteFirstN(input, output string, n, minLen int) ([]Read, int64, error) {
	reader, err := fastx.NewDefaultReader(input)
	if err != nil {
		return nil, 0, errors.Wrap(err, input)
	}
	outfh, err := xopen.Wopen(output)
	if err != nil {
		return nil, 0, errors.Wrap(err, output)
	}
	defer outfh.Close()

	written := make([]Read, 0, n)
	var sum int64
	for len(written) < n {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, errors.Wrap(err, input)
		}

		if len(record.Seq.Seq) < minLen {
			continue
		}
		record.FormatToWriter(outfh, 0)
		written = append(written, Read{ID: string(record.ID), Len: len(record.Seq.Seq)})
		sum += int64(len(record.Seq.Seq))
	}
	return written, sum, nil
}

// WriteSkipN skips the first skip reads of at least minLen bases and copies
// the following n to output. With length-presorted input this yields the
// reads ranked directly after the skip longest ones.
func WriteSkipN(input, output string, skip, n, minLen int) ([]Read, int64, error) {
	reader, err := fastx.NewDefaultReader(input)
	if err != nil {
		return nil, 0, errors.Wrap(err, input)
	}
	outfh, err := xopen.Wopen(output)
	if err != nil {
		return nil, 0, errors.Wrap(err, output)
	}
	defer outfh.Close()

	written := make([]Read, 0, n)
	var sum int64
	var kept int
	for len(written) < n {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, 0, errors.Wrap(err, input)
		}

		if len(record.Seq.Seq) < minLen {
			continue
		}
		kept++
		if kept <= skip {
			continue
		}
		record.FormatToWriter(outfh, 0)
		written = append(written, Read{ID: string(record.ID), Len: len(record.Seq.Seq)})
		sum += int64(len(record.Seq.Seq))
	}
	return written, sum, nil
}

// WriteFiltered copies all reads of at least minLen bases from input to
// output.
func WriteFiltered(input, output string, minLen int) (int, int64, error) {
	reader, err := fastx.NewDefaultReader(input)
	if err != nil {
		return 0, 0, errors.Wrap(err, input)
	}
	outfh, err := xopen.Wopen(output)
	if err != nil {
		return 0, 0, errors.Wrap(err, output)
	}
	defer outfh.Close()

	var n int
	var sum int64
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, 0, errors.Wrap(err, input)
		}

		if len(record.Seq.Seq) < minLen {
			continue
		}
		record.FormatToWriter(outfh, 0)
		n++
		sum += int64(len(record.Seq.Seq))
	}
	return n, sum, nil
}

// IsSortedByLength reports whether the reads in file are ordered by length,
// ascending, or descending when descending is true.
func IsSortedByLength(file string, descending bool) (bool, error) {
	reader, err := fastx.NewDefaultReader(file)
	if err != nil {
		return false, errors.Wrap(err, file)
	}

	first := true
	var last int
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return false, errors.Wrap(err, file)
		}

		n := len(record.Seq.Seq)
		if !first {
			if descending && n > last {
				return false, nil
			}
			if !descending && n < last {
				return false, nil
			}
		}
		last = n
		first = false
	}
	return true, nil
}
