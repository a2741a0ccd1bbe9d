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

package tools

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
)

var (
	reKeptReads = regexp.MustCompile(`Keeping (\d+) reads`)
	reKeptBases = regexp.MustCompile(`Kept (\d+) bases`)
)

// SubsampleArgs builds the rasusa argument list for sampling n reads from
// input into output. seed < 0 leaves the sampler's own seeding in place.
func SubsampleArgs(input, output string, n int, seed int64) []string {
	args := []string{"reads", "-n", strconv.Itoa(n)}
	if seed >= 0 {
		args = append(args, "-s", strconv.FormatInt(seed, 10))
	}
	return append(args, "-o", output, input)
}

// Subsample samples n reads uniformly without replacement using rasusa and
// recovers the number of reads and bases actually kept from its output -
// both may be lower than requested when the population is smaller than n.
func Subsample(input, output string, n int, seed int64) (int, int64, error) {
	cmd := exec.Command("rasusa", SubsampleArgs(input, output, n, seed)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, 0, fmt.Errorf("rasusa failed (%s):\n%s", err, stderr.String())
	}

	return parseSubsampleOutput(stderr.String())
}

func parseSubsampleOutput(out string) (int, int64, error) {
	m := reKeptReads.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, fmt.Errorf("could not find the number of kept reads in rasusa output:\n%s", out)
	}
	reads, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, err
	}

	m = reKeptBases.FindStringSubmatch(out)
	if m == nil {
		return 0, 0, fmt.Errorf("could not find the number of kept bases in rasusa output:\n%s", out)
	}
	bases, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	return reads, bases, nil
}
