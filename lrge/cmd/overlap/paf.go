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

// Package overlap reduces pairwise alignment records to deduplicated
// per-read overlap counts.
package overlap

import (
	"fmt"
	"strconv"
	"strings"
)

// A PAF line has 12 mandatory fields; we only consume names and lengths but a
// record with fewer fields means the aligner or its invocation is broken.
const pafMinFields = 12

// Record is one pairwise alignment: the query and target read names, and
// their full lengths as reported by the aligner.
type Record struct {
	Query     string
	QueryLen  int
	Target    string
	TargetLen int
}

// parseRecord fills rec from one PAF line.
func parseRecord(line string, rec *Record) error {
	fields := strings.Split(line, "\t")
	if len(fields) < pafMinFields {
		return fmt.Errorf("alignment record has %d fields, expected at least %d: %q", len(fields), pafMinFields, line)
	}

	qlen, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid query length %q: %s", fields[1], err)
	}
	tlen, err := strconv.Atoi(fields[6])
	if err != nil {
		return fmt.Errorf("invalid target length %q: %s", fields[6], err)
	}

	rec.Query = fields[0]
	rec.QueryLen = qlen
	rec.Target = fields[5]
	rec.TargetLen = tlen
	return nil
}

// ParseLine is a breader parse function producing *Record values. Blank and
// comment lines are skipped; anything else that fails to parse aborts the
// read, since a malformed record indicates an aligner problem rather than
// bad user input.
func ParseLine(line string) (interface{}, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" || line[0] == '#' {
		return nil, false, nil
	}

	rec := &Record{}
	if err := parseRecord(line, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}
