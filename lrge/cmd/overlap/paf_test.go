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

package overlap

import "testing"

func TestParseLine(t *testing.T) {
	line := "read1\t4402\t10\t4400\t+\tread2\t5328\t0\t4390\t3120\t4395\t60"
	data, ok, err := ParseLine(line)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a record")
	}
	rec := data.(*Record)
	if rec.Query != "read1" || rec.QueryLen != 4402 {
		t.Errorf("query: got %s/%d", rec.Query, rec.QueryLen)
	}
	if rec.Target != "read2" || rec.TargetLen != 5328 {
		t.Errorf("target: got %s/%d", rec.Target, rec.TargetLen)
	}
}

func TestParseLineSkips(t *testing.T) {
	for _, line := range []string{"", "\n", "# comment\n"} {
		_, ok, err := ParseLine(line)
		if err != nil {
			t.Errorf("line %q: %s", line, err)
		}
		if ok {
			t.Errorf("line %q should be skipped", line)
		}
	}
}

func TestParseLineMalformed(t *testing.T) {
	cases := []string{
		"read1\t4402\t10",
		"read1\tNaN\t10\t4400\t+\tread2\t5328\t0\t4390\t3120\t4395\t60",
		"read1\t4402\t10\t4400\t+\tread2\tx\t0\t4390\t3120\t4395\t60",
	}
	for _, line := range cases {
		if _, _, err := ParseLine(line); err == nil {
			t.Errorf("line %q: expected an error", line)
		}
	}
}

func TestParseLineExtraFields(t *testing.T) {
	// minimap2 appends optional SAM-like tags; they are ignored
	line := "read1\t4402\t10\t4400\t+\tread2\t5328\t0\t4390\t3120\t4395\t60\ttp:A:S\tcm:i:298"
	data, ok, err := ParseLine(line)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if data.(*Record).TargetLen != 5328 {
		t.Errorf("got %d, want 5328", data.(*Record).TargetLen)
	}
}
