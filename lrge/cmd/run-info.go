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
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// RunInfo records the parameters and result of one estimation run, so a
// result file can always be traced back to how it was produced.
type RunInfo struct {
	Version string `yaml:"version"`
	Command string `yaml:"command"`
	Input   string `yaml:"input"`

	Platform string `yaml:"platform"`
	Threads  int    `yaml:"threads"`
	Seed     int64  `yaml:"seed"`

	OverlapThreshold int  `yaml:"overlap_threshold"`
	FiniteOnly       bool `yaml:"finite_only"`

	Strategy        string `yaml:"strategy,omitempty"`
	NumReads        int    `yaml:"num_reads,omitempty"`
	NumLongest      int    `yaml:"num_longest,omitempty"`
	NumOverlapReads int    `yaml:"num_overlap_reads,omitempty"`

	SumBases       int64 `yaml:"sum_bases"`
	NoOverlapCount int   `yaml:"no_overlap_count"`

	Lower    string `yaml:"lower"`
	Estimate string `yaml:"estimate"`
	Upper    string `yaml:"upper"`
}

func writeRunInfo(file string, info RunInfo) {
	info.Version = VERSION
	info.Command = strings.Join(os.Args, " ")

	data, err := yaml.Marshal(info)
	checkError(err)

	fh, err := os.Create(file)
	checkError(err)
	defer fh.Close()

	fmt.Fprintf(fh, "# lrge run information\n")
	_, err = fh.Write(data)
	checkError(err)
}
