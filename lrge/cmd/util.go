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
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-colorable"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/util/pathutil"
	"github.com/spf13/cobra"
	"github.com/twotwotwo/sorts"

	"github.com/mbhall88/lrge/lrge/cmd/estimate"
)

// chunk size for the buffered PAF reader
var pafChunkSize = 5000

// Options contains the global flags
type Options struct {
	NumCPUs int
	Verbose bool

	LogFile  string
	Log2File bool

	Compress         bool
	CompressionLevel int
}

func getOptions(cmd *cobra.Command) *Options {
	threads := getFlagNonNegativeInt(cmd, "threads")
	if threads == 0 {
		threads = runtime.NumCPU()
	}

	sorts.MaxProcs = threads
	runtime.GOMAXPROCS(threads)

	logfile := getFlagString(cmd, "log")
	return &Options{
		NumCPUs: threads,
		Verbose: !getFlagBool(cmd, "quiet"),

		LogFile:  logfile,
		Log2File: logfile != "",

		Compress:         true,
		CompressionLevel: -1,
	}
}

func addLog(logfile string, verbose bool) *os.File {
	fh, err := os.Create(logfile)
	checkError(err)

	backendStderr := logging.NewLogBackend(colorable.NewColorableStderr(), "", 0)
	backendFile := logging.NewLogBackend(fh, "", 0)

	format := logging.MustStringFormatter(`%{time:15:04:05.000} %{color}[%{level:.4s}]%{color:reset} %{message}`)
	formattedStderr := logging.NewBackendFormatter(backendStderr, format)
	formattedFile := logging.NewBackendFormatter(backendFile, format)

	logging.SetBackend(formattedStderr, formattedFile)
	return fh
}

// checkInputFile ensures the input is a single, existing, regular file.
// Estimation makes several passes over the input and hands it to external
// tools, so stdin cannot be supported.
func checkInputFile(args []string) string {
	if len(args) != 1 {
		checkError(fmt.Errorf("exactly one input FASTQ file is required"))
	}
	file := args[0]
	if isStdin(file) {
		checkError(fmt.Errorf("stdin not supported, input must be a file"))
	}
	existed, err := pathutil.Exists(file)
	checkError(errors.Wrap(err, file))
	if !existed {
		checkError(fmt.Errorf("input file does not exist: %s", file))
	}
	return file
}

// makeTmpDir creates the directory intermediate files are written to. With
// an empty dir, the system temporary directory is used.
func makeTmpDir(dir string) string {
	if dir != "" {
		expanded, err := homedir.Expand(dir)
		checkError(errors.Wrap(err, dir))
		checkError(os.MkdirAll(expanded, 0755))
		dir = expanded
	}
	tmpDir, err := os.MkdirTemp(dir, "lrge-")
	checkError(err)
	return tmpDir
}

func MeanStdev(values []float64) (float64, float64) {
	n := len(values)

	if n == 0 {
		return 0, 0
	}

	if n == 1 {
		return values[0], 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	mean := sum / float64(n)

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return mean, math.Sqrt(variance / float64(n))
}

// formatEstimate renders a genome size estimate for machine consumption.
// Infinite estimates are spelled "inf" so callers can tell "no information"
// apart from a number without extra conventions.
func formatEstimate(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// humanEstimate renders an estimate for log messages.
func humanEstimate(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return humanize.Comma(int64(math.Round(v)))
}

// reportResult logs and writes the final genome size estimate. A NaN median
// means no per-read estimates existed at all, which is a failure; an
// infinite median is a legitimate "no read carried information" outcome and
// is written as "inf".
func reportResult(opt *Options, outFile string, res estimate.Result, numEstimates int) {
	if math.IsNaN(res.Median) {
		checkError(fmt.Errorf("no per-read estimates were produced"))
	}

	if res.NoOverlapCount > 0 {
		percent := float64(res.NoOverlapCount) / float64(numEstimates) * 100
		log.Warningf("%d (%.2f%%) read(s) had no overlaps", res.NoOverlapCount, percent)
	}
	if math.IsInf(res.Median, 1) {
		log.Warning("every per-read estimate is infinite; the genome size could not be determined from the data")
	}

	if opt.Verbose || opt.Log2File {
		if !math.IsNaN(res.Lower) && !math.IsNaN(res.Upper) {
			log.Infof("estimated genome size: %s (%.0f%%-%.0f%% quantiles: %s - %s)",
				humanEstimate(res.Median),
				estimate.LowerQuantile*100, estimate.UpperQuantile*100,
				humanEstimate(res.Lower), humanEstimate(res.Upper))
		} else {
			log.Infof("estimated genome size: %s", humanEstimate(res.Median))
		}
	}

	outfh, gw, w, err := outStream(outFile, strings.HasSuffix(strings.ToLower(outFile), ".gz"), opt.CompressionLevel)
	checkError(err)
	defer func() {
		outfh.Flush()
		if gw != nil {
			gw.Close()
		}
		w.Close()
	}()

	fmt.Fprintln(outfh, formatEstimate(res.Median))
}

// writePerReadEstimates writes the per-read estimate table: one read per
// line, id and estimate, tab separated. This table is the input of
// "lrge utils recompute".
func writePerReadEstimates(opt *Options, file string, pres []estimate.PerReadEstimate) {
	outfh, gw, w, err := outStream(file, strings.HasSuffix(strings.ToLower(file), ".gz"), opt.CompressionLevel)
	checkError(err)
	defer func() {
		outfh.Flush()
		if gw != nil {
			gw.Close()
		}
		w.Close()
	}()

	fmt.Fprintf(outfh, "read\testimate\n")
	for _, p := range pres {
		fmt.Fprintf(outfh, "%s\t%s\n", p.ID, formatEstimate(p.Estimate))
	}
}
