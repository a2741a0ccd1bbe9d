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
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
	"github.com/spf13/cobra"

	"github.com/mbhall88/lrge/lrge/cmd/estimate"
)

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Re-derive a stored genome size estimate from its per-read estimates",
	Long: `Re-derive a stored genome size estimate from its per-read estimates

The stored estimate is audited against the medians recomputed from the
raw per-read estimate table. A stored value that matches the
finite-only median is left alone; one that matches the all-estimates
median is replaced by the finite-only median; one that matches neither
is reported as an inconsistency and nothing is written. Running the
command twice is a no-op the second time.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		var fhLog *os.File
		if opt.Log2File {
			fhLog = addLog(opt.LogFile, opt.Verbose)
		}
		timeStart := time.Now()
		defer func() {
			if opt.Verbose || opt.Log2File {
				log.Info()
				log.Infof("elapsed time: %s", time.Since(timeStart))
				log.Info()
			}
			if opt.Log2File {
				fhLog.Close()
			}
		}()

		estFile := getFlagString(cmd, "estimates")
		sizeFile := getFlagString(cmd, "size-file")
		dryRun := getFlagBool(cmd, "dry-run")

		if estFile == "" {
			checkError(fmt.Errorf("flag -e/--estimates is required"))
		}
		if sizeFile == "" {
			checkError(fmt.Errorf("flag -s/--size-file is required"))
		}

		ests, err := readPerReadEstimates(estFile, opt.NumCPUs)
		checkError(err)
		if opt.Verbose || opt.Log2File {
			log.Infof("read %d per-read estimate(s) from %s", len(ests), estFile)
		}

		stored, err := readStoredEstimate(sizeFile)
		checkError(err)

		corrected, changed, err := estimate.Recompute(stored, ests)
		checkError(err)

		if !changed {
			if opt.Verbose || opt.Log2File {
				log.Infof("stored estimate %s already is the finite-only median, nothing to do", formatEstimate(stored))
			}
			return
		}

		if dryRun {
			log.Infof("stored estimate %s is the all-estimates median, would replace with the finite-only median %s",
				formatEstimate(stored), formatEstimate(corrected))
			return
		}

		checkError(os.WriteFile(sizeFile, []byte(formatEstimate(corrected)+"\n"), 0644))
		if opt.Verbose || opt.Log2File {
			log.Infof("replaced stored estimate %s with the finite-only median %s",
				formatEstimate(stored), formatEstimate(corrected))
		}
	},
}

// readPerReadEstimates parses the tab-separated per-read estimate table
// written by the estimation commands. A header row is recognised by its
// "estimate" column name and skipped.
func readPerReadEstimates(file string, bufferSize int) ([]float64, error) {
	fn := func(line string) (interface{}, bool, error) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return nil, false, nil
		}
		items := strings.Split(line, "\t")
		if len(items) != 2 {
			return nil, false, fmt.Errorf("invalid per-read estimate line: %s", line)
		}
		if items[1] == "estimate" {
			return nil, false, nil
		}
		v, err := parseEstimateValue(items[1])
		if err != nil {
			return nil, false, err
		}
		return v, true, nil
	}

	reader, err := breader.NewBufferedReader(file, bufferSize, pafChunkSize, fn)
	if err != nil {
		return nil, errors.Wrap(err, file)
	}

	ests := make([]float64, 0, 1024)
	for chunk := range reader.Ch {
		if chunk.Err != nil {
			reader.Cancel()
			return nil, errors.Wrap(chunk.Err, file)
		}
		for _, data := range chunk.Data {
			ests = append(ests, data.(float64))
		}
	}
	return ests, nil
}

func readStoredEstimate(file string) (float64, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return 0, errors.Wrap(err, file)
	}
	return parseEstimateValue(strings.TrimSpace(string(data)))
}

func parseEstimateValue(s string) (float64, error) {
	if s == "inf" {
		return math.Inf(1), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid estimate value: %s", s)
	}
	return v, nil
}

func init() {
	utilsCmd.AddCommand(recomputeCmd)

	recomputeCmd.Flags().StringP("estimates", "e", "",
		formatFlagUsage(`Per-read estimate table, as written by --per-read, supports the ".gz" suffix.`))
	recomputeCmd.Flags().StringP("size-file", "s", "",
		formatFlagUsage(`File holding the stored genome size estimate, corrected in place.`))
	recomputeCmd.Flags().BoolP("dry-run", "", false,
		formatFlagUsage(`Report what would change without writing.`))
}
