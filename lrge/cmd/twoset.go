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
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mbhall88/lrge/lrge/cmd/estimate"
	"github.com/mbhall88/lrge/lrge/cmd/overlap"
	"github.com/mbhall88/lrge/lrge/cmd/readset"
	"github.com/mbhall88/lrge/lrge/cmd/tools"
)

var twosetCmd = &cobra.Command{
	Use:   "twoset",
	Short: "Estimate genome size by overlapping the longest reads against a second read set",
	Long: `Estimate genome size by overlapping the longest reads against a second read set

The longest reads of the input form the reference set; a second,
disjoint overlap set is selected from the remaining reads (the next
longest by default, a random sample with -r/--random). The two sets
are overlapped with minimap2 and a per-read estimate is computed for
each reference read from the number of distinct overlap-set reads it
overlaps. The median of the reference-read estimates is written to the
output file ("inf" if no reference read had any overlap).

Attentions:
  1. minimap2 must be in $PATH.
  2. rasusa must be in $PATH when using -r/--random.
  3. Reads shorter than the value of -l/--min-read-len are ignored.

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

		outFile := getFlagString(cmd, "out-file")
		numLongest := getFlagPositiveInt(cmd, "longest")
		numOverlap := getFlagPositiveInt(cmd, "num-overlap")
		randomOverlapSet := getFlagBool(cmd, "random")
		presorted := getFlagBool(cmd, "presorted")
		minReadLen := getFlagNonNegativeInt(cmd, "min-read-len")
		platform := getFlagString(cmd, "platform")
		threshold := getFlagNonNegativeInt(cmd, "threshold")
		finiteOnly := getFlagBool(cmd, "finite")
		seed := getFlagInt64(cmd, "seed")
		perReadFile := getFlagString(cmd, "per-read")
		runInfoFile := getFlagString(cmd, "run-info")
		tmpDirFlag := getFlagString(cmd, "tmp-dir")
		keepTmp := getFlagBool(cmd, "keep-tmp")

		if presorted && randomOverlapSet {
			checkError(fmt.Errorf("flag -S/--presorted cannot be combined with -r/--random"))
		}

		preset, err := tools.PresetForPlatform(platform)
		checkError(err)

		input := checkInputFile(args)

		tmpDir := makeTmpDir(tmpDirFlag)
		defer func() {
			if keepTmp {
				log.Infof("intermediate files kept in %s", tmpDir)
				return
			}
			os.RemoveAll(tmpDir)
		}()

		// -------------------------------------------------------------
		// reference set: the longest reads

		if opt.Verbose || opt.Log2File {
			log.Infof("selecting the %s longest read(s) as the reference set ...", humanize.Comma(int64(numLongest)))
		}

		longestFile := filepath.Join(tmpDir, "longest.fq")
		overlapFile := filepath.Join(tmpDir, "overlapset.fq")

		var longest []readset.Read
		var longestBases int64
		var overlapReads []readset.Read
		var overlapBases int64

		if presorted {
			longest, longestBases, err = readset.WriteFirstN(input, longestFile, numLongest, minReadLen)
			checkError(err)

			overlapReads, overlapBases, err = readset.WriteSkipN(input, overlapFile, numLongest, numOverlap, minReadLen)
			checkError(err)
		} else {
			var all []readset.Read
			all, _, err = readset.Scan(input, minReadLen)
			checkError(err)
			readset.SortByLength(all)

			sel := readset.Longest(all, numLongest)
			ids := make(map[string]struct{}, len(sel))
			for _, r := range sel {
				ids[r.ID] = struct{}{}
			}
			longest, longestBases, err = readset.WriteSubset(input, longestFile, ids)
			checkError(err)

			if randomOverlapSet {
				restFile := filepath.Join(tmpDir, "rest.fq")
				rest := readset.NextLongest(all, numLongest, len(all))
				restIDs := make(map[string]struct{}, len(rest))
				for _, r := range rest {
					restIDs[r.ID] = struct{}{}
				}
				_, _, err = readset.WriteSubset(input, restFile, restIDs)
				checkError(err)

				var got int
				got, overlapBases, err = tools.Subsample(restFile, overlapFile, numOverlap, seed)
				checkError(err)
				if got < numOverlap {
					log.Warningf("sampled only %d of the requested %d overlap-set reads, using all of them", got, numOverlap)
				}
				overlapReads, _, err = readset.Scan(overlapFile, 0)
				checkError(err)
			} else {
				next := readset.NextLongest(all, numLongest, numOverlap)
				nextIDs := make(map[string]struct{}, len(next))
				for _, r := range next {
					nextIDs[r.ID] = struct{}{}
				}
				overlapReads, overlapBases, err = readset.WriteSubset(input, overlapFile, nextIDs)
				checkError(err)
			}
		}

		if len(longest) < numLongest {
			log.Warningf("only %d of the requested %d longest reads are available, using all of them", len(longest), numLongest)
		}
		if len(longest) == 0 {
			checkError(fmt.Errorf("no reads available for the reference set"))
		}
		if len(overlapReads) == 0 {
			checkError(fmt.Errorf("no reads available for the overlap set"))
		}
		if len(overlapReads) < numOverlap && !randomOverlapSet {
			log.Warningf("only %d of the requested %d overlap-set reads are available, using all of them", len(overlapReads), numOverlap)
		}

		refSet := readset.Set{
			File:     longestFile,
			Strategy: readset.StrategyLongest,
			NumReads: len(longest),
			SumBases: longestBases,
		}
		overlapStrategy := readset.StrategyLongest
		if randomOverlapSet {
			overlapStrategy = readset.StrategyRandom
		}
		overlapSet := readset.Set{
			File:     overlapFile,
			Strategy: overlapStrategy,
			NumReads: len(overlapReads),
			SumBases: overlapBases,
		}

		if opt.Verbose || opt.Log2File {
			_, stdev := MeanStdev(readset.Lengths(longest))
			log.Infof("reference set: %s read(s), %s bases, read length mean: %.1f, stdev: %.1f",
				humanize.Comma(int64(refSet.NumReads)), humanize.Comma(refSet.SumBases), refSet.AvgLen(), stdev)
			log.Infof("overlap set: %s read(s), %s bases, read length mean: %.1f",
				humanize.Comma(int64(overlapSet.NumReads)), humanize.Comma(overlapSet.SumBases), overlapSet.AvgLen())
		}

		// -------------------------------------------------------------
		// overlapping the two sets

		if opt.Verbose || opt.Log2File {
			log.Infof("overlapping reads with minimap2, preset: %s ...", preset)
		}

		pafFile := filepath.Join(tmpDir, "overlaps.paf")
		checkError(tools.Overlap(preset, opt.NumCPUs, true, refSet.File, overlapSet.File, pafFile))

		collector := overlap.NewCollector(overlap.CountTarget, refSet.NumReads)
		for _, r := range longest {
			checkError(collector.Seed(r.ID, r.Len))
		}
		checkError(collector.CollectFile(pafFile, opt.NumCPUs, pafChunkSize))

		if opt.Verbose || opt.Log2File {
			log.Infof("counted %s distinct overlapping read pair(s)", humanize.Comma(int64(collector.NumPairs())))
		}

		// -------------------------------------------------------------
		// estimation

		refLens := make(map[string]int, len(longest))
		for _, r := range longest {
			refLens[r.ID] = r.Len
		}

		cfg := estimate.Config{
			Mode:      estimate.ModeTwoSet,
			NumReads:  overlapSet.NumReads,
			Threshold: threshold,
		}
		pres, err := estimate.TwoSetEstimates(collector.Counts(), refLens, overlapSet.AvgLen(), cfg)
		checkError(err)

		res := estimate.Quantiles(estimate.Values(pres), finiteOnly, estimate.LowerQuantile, estimate.UpperQuantile)
		reportResult(opt, outFile, res, len(pres))

		if perReadFile != "" {
			writePerReadEstimates(opt, perReadFile, pres)
		}
		if runInfoFile != "" {
			writeRunInfo(runInfoFile, RunInfo{
				Input:            input,
				Platform:         platform,
				Threads:          opt.NumCPUs,
				Seed:             seed,
				OverlapThreshold: threshold,
				FiniteOnly:       finiteOnly,
				NumLongest:       refSet.NumReads,
				NumOverlapReads:  overlapSet.NumReads,
				SumBases:         refSet.SumBases + overlapSet.SumBases,
				NoOverlapCount:   res.NoOverlapCount,
				Lower:            formatEstimate(res.Lower),
				Estimate:         formatEstimate(res.Median),
				Upper:            formatEstimate(res.Upper),
			})
		}
	},
}

func init() {
	RootCmd.AddCommand(twosetCmd)

	twosetCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))
	twosetCmd.Flags().IntP("longest", "L", 100,
		formatFlagUsage(`Number of the longest reads to use as the reference set.`))
	twosetCmd.Flags().IntP("num-overlap", "n", 10000,
		formatFlagUsage(`Number of reads in the overlap set.`))
	twosetCmd.Flags().BoolP("random", "r", false,
		formatFlagUsage(`Sample the overlap set randomly from the non-reference reads instead of taking the next longest.`))
	twosetCmd.Flags().BoolP("presorted", "S", false,
		formatFlagUsage(`Input is already sorted by read length (descending), take reads in file order.`))
	twosetCmd.Flags().IntP("min-read-len", "l", 0,
		formatFlagUsage(`Ignore reads shorter than this.`))
	twosetCmd.Flags().StringP("platform", "P", "ont",
		formatFlagUsage(`Sequencing platform, "ont" or "pb".`))
	twosetCmd.Flags().IntP("threshold", "T", estimate.DefaultOverlapThreshold,
		formatFlagUsage(`Minimum overlap length in bases.`))
	twosetCmd.Flags().BoolP("finite", "f", false,
		formatFlagUsage(`Take the median of the finite per-read estimates only.`))
	twosetCmd.Flags().Int64P("seed", "", -1,
		formatFlagUsage(`Random seed for overlap-set sampling (negative for none).`))
	twosetCmd.Flags().StringP("per-read", "", "",
		formatFlagUsage(`Write the per-read estimates to this file, supports the ".gz" suffix.`))
	twosetCmd.Flags().StringP("run-info", "", "",
		formatFlagUsage(`Write run parameters and the result to this YAML file.`))
	twosetCmd.Flags().StringP("tmp-dir", "", "",
		formatFlagUsage(`Directory to create the temporary working directory in (default: system temp).`))
	twosetCmd.Flags().BoolP("keep-tmp", "", false,
		formatFlagUsage(`Do not delete the temporary working directory.`))
}
