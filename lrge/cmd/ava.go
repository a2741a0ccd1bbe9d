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

var avaCmd = &cobra.Command{
	Use:   "ava",
	Short: "Estimate genome size from all-vs-all overlaps of a read subset",
	Long: `Estimate genome size from all-vs-all overlaps of a read subset

A subset of reads is selected from the input, overlapped against itself
with minimap2, and the genome size is estimated from the number of
overlaps each read is involved in. The median of the per-read estimates
is written to the output file ("inf" if no read had any overlap).

Attentions:
  1. minimap2 must be in $PATH.
  2. rasusa must be in $PATH when using the default random strategy.
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
		numReads := getFlagPositiveInt(cmd, "num-reads")
		strategy := readset.Strategy(getFlagString(cmd, "strategy"))
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

		switch strategy {
		case readset.StrategyLongest, readset.StrategyRandom:
		default:
			checkError(fmt.Errorf("invalid value for flag -s/--strategy: %s. Available: rand/long", strategy))
		}
		if presorted && strategy != readset.StrategyLongest {
			checkError(fmt.Errorf("flag -S/--presorted only makes sense with -s long"))
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
		// read selection

		if opt.Verbose || opt.Log2File {
			log.Infof("selecting %s reads, strategy: %s ...", humanize.Comma(int64(numReads)), strategy)
		}

		readsFile := filepath.Join(tmpDir, "reads.fq")

		var selected []readset.Read
		var sumBases int64
		if strategy == readset.StrategyLongest {
			if presorted {
				selected, sumBases, err = readset.WriteFirstN(input, readsFile, numReads, minReadLen)
				checkError(err)
			} else {
				var all []readset.Read
				all, _, err = readset.Scan(input, minReadLen)
				checkError(err)

				readset.SortByLength(all)
				longest := readset.Longest(all, numReads)

				ids := make(map[string]struct{}, len(longest))
				for _, r := range longest {
					ids[r.ID] = struct{}{}
				}
				selected, sumBases, err = readset.WriteSubset(input, readsFile, ids)
				checkError(err)
			}
			if len(selected) < numReads {
				checkError(fmt.Errorf("only %d of the requested %d longest reads could be selected, too few reads or duplicate read ids", len(selected), numReads))
			}
		} else {
			sampleInput := input
			if minReadLen > 0 {
				filtered := filepath.Join(tmpDir, "filtered.fq")
				var n int
				n, _, err = readset.WriteFiltered(input, filtered, minReadLen)
				checkError(err)
				if opt.Verbose || opt.Log2File {
					log.Infof("%s read(s) passed the length filter", humanize.Comma(int64(n)))
				}
				sampleInput = filtered
			}

			var got int
			got, sumBases, err = tools.Subsample(sampleInput, readsFile, numReads, seed)
			checkError(err)
			if got < numReads {
				log.Warningf("sampled only %d of the requested %d reads, using all of them", got, numReads)
			}

			selected, _, err = readset.Scan(readsFile, 0)
			checkError(err)
		}

		sel := readset.Set{
			File:     readsFile,
			Strategy: strategy,
			NumReads: len(selected),
			SumBases: sumBases,
		}
		if sel.NumReads < 2 {
			checkError(fmt.Errorf("at least 2 reads are required, got %d", sel.NumReads))
		}

		if opt.Verbose || opt.Log2File {
			_, stdev := MeanStdev(readset.Lengths(selected))
			log.Infof("selected %s read(s), %s bases, read length mean: %.1f, stdev: %.1f",
				humanize.Comma(int64(sel.NumReads)), humanize.Comma(sel.SumBases), sel.AvgLen(), stdev)
		}

		// -------------------------------------------------------------
		// all-vs-all overlapping

		if opt.Verbose || opt.Log2File {
			log.Infof("overlapping reads with minimap2, preset: %s ...", preset)
		}

		pafFile := filepath.Join(tmpDir, "overlaps.paf")
		checkError(tools.Overlap(preset, opt.NumCPUs, false, sel.File, sel.File, pafFile))

		collector := overlap.NewCollector(overlap.CountBoth, sel.NumReads)
		for _, r := range selected {
			checkError(collector.Seed(r.ID, r.Len))
		}
		checkError(collector.CollectFile(pafFile, opt.NumCPUs, pafChunkSize))

		if opt.Verbose || opt.Log2File {
			log.Infof("counted %s distinct overlapping read pair(s)", humanize.Comma(int64(collector.NumPairs())))
		}

		// -------------------------------------------------------------
		// estimation

		cfg := estimate.Config{
			Mode:      estimate.ModeAva,
			NumReads:  sel.NumReads,
			Threshold: threshold,
		}
		pres, err := estimate.AvaEstimates(collector.Counts(), collector.Lens(), sel.SumBases, cfg)
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
				Strategy:         string(sel.Strategy),
				NumReads:         sel.NumReads,
				SumBases:         sel.SumBases,
				NoOverlapCount:   res.NoOverlapCount,
				Lower:            formatEstimate(res.Lower),
				Estimate:         formatEstimate(res.Median),
				Upper:            formatEstimate(res.Upper),
			})
		}
	},
}

func init() {
	RootCmd.AddCommand(avaCmd)

	avaCmd.Flags().StringP("out-file", "o", "-",
		formatFlagUsage(`Out file, supports the ".gz" suffix ("-" for stdout).`))
	avaCmd.Flags().IntP("num-reads", "n", 25000,
		formatFlagUsage(`Number of reads to select.`))
	avaCmd.Flags().StringP("strategy", "s", "rand",
		formatFlagUsage(`Read selection strategy, "rand" for random sampling, "long" for the longest reads.`))
	avaCmd.Flags().BoolP("presorted", "S", false,
		formatFlagUsage(`Input is already sorted by read length (descending), take the first reads (only with -s long).`))
	avaCmd.Flags().IntP("min-read-len", "l", 0,
		formatFlagUsage(`Ignore reads shorter than this.`))
	avaCmd.Flags().StringP("platform", "P", "ont",
		formatFlagUsage(`Sequencing platform, "ont" or "pb".`))
	avaCmd.Flags().IntP("threshold", "T", estimate.DefaultOverlapThreshold,
		formatFlagUsage(`Minimum overlap length in bases.`))
	avaCmd.Flags().BoolP("finite", "f", false,
		formatFlagUsage(`Take the median of the finite per-read estimates only.`))
	avaCmd.Flags().Int64P("seed", "", -1,
		formatFlagUsage(`Random seed for read sampling (negative for none).`))
	avaCmd.Flags().StringP("per-read", "", "",
		formatFlagUsage(`Write the per-read estimates to this file, supports the ".gz" suffix.`))
	avaCmd.Flags().StringP("run-info", "", "",
		formatFlagUsage(`Write run parameters and the result to this YAML file.`))
	avaCmd.Flags().StringP("tmp-dir", "", "",
		formatFlagUsage(`Directory to create the temporary working directory in (default: system temp).`))
	avaCmd.Flags().BoolP("keep-tmp", "", false,
		formatFlagUsage(`Do not delete the temporary working directory.`))
}
