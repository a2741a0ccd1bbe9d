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

	"github.com/spf13/cobra"

	"github.com/mbhall88/lrge/lrge/cmd/readset"
)

var checkSortCmd = &cobra.Command{
	Use:   "check-sort",
	Short: "Check whether a FASTA/FASTQ file is sorted by read length",
	Long: `Check whether a FASTA/FASTQ file is sorted by read length

Reads the file once and reports whether record lengths are
non-decreasing (or non-increasing with -r/--reverse). Exits with a
non-zero status when the file is not sorted, so the command can be
used as a guard before --presorted runs.

`,
	Run: func(cmd *cobra.Command, args []string) {
		opt := getOptions(cmd)

		descending := getFlagBool(cmd, "reverse")
		file := checkInputFile(args)

		sorted, err := readset.IsSortedByLength(file, descending)
		checkError(err)

		order := "ascending"
		if descending {
			order = "descending"
		}
		if sorted {
			if opt.Verbose || opt.Log2File {
				log.Infof("%s is sorted by read length (%s)", file, order)
			}
			fmt.Println("sorted")
			return
		}
		if opt.Verbose || opt.Log2File {
			log.Warningf("%s is NOT sorted by read length (%s)", file, order)
		}
		fmt.Println("unsorted")
		os.Exit(1)
	},
}

func init() {
	utilsCmd.AddCommand(checkSortCmd)

	checkSortCmd.Flags().BoolP("reverse", "r", false,
		formatFlagUsage(`Expect descending read lengths instead of ascending.`))
}
