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

// Package tools runs the external programs the estimator delegates to:
// minimap2 for pairwise overlaps and rasusa for random subsampling. Failures
// are surfaced with the tool's own diagnostics and never retried here.
package tools

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
)

// Presets understood by minimap2 for all-vs-all overlap of long reads, by
// sequencing platform.
const (
	PresetNanopore = "ava-ont"
	PresetPacBio   = "ava-pb"
)

// PresetForPlatform maps a platform name to a minimap2 preset.
func PresetForPlatform(platform string) (string, error) {
	switch platform {
	case "ont":
		return PresetNanopore, nil
	case "pb":
		return PresetPacBio, nil
	default:
		return "", fmt.Errorf("invalid platform: %s (expected ont or pb)", platform)
	}
}

// OverlapArgs builds the minimap2 argument list for overlapping query
// against target, writing PAF to outPaf. With dual, minimap2 reports both
// directions of a pair instead of skipping the symmetric one.
func OverlapArgs(preset string, threads int, dual bool, target, query, outPaf string) []string {
	args := []string{"-x", preset, "-t", strconv.Itoa(threads), "-o", outPaf}
	if dual {
		args = append(args, "--dual=yes")
	}
	return append(args, target, query)
}

// Overlap runs minimap2. target and query may be the same file for
// all-vs-all overlap.
func Overlap(preset string, threads int, dual bool, target, query, outPaf string) error {
	args := OverlapArgs(preset, threads, dual, target, query, outPaf)
	cmd := exec.Command("minimap2", args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("minimap2 failed (%s):\n%s", err, stderr.String())
	}
	return nil
}
