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

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shenwei356/breader"
	"github.com/zeebo/xxh3"
)

// CountMode decides which members of an accepted pair gain an overlap.
type CountMode int

const (
	// CountBoth credits both reads of a pair - all-vs-all, where every read
	// receives an estimate.
	CountBoth CountMode = iota
	// CountTarget credits only the target read - two-set, where only the
	// reference (target) reads receive estimates.
	CountTarget
)

// Collector consumes alignment records and keeps, per read id, the number of
// distinct other reads it overlaps plus its last-seen length. Aligners report
// the same unordered pair more than once (e.g. once per direction in
// all-vs-all mode), so pairs are deduplicated; self-pairs are discarded.
// Memory grows with the number of distinct ids and pairs, not raw lines.
type Collector struct {
	mode   CountMode
	counts map[string]int
	lens   map[string]int
	seen   map[uint64]struct{}
}

// NewCollector creates a Collector. sizeHint is the expected number of
// distinct read ids.
func NewCollector(mode CountMode, sizeHint int) *Collector {
	if sizeHint < 1 {
		sizeHint = 1
	}
	return &Collector{
		mode:   mode,
		counts: make(map[string]int, sizeHint),
		lens:   make(map[string]int, sizeHint),
		seen:   make(map[uint64]struct{}, sizeHint),
	}
}

// Seed registers a read with zero overlaps before any records are consumed,
// so that reads absent from the alignment output still appear in the final
// count table (and later produce an infinite estimate rather than none).
// A duplicate id means the selected set cannot be trusted.
func (c *Collector) Seed(id string, length int) error {
	if _, ok := c.counts[id]; ok {
		return fmt.Errorf("duplicate read identifier: %s", id)
	}
	c.counts[id] = 0
	c.lens[id] = length
	return nil
}

// Add consumes one alignment record.
func (c *Collector) Add(rec *Record) {
	if rec.Query == rec.Target {
		return
	}

	// lengths are whatever the aligner last reported for the id
	c.lens[rec.Query] = rec.QueryLen
	c.lens[rec.Target] = rec.TargetLen

	if _, ok := c.seen[pairKey(rec.Query, rec.Target)]; ok {
		return
	}
	c.seen[pairKey(rec.Query, rec.Target)] = struct{}{}

	switch c.mode {
	case CountBoth:
		c.counts[rec.Query]++
		c.counts[rec.Target]++
	case CountTarget:
		c.counts[rec.Target]++
	}
}

// Counts returns the per-id overlap counts, including seeded ids with zero
// overlaps.
func (c *Collector) Counts() map[string]int { return c.counts }

// Lens returns the per-id length table.
func (c *Collector) Lens() map[string]int { return c.lens }

// NumPairs returns the number of distinct unordered pairs accepted.
func (c *Collector) NumPairs() int { return len(c.seen) }

// pairKey hashes the unordered pair {a, b} into a stable key: the names are
// ordered lexicographically so both directions of a pair collapse.
func pairKey(a, b string) uint64 {
	if b < a {
		a, b = b, a
	}
	h := xxh3.New()
	_, _ = h.WriteString(a)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(b)
	return h.Sum64()
}

// CollectFile streams the alignment records in file (PAF, optionally
// gzipped) through the collector. bufferSize and chunkSize tune the chunked
// reader; parsing is chunk-parallel while counting stays single-threaded.
func (c *Collector) CollectFile(file string, bufferSize, chunkSize int) error {
	reader, err := breader.NewBufferedReader(file, bufferSize, chunkSize, ParseLine)
	if err != nil {
		return errors.Wrap(err, file)
	}

	for chunk := range reader.Ch {
		if chunk.Err != nil {
			reader.Cancel()
			return errors.Wrap(chunk.Err, file)
		}
		for _, data := range chunk.Data {
			c.Add(data.(*Record))
		}
	}
	return nil
}
