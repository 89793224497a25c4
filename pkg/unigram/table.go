// Package unigram builds the fixed-size frequency^0.75 sampling table used
// by the trainer's negative-sampling helper.
package unigram

import (
	"math"

	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

// Size is the fixed table length.
const Size = 100_000_000

const power = 0.75

// Table is a fixed-size array of vocabulary indices, weighted by
// count^0.75, used to draw negative samples in O(1).
type Table struct {
	entries []int32
}

// Build constructs the full Size-length table by walking v's entries
// (already frequency-sorted descending) left to right.
func Build(v *vocab.Vocabulary) (*Table, error) {
	return BuildWithSize(v, Size)
}

// BuildWithSize is Build parameterized on the table length, for tests that
// would otherwise need to allocate a 10^8-entry array. Production callers
// should use Build.
func BuildWithSize(v *vocab.Vocabulary, size int) (*Table, error) {
	if err := vocab.RequireNonEmpty(v); err != nil {
		return nil, err
	}

	var total float64
	for _, e := range v.Entries {
		total += math.Pow(float64(e.Count), power)
	}

	entries := make([]int32, size)
	i := 0
	d1 := math.Pow(float64(v.Entries[0].Count), power) / total

	for a := 0; a < size; a++ {
		entries[a] = int32(i)
		if float64(a)/float64(size) > d1 {
			i++
			if i >= v.Len() {
				i = v.Len() - 1
			}
			d1 += math.Pow(float64(v.Entries[i].Count), power) / total
		}
	}

	return &Table{entries: entries}, nil
}

// At returns the table entry at position idx, wrapped modulo the table
// length into [0, len(t.entries)).
func (t *Table) At(idx int64) int32 {
	n := int64(len(t.entries))
	idx = ((idx % n) + n) % n
	return t.entries[idx]
}

// Sample draws a vocabulary index using the worker's PRNG state: index =
// (((r >> 16) mod n) + n) mod n, where n is the table length (Size for
// tables from Build).
func (t *Table) Sample(r uint64) int32 {
	return t.At(int64(r >> 16))
}
