// Package huffman builds a binary Huffman tree over a frequency-sorted
// vocabulary in linear time, exploiting the fact that the input is already
// sorted by descending frequency. Tree state is kept in flat parallel
// arrays indexed by integer id, no pointer graph, the same representation
// the teacher's flat-array, id-indexed state (e.g. pkg/training
// evolutionary population maps) favors over object graphs.
package huffman

import (
	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/internal/progress"
	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

// progressBoundary is the token interval at which progress is reported and
// cancellation is checked during tree construction and code emission.
const progressBoundary = 1000

// Node is the encoding for one vocabulary entry: its bit code from the root
// and the sequence of internal-node indices (in internal-node space, i.e.
// offset by -|V|) the path from root to leaf passes through.
type Node struct {
	Index int    // position in the vocabulary, 0 <= Index < |V|
	Count int64
	Code  []uint8 // one bit per tree level, root to leaf
	Point []int32 // path of internal-node indices; Point[0] == |V|-2 (root)
}

// Table maps each vocabulary token to its Node, plus exposes direct
// index-based lookup for the trainer's hot loop.
type Table struct {
	ByToken []Node // parallel to vocab.Entries, i.e. ByToken[i] is the Node for Entries[i]
}

// Encode builds the Huffman code table for v. obs and cancel may be nil.
func Encode(v *vocab.Vocabulary, obs progress.Observer, cancel *progress.CancelToken) (*Table, error) {
	if err := vocab.RequireNonEmpty(v); err != nil {
		return nil, err
	}
	if obs == nil {
		obs = progress.NoopObserver{}
	}

	n := v.Len()
	if n == 1 {
		// A single-token vocabulary has no internal nodes; its code is the
		// empty bit string with a path of just the (nonexistent) root.
		return &Table{ByToken: []Node{{Index: 0, Count: v.Entries[0].Count, Code: nil, Point: []int32{0}}}}, nil
	}

	size := 2*n - 1
	count := make([]int64, size)
	binary := make([]uint8, size)
	parent := make([]int32, size)

	for i := 0; i < n; i++ {
		count[i] = v.Entries[i].Count
	}
	const infinity = int64(1) << 62
	for i := n; i < size; i++ {
		count[i] = infinity
	}

	pos1 := n - 1
	pos2 := n

	report := func(step, total int) {
		if step%progressBoundary == 0 {
			obs.OnProgress(progress.Event{Stage: progress.CreateHuffmanEncoding, Fraction: float64(step) / float64(total)})
		}
	}

	for a := 0; a < n-1; a++ {
		if cancel.Cancelled() && a%progressBoundary == 0 {
			return nil, perr.New(perr.Cancelled, "cancelled during huffman tree construction")
		}

		var min1i, min2i int

		// Pick the smallest of the two candidates available to pos1/pos2.
		min1i = pickSmallest(&pos1, &pos2, count, n)
		min2i = pickSmallest(&pos1, &pos2, count, n)

		newIdx := n + a
		count[newIdx] = count[min1i] + count[min2i]
		parent[min1i] = int32(newIdx)
		parent[min2i] = int32(newIdx)
		binary[min2i] = 1

		report(a, n-1)
	}

	table := &Table{ByToken: make([]Node, n)}
	root := size - 1 // |V|*2 - 2

	for i := 0; i < n; i++ {
		if cancel.Cancelled() && i%progressBoundary == 0 {
			return nil, perr.New(perr.Cancelled, "cancelled during huffman code emission")
		}

		var codeRev []uint8
		var pointRev []int32

		node := i
		for node != root {
			codeRev = append(codeRev, binary[node])
			pointRev = append(pointRev, int32(node))
			node = int(parent[node])
		}

		codeLen := len(codeRev)
		code := make([]uint8, codeLen)
		point := make([]int32, codeLen+1)
		point[0] = int32(n - 2)

		for j := 0; j < codeLen; j++ {
			code[j] = codeRev[codeLen-1-j]
			point[codeLen-j] = pointRev[j] - int32(n)
		}

		table.ByToken[i] = Node{
			Index: i,
			Count: v.Entries[i].Count,
			Code:  code,
			Point: point,
		}

		if (i+1)%progressBoundary == 0 {
			obs.OnProgress(progress.Event{Stage: progress.CreateHuffmanEncoding, Fraction: float64(i+1) / float64(n)})
		}
	}

	obs.OnProgress(progress.Event{Stage: progress.CreateHuffmanEncoding, Fraction: 1.0})
	return table, nil
}

// pickSmallest advances pos1 (decrementing, leaf side) or pos2
// (incrementing, internal-node side), whichever currently holds the smaller
// count, and returns the consumed index. The comparison is a strict
// less-than, so on equal counts pos2 (the internal-node side) is consumed.
func pickSmallest(pos1, pos2 *int, count []int64, n int) int {
	if *pos1 >= 0 && count[*pos1] < count[*pos2] {
		idx := *pos1
		*pos1--
		return idx
	}
	idx := *pos2
	*pos2++
	return idx
}
