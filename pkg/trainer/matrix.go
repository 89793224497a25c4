// Package trainer implements the parallel SGD trainer: CBOW and Skip-gram
// sharing a common worker scaffold, hierarchical softmax and negative
// sampling update paths, over a shared embedding matrix.
//
// syn0, syn1, and syn1neg are deliberately unsynchronized: concurrent
// workers read and write shared rows without locks (Hogwild!-style), and
// lost updates are an accepted correctness relaxation of SGD, not a bug.
// Determinism is guaranteed only when NumThreads == 1.
package trainer

// network holds the three weight matrices, each a flat, row-major |V|*L
// slice, plus the layer size needed to compute row offsets. Rows are never
// reallocated after newNetwork, so a row slice handed to a worker stays
// valid — and aliased with every other worker's view of that same row —
// for the network's lifetime.
type network struct {
	layerSize int
	vocabSize int
	syn0      []float64 // |V| x L: input/output embedding, row per token
	syn1      []float64 // |V| x L: hierarchical-softmax weights, row per internal node
	syn1neg   []float64 // |V| x L: negative-sampling weights, row per token
}

func newNetwork(vocabSize, layerSize int) *network {
	return &network{
		layerSize: layerSize,
		vocabSize: vocabSize,
		syn0:      make([]float64, vocabSize*layerSize),
		syn1:      make([]float64, vocabSize*layerSize),
		syn1neg:   make([]float64, vocabSize*layerSize),
	}
}

// syn0Row returns the L-length slice of syn0 for index idx (syn1Row and
// syn1negRow do the same for syn1 and syn1neg); rows are cut from the flat
// matrix directly, with no slice-of-slices layer in the hot loop.
func (n *network) syn0Row(idx int32) []float64 {
	off := int(idx) * n.layerSize
	return n.syn0[off : off+n.layerSize]
}

func (n *network) syn1Row(idx int32) []float64 {
	off := int(idx) * n.layerSize
	return n.syn1[off : off+n.layerSize]
}

func (n *network) syn1negRow(idx int32) []float64 {
	off := int(idx) * n.layerSize
	return n.syn1neg[off : off+n.layerSize]
}

// initSyn0 seeds the embedding matrix from the PRNG sequence: initial seed
// 1, one extra discarded draw per token before its L draws, each draw
// scaled into ((r&0xFFFF)/65536 - 0.5)/L.
func (n *network) initSyn0() {
	r := newRNG(1)
	l := float64(n.layerSize)
	for tok := 0; tok < n.vocabSize; tok++ {
		r.next() // reserves the sentinel end-of-sentence token's randomness slot
		row := n.syn0[tok*n.layerSize : tok*n.layerSize+n.layerSize]
		for k := range row {
			row[k] = (r.unit() - 0.5) / l
		}
	}
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func axpy(dst []float64, alpha float64, x []float64) {
	for i := range dst {
		dst[i] += alpha * x[i]
	}
}
