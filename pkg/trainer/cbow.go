package trainer

import (
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/unigram"
)

// trainCBOWChunk runs one CBOW pass over chunk. neu1 and neu1e are
// worker-owned scratch buffers of length L, reused across positions to
// avoid per-position allocation.
func trainCBOWChunk(net *network, huff *huffman.Table, uni *unigram.Table, chunk []int32, windowSize, negK int, useHS bool, alpha float64, r *rng, neu1, neu1e []float64) {
	s := len(chunk)

	for p := 0; p < s; p++ {
		b := int(r.next() % uint64(windowSize))

		zero(neu1)
		cw := 0
		for a := b; a <= 2*windowSize-b; a++ {
			if a == windowSize {
				continue
			}
			c := p - windowSize + a
			if c < 0 || c >= s {
				continue
			}
			axpy(neu1, 1, net.syn0Row(chunk[c]))
			cw++
		}
		if cw == 0 {
			continue
		}
		scale := 1 / float64(cw)
		for i := range neu1 {
			neu1[i] *= scale
		}

		zero(neu1e)
		target := chunk[p]

		if useHS {
			node := huff.ByToken[target]
			for d := 0; d < len(node.Code); d++ {
				row := net.syn1Row(node.Point[d])
				f := dot(neu1, row)
				sig, ok := sigmoidInRange(f)
				if !ok {
					continue
				}
				g := (1 - float64(node.Code[d]) - sig) * alpha
				axpy(neu1e, g, row)
				axpy(row, g, neu1)
			}
		}

		negativeSample(net, uni, neu1, neu1e, target, negK, alpha, r)

		for a := b; a <= 2*windowSize-b; a++ {
			if a == windowSize {
				continue
			}
			c := p - windowSize + a
			if c < 0 || c >= s {
				continue
			}
			axpy(net.syn0Row(chunk[c]), 1, neu1e)
		}
	}
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
