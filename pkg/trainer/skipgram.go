package trainer

import (
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/unigram"
)

// trainSkipGramChunk runs one Skip-gram pass over chunk. zeroHidden is a
// worker-owned all-zero buffer of length L: the negative-sampling helper is
// passed it in the "hidden" role, preserving the reference implementation's
// behavior bit-for-bit rather than the corrected syn0[l1]-as-hidden
// alternative.
func trainSkipGramChunk(net *network, huff *huffman.Table, uni *unigram.Table, chunk []int32, windowSize, negK int, useHS bool, alpha float64, r *rng, neu1e, zeroHidden []float64) {
	s := len(chunk)

	for p := 0; p < s; p++ {
		b := int(r.next() % uint64(windowSize))
		target := chunk[p]

		var node huffman.Node
		if useHS {
			node = huff.ByToken[target]
		}

		for a := b; a <= 2*windowSize-b; a++ {
			if a == windowSize {
				continue
			}
			c := p - windowSize + a
			if c < 0 || c >= s {
				continue
			}
			l1 := chunk[c]

			zero(neu1e)

			if useHS {
				l1row := net.syn0Row(l1)
				for d := 0; d < len(node.Code); d++ {
					row := net.syn1Row(node.Point[d])
					f := dot(l1row, row)
					sig, ok := sigmoidInRange(f)
					if !ok {
						continue
					}
					g := (1 - float64(node.Code[d]) - sig) * alpha
					axpy(neu1e, g, row)
					axpy(row, g, l1row)
				}
			}

			negativeSample(net, uni, zeroHidden, neu1e, target, negK, alpha, r)

			axpy(net.syn0Row(l1), 1, neu1e)
		}
	}
}
