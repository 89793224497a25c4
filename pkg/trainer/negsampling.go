package trainer

import "github.com/lab/hasher/wordvec-trainer/pkg/unigram"

// negativeSample runs the shared negative-sampling update. hidden is the
// "hidden" vector read from (neu1 for CBOW; the worker's all-zero buffer for
// Skip-gram, see trainSkipGramChunk);
// hiddenErr accumulates the gradient to apply back to the input side.
// targetIdx is the true target token's vocabulary index.
func negativeSample(net *network, uni *unigram.Table, hidden, hiddenErr []float64, targetIdx int32, negK int, alpha float64, r *rng) {
	for d := 0; d <= negK; d++ {
		var target int32
		var label float64

		if d == 0 {
			target = targetIdx
			label = 1
		} else {
			draw := r.next()
			target = uni.Sample(draw)
			if target == 0 {
				vm1 := int64(net.vocabSize - 1)
				target = int32(((int64(draw)%vm1)+vm1)%vm1 + 1)
			}
			if target == targetIdx {
				continue
			}
			label = 0
		}

		row := net.syn1negRow(target)
		f := dot(hidden, row)
		g := (label - sigmoidSaturating(f)) * alpha
		axpy(hiddenErr, g, row)
		axpy(row, g, hidden)
	}
}
