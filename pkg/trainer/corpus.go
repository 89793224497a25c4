package trainer

import (
	"math"

	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

// materialize collects every sentence from c into a slice, the one point
// where the trainer insists on a restartable-but-finite corpus: a static,
// contiguous per-worker partition requires random access to sentence
// boundaries up front.
func materialize(c vocab.Corpus) ([]vocab.Sentence, error) {
	var sentences []vocab.Sentence
	if c == nil {
		return sentences, nil
	}
	err := c.Each(func(s vocab.Sentence) bool {
		sentences = append(sentences, s)
		return true
	})
	return sentences, err
}

// numTrainedTokens is the denominator of the learning-rate schedule: every
// in-vocabulary token occurrence, plus one per sentence standing in for the
// absent end-of-sentence marker.
func numTrainedTokens(v *vocab.Vocabulary, sentenceCount int) float64 {
	var total int64
	for _, e := range v.Entries {
		total += e.Count
	}
	return float64(total) + float64(sentenceCount)
}

// partition splits sentences into numThreads contiguous, roughly equal
// batches of size ceil(N/numThreads).
func partition(sentences []vocab.Sentence, numThreads int) [][]vocab.Sentence {
	n := len(sentences)
	if numThreads <= 0 {
		numThreads = 1
	}
	batchSize := (n + numThreads - 1) / numThreads
	if batchSize == 0 {
		return nil
	}
	var batches [][]vocab.Sentence
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		batches = append(batches, sentences[start:end])
	}
	return batches
}

// keepToken applies the subsampling test to a single in-vocabulary token,
// drawing exactly one PRNG value when downSampleRate > 0. trainWords is the
// corpus-wide numTrainedTokens denominator.
func keepToken(count int64, downSampleRate, trainWords float64, r *rng) bool {
	if downSampleRate <= 0 {
		return true
	}
	c := float64(count)
	tn := downSampleRate * trainWords
	pKeep := (math.Sqrt(c/tn) + 1) * tn / c
	return pKeep >= r.unit()
}

// splitChunks breaks tokens into consecutive slices of at most size
// entries, mirroring the MAX_SENTENCE_LENGTH chunking of the reference
// implementation.
func splitChunks(tokens []int32, size int) [][]int32 {
	if len(tokens) == 0 {
		return nil
	}
	var chunks [][]int32
	for start := 0; start < len(tokens); start += size {
		end := start + size
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, tokens[start:end])
	}
	return chunks
}
