package trainer

import (
	"sync/atomic"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/unigram"
	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

// worker is the per-goroutine scratch state: PRNG, neu1, neu1e, wordCount,
// lastWordCount are all worker-local. The three weight matrices,
// vocabulary, Huffman table, and unigram table are shared and read-only
// (except for the matrices, which are shared and unsynchronized).
type worker struct {
	id    int
	rng   *rng
	neu1  []float64
	neu1e []float64
	zero  []float64 // all-zero scratch passed as Skip-gram's "hidden" vector

	wordCount     int64
	lastWordCount int64
	alpha         float64
}

func newWorker(id, layerSize int, initialAlpha float64) *worker {
	return &worker{
		id:    id,
		rng:   newRNG(uint64(id)),
		neu1:  make([]float64, layerSize),
		neu1e: make([]float64, layerSize),
		zero:  make([]float64, layerSize),
		alpha: initialAlpha,
	}
}

// runParams bundles the read-only, shared-by-every-worker inputs to a
// training pass, to keep run's parameter list manageable.
type runParams struct {
	net              *network
	v                *vocab.Vocabulary
	huff             *huffman.Table
	uni              *unigram.Table
	cfg              Config
	trainWords       float64
	actualWordCount  *int64
	cancel           cancelChecker
}

// cancelChecker is the subset of *progress.CancelToken the trainer needs;
// kept as an interface so tests can supply a stub without importing progress.
type cancelChecker interface {
	Cancelled() bool
}

// refreshAlpha: a worker refreshes alpha whenever its local wordCount has
// advanced by more than LearningRateUpdateFrequency since the last
// refresh, atomically folding the delta into the shared actualWordCount
// and recomputing alpha from the fresh total.
func (w *worker) refreshAlpha(p *runParams) {
	if w.wordCount-w.lastWordCount <= LearningRateUpdateFrequency {
		return
	}
	delta := w.wordCount - w.lastWordCount
	w.lastWordCount = w.wordCount
	total := atomic.AddInt64(p.actualWordCount, delta)

	alpha0 := p.cfg.InitialLearningRate
	alpha := alpha0 * (1 - float64(total)/(float64(p.cfg.Iterations)*p.trainWords))
	floor := alpha0 * 1e-4
	if alpha < floor {
		alpha = floor
	}
	w.alpha = alpha
}

// run trains w's assigned sentence batch for one outer iteration.
func (w *worker) run(p *runParams, batch []vocab.Sentence) error {
	tokens := make([]int32, 0, 64)

	for _, sentence := range batch {
		if p.cancel.Cancelled() {
			return perr.New(perr.Cancelled, "cancelled at sentence boundary during training")
		}

		tokens = tokens[:0]
		for _, tok := range sentence {
			idx, ok := p.v.IndexOf(tok)
			if !ok {
				continue
			}
			w.wordCount++
			w.refreshAlpha(p)

			if !keepToken(p.v.Entries[idx].Count, p.cfg.DownSampleRate, p.trainWords, w.rng) {
				continue
			}
			tokens = append(tokens, int32(idx))
		}
		// Accounts for the absent end-of-sentence marker.
		w.wordCount++
		w.refreshAlpha(p)

		for _, chunk := range splitChunks(tokens, MaxSentenceLength) {
			if p.cancel.Cancelled() {
				return perr.New(perr.Cancelled, "cancelled at chunk boundary during training")
			}

			switch p.cfg.Type {
			case CBOW:
				trainCBOWChunk(p.net, p.huff, p.uni, chunk, p.cfg.WindowSize, p.cfg.NegativeSamples, p.cfg.UseHierarchicalSoftmax, w.alpha, w.rng, w.neu1, w.neu1e)
			case SkipGram:
				trainSkipGramChunk(p.net, p.huff, p.uni, chunk, p.cfg.WindowSize, p.cfg.NegativeSamples, p.cfg.UseHierarchicalSoftmax, w.alpha, w.rng, w.neu1e, w.zero)
			}
		}
	}

	return nil
}
