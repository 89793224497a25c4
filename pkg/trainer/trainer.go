package trainer

import (
	"sync"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/internal/progress"
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
	"github.com/lab/hasher/wordvec-trainer/pkg/unigram"
	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

// Train runs the full neural-network training pass and returns the
// resulting immutable Model. obs and cancel may be nil.
//
// numThreads worker goroutines run concurrently within each outer
// iteration; iterations themselves are strictly sequential (one full
// barrier between them). Determinism is guaranteed only when
// cfg.NumThreads == 1.
func Train(corpus vocab.Corpus, v *vocab.Vocabulary, huff *huffman.Table, uni *unigram.Table, cfg Config, obs progress.Observer, cancel *progress.CancelToken) (*model.Model, error) {
	if err := vocab.RequireNonEmpty(v); err != nil {
		return nil, err
	}
	cfg, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if obs == nil {
		obs = progress.NoopObserver{}
	}
	if cancel.Cancelled() {
		return nil, perr.New(perr.Cancelled, "cancelled before training began")
	}

	sentences, err := materialize(corpus)
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "materializing corpus", err)
	}

	trainWords := numTrainedTokens(v, len(sentences))
	net := newNetwork(v.Len(), cfg.LayerSize)
	net.initSyn0()

	batches := partition(sentences, cfg.NumThreads)
	var actualWordCount int64

	params := &runParams{
		net:             net,
		v:               v,
		huff:            huff,
		uni:             uni,
		cfg:             cfg,
		trainWords:      trainWords,
		actualWordCount: &actualWordCount,
		cancel:          cancelAdapter{cancel},
	}

	for iter := 0; iter < cfg.Iterations; iter++ {
		if cancel.Cancelled() {
			return nil, perr.New(perr.Cancelled, "cancelled before training iteration began")
		}

		var wg sync.WaitGroup
		errs := make([]error, len(batches))

		for i, batch := range batches {
			wg.Add(1)
			go func(i int, batch []vocab.Sentence) {
				defer wg.Done()
				w := newWorker(i, cfg.LayerSize, cfg.InitialLearningRate)
				errs[i] = w.run(params, batch)
			}(i, batch)
		}
		wg.Wait()

		for _, e := range errs {
			if e != nil {
				return nil, e
			}
		}

		obs.OnProgress(progress.Event{Stage: progress.TrainNeuralNetwork, Fraction: float64(iter+1) / float64(cfg.Iterations)})
	}

	return model.New(v.VocabTokens(), cfg.LayerSize, net.syn0)
}

// cancelAdapter adapts *progress.CancelToken (which tolerates a nil
// receiver) to the cancelChecker interface the workers use.
type cancelAdapter struct {
	token *progress.CancelToken
}

func (c cancelAdapter) Cancelled() bool { return c.token.Cancelled() }
