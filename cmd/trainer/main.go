// Command trainer builds a word2vec-style model from a plain-text corpus:
// acquire the vocabulary, build the Huffman code table and the negative
// sampling table, then run the neural network trainer, all driven by the
// same flag-and-config-file conventions the teacher's cmd/trainer/main.go
// uses.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/lab/hasher/wordvec-trainer/internal/config"
	"github.com/lab/hasher/wordvec-trainer/internal/logging"
	"github.com/lab/hasher/wordvec-trainer/internal/progress"
	"github.com/lab/hasher/wordvec-trainer/pkg/buildcache"
	"github.com/lab/hasher/wordvec-trainer/pkg/export"
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
	"github.com/lab/hasher/wordvec-trainer/pkg/modelio"
	"github.com/lab/hasher/wordvec-trainer/pkg/serialize"
	"github.com/lab/hasher/wordvec-trainer/pkg/trainer"
	"github.com/lab/hasher/wordvec-trainer/pkg/unigram"
	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

var (
	configFile     = flag.String("config", "", "path to a JSON config file, overlaid on the documented defaults")
	inputPath      = flag.String("input", "", "path to a corpus file, one sentence per line")
	outputPath     = flag.String("output", "model.bin", "path the trained model is written to")
	outputFormat   = flag.String("format", "binary", "output format: binary | text | json")
	variantFlag    = flag.String("type", "", "training objective: cbow | skip_gram (overrides config)")
	layerSize      = flag.Int("layer-size", 0, "vector dimensionality (0: use config)")
	windowSize     = flag.Int("window", 0, "context window radius (0: use config)")
	numThreads     = flag.Int("threads", 0, "worker goroutines (0: use config/GOMAXPROCS)")
	iterations     = flag.Int("iterations", 0, "passes over the corpus (0: use config)")
	negativeSamples = flag.Int("negative", -1, "negative samples per update (-1: use config)")
	minFrequency   = flag.Int("min-count", -1, "minimum token frequency to keep (-1: use config)")
	cachePath      = flag.String("cache", "", "optional build cache database path (vocabulary + Huffman table)")
	exportVectors  = flag.String("export-vectors", "", "optional Arrow IPC path the trained vectors are also written to")
	exportPairsDir = flag.String("export-pairs", "", "optional Parquet path the training pairs are also written to")
	verbose        = flag.Bool("verbose", false, "enable debug logging")
)

func main() {
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "trainer: -input is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trainer: loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg)

	logCfg := &logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output}
	if *verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "trainer: initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("starting trainer on %s", *inputPath)

	cancel := progress.NewCancelToken()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal %v, cancelling", sig)
		cancel.Cancel()
		stop()
		go func() {
			time.Sleep(5 * time.Second)
			logger.Warn("graceful shutdown timed out, forcing exit")
			os.Exit(1)
		}()
	}()
	_ = ctx

	if err := run(cfg, logger, cancel); err != nil {
		logger.Fatal("trainer failed: %v", err)
	}
	logger.Info("trainer completed successfully")
}

// applyFlagOverrides layers explicitly-set flags on top of the loaded
// config, mirroring the teacher's flag-then-config precedence.
func applyFlagOverrides(cfg *config.Config) {
	if *variantFlag != "" {
		cfg.Training.Type = *variantFlag
	}
	if *layerSize != 0 {
		cfg.Training.LayerSize = *layerSize
	}
	if *windowSize != 0 {
		cfg.Training.WindowSize = *windowSize
	}
	if *numThreads != 0 {
		cfg.Training.NumThreads = *numThreads
	}
	if *iterations != 0 {
		cfg.Training.Iterations = *iterations
	}
	if *negativeSamples >= 0 {
		cfg.Training.NegativeSamples = *negativeSamples
	}
	if *minFrequency >= 0 {
		cfg.Vocab.MinFrequency = *minFrequency
	}
}

func run(cfg *config.Config, logger *logging.Logger, cancel *progress.CancelToken) error {
	variant := trainer.CBOW
	if cfg.Training.Type == "skip_gram" {
		variant = trainer.SkipGram
	}
	tcfg := trainer.Config{
		Type:                   variant,
		LayerSize:              cfg.Training.LayerSize,
		WindowSize:             cfg.Training.WindowSize,
		NumThreads:             cfg.Training.NumThreads,
		Iterations:             cfg.Training.Iterations,
		NegativeSamples:        cfg.Training.NegativeSamples,
		UseHierarchicalSoftmax: cfg.Training.UseHierarchicalSoftmax,
		DownSampleRate:         cfg.Training.DownSampleRate,
		InitialLearningRate:    cfg.Training.InitialLearningRate,
	}

	sentences, err := readCorpus(*inputPath)
	if err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}
	corpus := vocab.SliceCorpus(sentences)
	logger.Info("read %d sentences from %s", len(sentences), *inputPath)

	const huffmanBarTotal = 1000

	bars := mpb.New(mpb.WithWidth(64))
	vocabBar := newStageBar(bars, "FILTER_SORT_VOCAB", int64(len(sentences)))
	huffBar := newStageBar(bars, "CREATE_HUFFMAN_ENCODING", huffmanBarTotal)
	trainBar := newStageBar(bars, "TRAIN_NEURAL_NETWORK", int64(tcfg.Iterations))

	obs := progress.FuncObserver(func(e progress.Event) {
		switch e.Stage {
		case progress.FilterSortVocab:
			setBarFraction(vocabBar, e.Fraction, int64(len(sentences)))
		case progress.CreateHuffmanEncoding:
			setBarFraction(huffBar, e.Fraction, huffmanBarTotal)
		case progress.TrainNeuralNetwork:
			setBarFraction(trainBar, e.Fraction, int64(tcfg.Iterations))
		}
	})

	var cache *buildcache.Cache
	var cacheKey string
	if *cachePath != "" {
		cache, err = buildcache.Open(*cachePath)
		if err != nil {
			return fmt.Errorf("opening build cache: %w", err)
		}
		defer cache.Close()
		cacheKey = buildcache.Key(fingerprint(sentences), cfg.Vocab.MinFrequency)
	}

	v, err := loadOrBuildVocabulary(cache, cacheKey, corpus, cfg.Vocab.MinFrequency)
	if err != nil {
		return fmt.Errorf("building vocabulary: %w", err)
	}
	vocabBar.SetCurrent(int64(len(sentences)))
	logger.Info("vocabulary: %d tokens survived min-count %d", v.Len(), cfg.Vocab.MinFrequency)

	huff, err := loadOrBuildHuffman(cache, cacheKey, v, obs, cancel)
	if err != nil {
		return fmt.Errorf("building huffman table: %w", err)
	}

	uni, err := unigram.Build(v)
	if err != nil {
		return fmt.Errorf("building unigram table: %w", err)
	}

	m, err := trainer.Train(corpus, v, huff, uni, tcfg, obs, cancel)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}
	bars.Wait()
	logger.Info("trained %d vectors at layer size %d", m.VectorCount(), m.LayerSize())

	if err := writeModel(*outputPath, *outputFormat, m); err != nil {
		return fmt.Errorf("writing model: %w", err)
	}
	logger.Info("wrote model to %s (%s)", *outputPath, *outputFormat)

	if *exportVectors != "" {
		if err := writeVectorExport(*exportVectors, m); err != nil {
			return fmt.Errorf("exporting vectors: %w", err)
		}
		logger.Info("exported vectors to %s", *exportVectors)
	}

	if *exportPairsDir != "" {
		if err := writePairsExport(*exportPairsDir, sentences, v, tcfg.WindowSize); err != nil {
			return fmt.Errorf("exporting training pairs: %w", err)
		}
		logger.Info("exported training pairs to %s", *exportPairsDir)
	}

	return nil
}

func newStageBar(p *mpb.Progress, name string, total int64) *mpb.Bar {
	return p.AddBar(total,
		mpb.PrependDecorators(
			decor.Name(name+": "),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO), "done!"),
		),
	)
}

func setBarFraction(bar *mpb.Bar, fraction float64, total int64) {
	bar.SetCurrent(int64(fraction * float64(total)))
}

func loadOrBuildVocabulary(cache *buildcache.Cache, key string, corpus vocab.Corpus, minFrequency int) (*vocab.Vocabulary, error) {
	if cache != nil {
		if v, ok, err := cache.GetVocabulary(key); err != nil {
			return nil, err
		} else if ok {
			return v, nil
		}
	}
	v, err := vocab.Build(corpus, minFrequency, nil)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.PutVocabulary(key, v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func loadOrBuildHuffman(cache *buildcache.Cache, key string, v *vocab.Vocabulary, obs progress.Observer, cancel *progress.CancelToken) (*huffman.Table, error) {
	if cache != nil {
		if huff, ok, err := cache.GetHuffman(key); err != nil {
			return nil, err
		} else if ok {
			return huff, nil
		}
	}
	huff, err := huffman.Encode(v, obs, cancel)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.PutHuffman(key, huff); err != nil {
			return nil, err
		}
	}
	return huff, nil
}

func writeModel(path, format string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "binary":
		return modelio.WriteBinary(f, m, nil)
	case "text":
		return modelio.WriteText(f, m)
	case "json":
		return serialize.Encode(f, m)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeVectorExport(path string, m *model.Model) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteModelVectors(f, m)
}

func writePairsExport(path string, sentences []vocab.Sentence, v *vocab.Vocabulary, windowSize int) error {
	var pairs []export.TrainingPair
	for sid, s := range sentences {
		ids := make([]int32, 0, len(s))
		for _, tok := range s {
			if i, ok := v.IndexOf(tok); ok {
				ids = append(ids, int32(i))
			}
		}
		pairs = append(pairs, export.SentenceToPairs(int32(sid), ids, windowSize)...)
	}
	return export.WriteTrainingPairs(path, pairs)
}

func readCorpus(path string) ([]vocab.Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sentences []vocab.Sentence
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		sentences = append(sentences, vocab.Sentence(fields))
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, err
	}
	return sentences, nil
}

// fingerprint hashes every sentence's tokens into a single build-cache key
// component, so a corpus edit invalidates the cached vocabulary/Huffman
// table instead of silently reusing a stale one.
func fingerprint(sentences []vocab.Sentence) string {
	h := fnv.New64a()
	for _, s := range sentences {
		for _, tok := range s {
			h.Write([]byte(tok))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return fmt.Sprintf("%x", h.Sum64())
}
