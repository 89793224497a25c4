package trainer

import (
	"math"
	"testing"

	"github.com/lab/hasher/wordvec-trainer/internal/progress"
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/unigram"
	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

func smallCorpus() vocab.Corpus {
	return vocab.SliceCorpus{
		{"the", "quick", "brown", "fox"},
		{"the", "lazy", "dog", "sleeps"},
		{"the", "fox", "jumps", "over", "the", "dog"},
		{"quick", "brown", "dog", "runs"},
	}
}

func buildFixtures(t *testing.T) (*vocab.Vocabulary, *huffman.Table, *unigram.Table) {
	t.Helper()
	v, err := vocab.Build(smallCorpus(), 1, nil)
	if err != nil {
		t.Fatalf("vocab.Build: %v", err)
	}
	huff, err := huffman.Encode(v, nil, nil)
	if err != nil {
		t.Fatalf("huffman.Encode: %v", err)
	}
	uni, err := unigram.BuildWithSize(v, 10_000)
	if err != nil {
		t.Fatalf("unigram.BuildWithSize: %v", err)
	}
	return v, huff, uni
}

func TestTrainProducesFullySizedModel(t *testing.T) {
	v, huff, uni := buildFixtures(t)
	cfg := Config{
		Type:                   SkipGram,
		LayerSize:              8,
		WindowSize:             2,
		NumThreads:             1,
		Iterations:             2,
		UseHierarchicalSoftmax: true,
	}

	m, err := Train(smallCorpus(), v, huff, uni, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Train: %v", err)
	}
	if m.VectorCount() != v.Len() {
		t.Fatalf("VectorCount() = %d, want %d", m.VectorCount(), v.Len())
	}
	if m.LayerSize() != 8 {
		t.Fatalf("LayerSize() = %d, want 8", m.LayerSize())
	}
	for i := 0; i < m.VectorCount(); i++ {
		row := m.Row(i)
		var norm float64
		for _, x := range row {
			norm += x * x
		}
		if math.IsNaN(norm) || math.IsInf(norm, 0) {
			t.Fatalf("row %d has non-finite values: %v", i, row)
		}
	}
}

func TestTrainIsDeterministicWithOneThread(t *testing.T) {
	v, huff, uni := buildFixtures(t)
	cfg := Config{
		Type:                   CBOW,
		LayerSize:              6,
		WindowSize:             2,
		NumThreads:             1,
		Iterations:             3,
		NegativeSamples:        5,
		UseHierarchicalSoftmax: false,
	}

	m1, err := Train(smallCorpus(), v, huff, uni, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Train (run 1): %v", err)
	}
	m2, err := Train(smallCorpus(), v, huff, uni, cfg, nil, nil)
	if err != nil {
		t.Fatalf("Train (run 2): %v", err)
	}

	v1, v2 := m1.Vectors(), m2.Vectors()
	if len(v1) != len(v2) {
		t.Fatalf("vector length mismatch: %d vs %d", len(v1), len(v2))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("vectors diverge at index %d: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestTrainRejectsEmptyVocabulary(t *testing.T) {
	empty := &vocab.Vocabulary{}
	_, err := Train(vocab.SliceCorpus{}, empty, &huffman.Table{}, &unigram.Table{}, DefaultConfig(SkipGram), nil, nil)
	if err == nil {
		t.Fatal("expected an error for an empty vocabulary")
	}
}

func TestTrainHonorsPreSetCancellation(t *testing.T) {
	v, huff, uni := buildFixtures(t)
	cancel := progress.NewCancelToken()
	cancel.Cancel()

	_, err := Train(smallCorpus(), v, huff, uni, DefaultConfig(SkipGram), nil, cancel)
	if err == nil {
		t.Fatal("expected a cancellation error")
	}
}
