package search

import (
	"math"
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

func smallModel(t *testing.T) *model.Model {
	t.Helper()
	vocab := []string{"cat", "dog", "car", "truck"}
	vectors := []float64{
		1, 0, 0,
		0.9, 0.1, 0,
		0, 1, 0,
		0, 0.9, 0.1,
	}
	m, err := model.New(vocab, 3, vectors)
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return m
}

func TestContainsAndRawVector(t *testing.T) {
	s := New(smallModel(t))

	if !s.Contains("cat") {
		t.Fatal("expected Contains(\"cat\") to be true")
	}
	if s.Contains("bird") {
		t.Fatal("expected Contains(\"bird\") to be false")
	}

	v, err := s.RawVector("cat")
	if err != nil {
		t.Fatalf("RawVector: %v", err)
	}
	if len(v) != 3 {
		t.Fatalf("len(v) = %d, want 3", len(v))
	}
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if math.Abs(norm-1) > 1e-9 {
		t.Fatalf("RawVector is not unit length: sumSq = %v", norm)
	}

	if _, err := s.RawVector("bird"); err == nil {
		t.Fatal("expected an unknown-word error for an absent token")
	}
}

func TestGetMatchesForWordExcludesSelf(t *testing.T) {
	s := New(smallModel(t))

	matches, err := s.GetMatchesForWord("cat", 3)
	if err != nil {
		t.Fatalf("GetMatchesForWord: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}
	for _, m := range matches {
		if m.Token == "cat" {
			t.Fatal("GetMatchesForWord must exclude the query token")
		}
	}
	if matches[0].Token != "dog" {
		t.Fatalf("top match = %q, want \"dog\"", matches[0].Token)
	}
}

func TestGetMatchesForVectorDoesNotNormalize(t *testing.T) {
	s := New(smallModel(t))

	matches, err := s.GetMatchesForVector([]float64{2, 0, 0}, 2)
	if err != nil {
		t.Fatalf("GetMatchesForVector: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Token != "cat" {
		t.Fatalf("top match = %q, want \"cat\" (self-match is allowed for vector queries)", matches[0].Token)
	}
	// cat's unit row is (1,0,0); an unnormalized query of length 2 scores 2.
	if math.Abs(matches[0].Score-2) > 1e-9 {
		t.Fatalf("top score = %v, want 2 (query vector must not be normalized)", matches[0].Score)
	}
}

func TestSimilarityAnalogy(t *testing.T) {
	s := New(smallModel(t))

	diff, err := s.Similarity("dog", "cat")
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	matches, err := diff.GetMatches("truck", 1)
	if err != nil {
		t.Fatalf("GetMatches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
}

func TestGetMatchesCapsKAtVocabularySize(t *testing.T) {
	s := New(smallModel(t))

	matches, err := s.GetMatchesForWord("cat", 100)
	if err != nil {
		t.Fatalf("GetMatchesForWord: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3 (|V|-1)", len(matches))
	}
}

func TestCosineDistanceUnknownWord(t *testing.T) {
	s := New(smallModel(t))
	if _, err := s.CosineDistance("cat", "bird"); err == nil {
		t.Fatal("expected an unknown-word error")
	}
}
