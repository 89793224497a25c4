package unigram

import (
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

func buildVocab(t *testing.T, counts map[string]int64) *vocab.Vocabulary {
	t.Helper()
	v, err := vocab.Build(nil, 1, counts)
	if err != nil {
		t.Fatalf("vocab.Build: %v", err)
	}
	return v
}

func TestBuildWithSizeExactLength(t *testing.T) {
	v := buildVocab(t, map[string]int64{"a": 100, "b": 10, "c": 1})
	tbl, err := BuildWithSize(v, 1000)
	if err != nil {
		t.Fatalf("BuildWithSize: %v", err)
	}
	if len(tbl.entries) != 1000 {
		t.Fatalf("got %d entries, want 1000", len(tbl.entries))
	}
}

func TestBuildWithSizeFrontLoadsHighFrequency(t *testing.T) {
	v := buildVocab(t, map[string]int64{"a": 1000, "b": 1})
	tbl, err := BuildWithSize(v, 1000)
	if err != nil {
		t.Fatalf("BuildWithSize: %v", err)
	}
	// "a" (index 0) dominates count^0.75 mass, so it should occupy the
	// overwhelming majority of slots.
	countA := 0
	for _, e := range tbl.entries {
		if e == 0 {
			countA++
		}
	}
	if countA < 900 {
		t.Fatalf("expected >=900/1000 slots for dominant token, got %d", countA)
	}
}

func TestAtClampsAndWraps(t *testing.T) {
	v := buildVocab(t, map[string]int64{"a": 1, "b": 1})
	tbl, err := BuildWithSize(v, 10)
	if err != nil {
		t.Fatalf("BuildWithSize: %v", err)
	}
	if got := tbl.At(-1); got < 0 || got >= 2 {
		t.Fatalf("At(-1) out of range vocabulary index: %d", got)
	}
	if got := tbl.At(10); got != tbl.At(0) {
		t.Fatalf("At(10) = %d, want wraparound to At(0) = %d", got, tbl.At(0))
	}
}

func TestRejectsEmptyVocabulary(t *testing.T) {
	v := buildVocab(t, map[string]int64{"z": 0})
	if _, err := BuildWithSize(v, 10); err == nil {
		t.Fatal("expected empty-vocabulary error")
	}
}
