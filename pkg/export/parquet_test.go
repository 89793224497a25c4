package export

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestEncodeDecodeContextIDs(t *testing.T) {
	ids := []int32{3, 1, 4, 1, 5}
	s := EncodeContextIDs(ids)
	got, err := DecodeContextIDs(s)
	if err != nil {
		t.Fatalf("DecodeContextIDs: %v", err)
	}
	if !reflect.DeepEqual(got, ids) {
		t.Fatalf("got %v, want %v", got, ids)
	}
}

func TestDecodeContextIDsEmpty(t *testing.T) {
	got, err := DecodeContextIDs("")
	if err != nil {
		t.Fatalf("DecodeContextIDs: %v", err)
	}
	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func TestSentenceToPairsWindowClipping(t *testing.T) {
	tokenIDs := []int32{10, 11, 12, 13}
	pairs := SentenceToPairs(7, tokenIDs, 1)
	if len(pairs) != 4 {
		t.Fatalf("len(pairs) = %d, want 4", len(pairs))
	}
	if pairs[0].WindowStart != 0 || pairs[0].WindowEnd != 2 {
		t.Fatalf("pairs[0] window = [%d,%d), want [0,2)", pairs[0].WindowStart, pairs[0].WindowEnd)
	}
	if pairs[3].WindowStart != 2 || pairs[3].WindowEnd != 4 {
		t.Fatalf("pairs[3] window = [%d,%d), want [2,4)", pairs[3].WindowStart, pairs[3].WindowEnd)
	}
	for _, p := range pairs {
		if p.SourceSentence != 7 {
			t.Fatalf("SourceSentence = %d, want 7", p.SourceSentence)
		}
	}
}

func TestWriteReadTrainingPairsRoundTrip(t *testing.T) {
	pairs := []TrainingPair{
		{SourceSentence: 1, WindowStart: 0, WindowEnd: 2, TargetTokenID: 5, ContextTokenIDs: "1,2"},
		{SourceSentence: 1, WindowStart: 1, WindowEnd: 3, TargetTokenID: 6, ContextTokenIDs: "2,3"},
	}
	path := filepath.Join(t.TempDir(), "pairs.parquet")

	if err := WriteTrainingPairs(path, pairs); err != nil {
		t.Fatalf("WriteTrainingPairs: %v", err)
	}

	got, err := ReadTrainingPairs(path)
	if err != nil {
		t.Fatalf("ReadTrainingPairs: %v", err)
	}
	if len(got) != len(pairs) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(pairs))
	}
	for i, want := range pairs {
		if got[i] != want {
			t.Fatalf("pair %d = %+v, want %+v", i, got[i], want)
		}
	}
}
