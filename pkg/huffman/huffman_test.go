package huffman

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

// TestEncodeProducesOneCodePerToken does not rebuild the tree to follow each
// path; it checks the documented invariants directly: one Node per token,
// code length at most |V|-1, len(Point) == len(Code)+1, and Point[0] is the
// root sentinel |V|-2.
func TestEncodeProducesOneCodePerToken(t *testing.T) {
	v := buildVocab(t, map[string]int64{
		"a": 5, "b": 2, "c": 2, "d": 1, "e": 1,
	})

	table, err := Encode(v, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(table.ByToken) != v.Len() {
		t.Fatalf("got %d codes, want %d", len(table.ByToken), v.Len())
	}

	maxLen := v.Len() - 1
	for i, node := range table.ByToken {
		if len(node.Code) > maxLen {
			t.Fatalf("token %d: code length %d exceeds max %d", i, len(node.Code), maxLen)
		}
		if len(node.Point) != len(node.Code)+1 {
			t.Fatalf("token %d: path length %d != codeLen+1 (%d)", i, len(node.Point), len(node.Code)+1)
		}
		if node.Point[0] != int32(v.Len()-2) {
			t.Fatalf("token %d: path does not start at root sentinel: got %d, want %d", i, node.Point[0], v.Len()-2)
		}
	}
}

func TestEncodeRejectsEmptyVocabulary(t *testing.T) {
	v := buildVocab(t, map[string]int64{"z": 0})
	if _, err := Encode(v, nil, nil); err == nil {
		t.Fatal("expected empty-vocabulary error")
	}
}

func TestEncodeTwoTokens(t *testing.T) {
	v := buildVocab(t, map[string]int64{"a": 10, "b": 1})
	table, err := Encode(v, nil, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for _, node := range table.ByToken {
		if len(node.Code) != 1 {
			t.Fatalf("expected single-bit codes for a two-token vocabulary, got %d", len(node.Code))
		}
	}
	// The two codes must differ (one 0, one 1).
	if table.ByToken[0].Code[0] == table.ByToken[1].Code[0] {
		t.Fatal("expected distinct codes for the two tokens")
	}
}
