package serialize

import (
	"bytes"
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

func sampleModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New([]string{"a", "b"}, 2, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return m
}

func TestMarshalUnmarshalRoundTripIsExact(t *testing.T) {
	m := sampleModel(t)
	b, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.LayerSize() != m.LayerSize() {
		t.Fatalf("LayerSize() = %d, want %d", got.LayerSize(), m.LayerSize())
	}
	for i, tok := range m.Vocab() {
		if got.Vocab()[i] != tok {
			t.Fatalf("vocab[%d] = %q, want %q", i, got.Vocab()[i], tok)
		}
	}
	for i, want := range m.Vectors() {
		if got.Vectors()[i] != want {
			t.Fatalf("vectors[%d] = %v, want %v", i, got.Vectors()[i], want)
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sampleModel(t)
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.VectorCount() != m.VectorCount() {
		t.Fatalf("VectorCount() = %d, want %d", got.VectorCount(), m.VectorCount())
	}
}

func TestUnmarshalRejectsInconsistentDimensions(t *testing.T) {
	_, err := Unmarshal([]byte(`{"vocab":["a","b"],"layerSize":3,"vectors":[1,2]}`))
	if err == nil {
		t.Fatal("expected a malformed-model error")
	}
}
