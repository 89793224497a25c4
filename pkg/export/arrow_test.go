package export

import (
	"bytes"
	"math"
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

func TestWriteReadModelVectorsRoundTrip(t *testing.T) {
	m, err := model.New([]string{"a", "b", "c"}, 2, []float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteModelVectors(&buf, m); err != nil {
		t.Fatalf("WriteModelVectors: %v", err)
	}

	got, err := ReadModelVectors(&buf, 2)
	if err != nil {
		t.Fatalf("ReadModelVectors: %v", err)
	}
	if got.VectorCount() != m.VectorCount() {
		t.Fatalf("VectorCount() = %d, want %d", got.VectorCount(), m.VectorCount())
	}
	for i, want := range m.Vectors() {
		if math.Abs(got.Vectors()[i]-want) > 1e-6 {
			t.Fatalf("component %d = %v, want %v", i, got.Vectors()[i], want)
		}
	}
}
