// Package export writes derived training artifacts in columnar formats
// for offline inspection: trained model vectors via Arrow IPC, and the
// target/context training pairs generated per sentence via Parquet.
// Neither format is read back by the core; the readers in this package
// exist for round-trip tests.
package export

import (
	"io"

	"github.com/apache/arrow/go/arrow"
	"github.com/apache/arrow/go/arrow/array"
	"github.com/apache/arrow/go/arrow/ipc"
	"github.com/apache/arrow/go/arrow/memory"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

// VectorSchema returns the Arrow schema used by WriteModelVectors: one
// token column and one variable-length list-of-float32 column.
func VectorSchema() *arrow.Schema {
	return arrow.NewSchema([]arrow.Field{
		{Name: "token", Type: arrow.BinaryTypes.String, Nullable: false},
		{Name: "vector", Type: arrow.ListOf(arrow.PrimitiveTypes.Float32), Nullable: false},
	}, nil)
}

// WriteModelVectors writes m's vocabulary and vectors to w as a single
// Arrow IPC record batch, in vocabulary order.
func WriteModelVectors(w io.Writer, m *model.Model) error {
	schema := VectorSchema()
	aw := ipc.NewWriter(w, ipc.WithSchema(schema))
	defer aw.Close()

	mem := memory.NewGoAllocator()
	tokenBuilder := array.NewStringBuilder(mem)
	defer tokenBuilder.Release()
	vectorBuilder := array.NewListBuilder(mem, arrow.PrimitiveTypes.Float32)
	defer vectorBuilder.Release()
	valueBuilder := vectorBuilder.ValueBuilder().(*array.Float32Builder)

	for i, token := range m.Vocab() {
		tokenBuilder.Append(token)
		vectorBuilder.Append(true)
		for _, v := range m.Row(i) {
			valueBuilder.Append(float32(v))
		}
	}

	tokenArr := tokenBuilder.NewArray()
	defer tokenArr.Release()
	vectorArr := vectorBuilder.NewArray()
	defer vectorArr.Release()

	batch := array.NewRecord(schema, []array.Interface{tokenArr, vectorArr}, int64(m.VectorCount()))
	defer batch.Release()

	if err := aw.Write(batch); err != nil {
		return perr.Wrap(perr.IOError, "writing model vectors to arrow IPC", err)
	}
	return nil
}

// ReadModelVectors reads back a model exported by WriteModelVectors,
// reconstructing a Model. Primarily exercised by round-trip tests; the
// core never depends on this path.
func ReadModelVectors(r io.Reader, layerSize int) (*model.Model, error) {
	ar, err := ipc.NewReader(r)
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "opening arrow IPC reader", err)
	}
	defer ar.Release()

	var tokens []string
	var vectors []float64

	for ar.Next() {
		batch := ar.Record()
		tokenCol := batch.Column(0).(*array.String)
		vectorCol := batch.Column(1).(*array.List)
		values := vectorCol.ListValues().(*array.Float32)

		for i := 0; i < int(batch.NumRows()); i++ {
			tokens = append(tokens, tokenCol.Value(i))
			start, end := vectorCol.ValueOffsets(i)
			for j := start; j < end; j++ {
				vectors = append(vectors, float64(values.Value(int(j))))
			}
		}
	}
	if err := ar.Err(); err != nil {
		return nil, perr.Wrap(perr.IOError, "reading arrow IPC batches", err)
	}

	return model.New(tokens, layerSize, vectors)
}
