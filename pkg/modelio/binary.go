// Package modelio reads and writes trained models in the binary and text
// on-disk formats: an ASCII header line followed by one record per
// vocabulary token.
package modelio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

// chunkBoundary is 1 GiB; ReadBinary streams the file through a buffered
// reader of chunkBoundary>>10 bytes (1 MiB), so a reader never needs the
// whole file resident at once.
const chunkBoundary = 1 << 30 // 1 GiB

// WriteBinary writes m to w in the little-endian-by-default binary format:
// header "<vocabSize> <layerSize>\n", then per token a UTF-8 token, a
// single space, layerSize float32s in order, and a trailing newline.
func WriteBinary(w io.Writer, m *model.Model, order binary.ByteOrder) error {
	if order == nil {
		order = binary.LittleEndian
	}
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", m.VectorCount(), m.LayerSize()); err != nil {
		return perr.Wrap(perr.IOError, "writing binary model header", err)
	}

	buf := make([]byte, 4)
	for i, token := range m.Vocab() {
		if _, err := bw.WriteString(token); err != nil {
			return perr.Wrap(perr.IOError, "writing binary model token", err)
		}
		if err := bw.WriteByte(' '); err != nil {
			return perr.Wrap(perr.IOError, "writing binary model separator", err)
		}
		row := m.Row(i)
		for _, v := range row {
			order.PutUint32(buf, math.Float32bits(narrow(v)))
			if _, err := bw.Write(buf); err != nil {
				return perr.Wrap(perr.IOError, "writing binary model vector", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return perr.Wrap(perr.IOError, "writing binary model newline", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return perr.Wrap(perr.IOError, "flushing binary model writer", err)
	}
	return nil
}

// ReadBinary parses the binary format from r, widening every float32 to
// float64. order defaults to little-endian; readers that know a file was
// produced with a different byte order pass it explicitly.
func ReadBinary(r io.Reader, order binary.ByteOrder) (*model.Model, error) {
	if order == nil {
		order = binary.LittleEndian
	}
	br := bufio.NewReaderSize(r, chunkBoundary>>10)

	header, err := br.ReadString('\n')
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "reading binary model header", err)
	}
	var vocabSize, layerSize int
	if _, err := fmt.Sscanf(header, "%d %d", &vocabSize, &layerSize); err != nil {
		return nil, perr.Wrap(perr.MalformedModel, "parsing binary model header", err)
	}
	if vocabSize < 0 || layerSize <= 0 {
		return nil, perr.New(perr.MalformedModel, "binary model header has non-positive dimensions")
	}

	tokens := make([]string, vocabSize)
	vectors := make([]float64, 0, vocabSize*layerSize)
	buf := make([]byte, 4)

	for i := 0; i < vocabSize; i++ {
		token, err := br.ReadString(' ')
		if err != nil {
			return nil, perr.Wrap(perr.MalformedModel, "reading binary model token", err)
		}
		tokens[i] = token[:len(token)-1]

		for d := 0; d < layerSize; d++ {
			if _, err := io.ReadFull(br, buf); err != nil {
				return nil, perr.Wrap(perr.MalformedModel, "reading binary model vector component", err)
			}
			bits := order.Uint32(buf)
			vectors = append(vectors, float64(math.Float32frombits(bits)))
		}

		// A trailing '\n' is tolerated but not required; peek and consume
		// it if present so the next token starts cleanly.
		if next, err := br.Peek(1); err == nil && next[0] == '\n' {
			_, _ = br.Discard(1)
		}
	}

	return model.New(tokens, layerSize, vectors)
}

// narrow converts a float64 to float32 using round-to-nearest-even, which
// is Go's native float64-to-float32 conversion behavior.
func narrow(v float64) float32 {
	return float32(v)
}

// WriteText writes m in the plain-text format: header "<vocabSize>
// <layerSize>", then one line per token "<token> <d_0> ... <d_{L-1})" with
// ASCII double formatting.
func WriteText(w io.Writer, m *model.Model) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", m.VectorCount(), m.LayerSize()); err != nil {
		return perr.Wrap(perr.IOError, "writing text model header", err)
	}

	for i, token := range m.Vocab() {
		if _, err := bw.WriteString(token); err != nil {
			return perr.Wrap(perr.IOError, "writing text model token", err)
		}
		for _, v := range m.Row(i) {
			if err := bw.WriteByte(' '); err != nil {
				return perr.Wrap(perr.IOError, "writing text model separator", err)
			}
			if _, err := bw.WriteString(strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
				return perr.Wrap(perr.IOError, "writing text model component", err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return perr.Wrap(perr.IOError, "writing text model newline", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return perr.Wrap(perr.IOError, "flushing text model writer", err)
	}
	return nil
}

// ReadText parses the plain-text format from r.
func ReadText(r io.Reader) (*model.Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return nil, perr.Wrap(perr.MalformedModel, "reading text model header", sc.Err())
	}
	var vocabSize, layerSize int
	if _, err := fmt.Sscanf(sc.Text(), "%d %d", &vocabSize, &layerSize); err != nil {
		return nil, perr.Wrap(perr.MalformedModel, "parsing text model header", err)
	}
	if vocabSize < 0 || layerSize <= 0 {
		return nil, perr.New(perr.MalformedModel, "text model header has non-positive dimensions")
	}

	tokens := make([]string, 0, vocabSize)
	vectors := make([]float64, 0, vocabSize*layerSize)

	for sc.Scan() {
		fields := splitFields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != layerSize+1 {
			return nil, perr.New(perr.MalformedModel, "text model row has wrong field count")
		}
		tokens = append(tokens, fields[0])
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, perr.Wrap(perr.MalformedModel, "parsing text model component", err)
			}
			vectors = append(vectors, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(perr.IOError, "reading text model body", err)
	}
	if len(tokens) != vocabSize {
		return nil, perr.New(perr.MalformedModel, "text model token count does not match header")
	}

	return model.New(tokens, layerSize, vectors)
}

func splitFields(s string) []string {
	var fields []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}
