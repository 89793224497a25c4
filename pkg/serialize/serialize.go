// Package serialize implements the JSON externalization of a trained
// model: the same three fields a Thrift struct would expose (vocab,
// layerSize, vectors), opaque to the rest of the core.
package serialize

import (
	"encoding/json"
	"io"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

// document is the wire shape; field names match what a generated
// Thrift/JSON struct for this model would use.
type document struct {
	Vocab     []string  `json:"vocab"`
	LayerSize int       `json:"layerSize"`
	Vectors   []float64 `json:"vectors"`
}

// Marshal encodes m into its JSON externalization.
func Marshal(m *model.Model) ([]byte, error) {
	doc := document{Vocab: m.Vocab(), LayerSize: m.LayerSize(), Vectors: m.Vectors()}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "marshaling model to JSON", err)
	}
	return b, nil
}

// Unmarshal decodes b into a Model, validating the vectors/vocab/layerSize
// invariant via model.New.
func Unmarshal(b []byte) (*model.Model, error) {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, perr.Wrap(perr.MalformedModel, "unmarshaling model from JSON", err)
	}
	return model.New(doc.Vocab, doc.LayerSize, doc.Vectors)
}

// Encode writes m's JSON externalization to w.
func Encode(w io.Writer, m *model.Model) error {
	enc := json.NewEncoder(w)
	doc := document{Vocab: m.Vocab(), LayerSize: m.LayerSize(), Vectors: m.Vectors()}
	if err := enc.Encode(doc); err != nil {
		return perr.Wrap(perr.IOError, "encoding model to JSON", err)
	}
	return nil
}

// Decode reads a model's JSON externalization from r.
func Decode(r io.Reader) (*model.Model, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, perr.Wrap(perr.MalformedModel, "decoding model from JSON", err)
	}
	return model.New(doc.Vocab, doc.LayerSize, doc.Vectors)
}
