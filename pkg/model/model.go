// Package model defines the immutable trained artifact produced by the
// trainer: a vocabulary list, a layer size, and a flat, row-major vector
// array.
package model

import "github.com/lab/hasher/wordvec-trainer/internal/perr"

// Model is immutable once constructed: New validates its invariant
// (vectors.length == |V| * L) and New is the only constructor.
type Model struct {
	vocab     []string
	layerSize int
	vectors   []float64 // len == len(vocab) * layerSize, row-major
}

// New validates and wraps vocab/layerSize/vectors into a Model. vectors is
// taken by reference, not copied; callers must not mutate it afterward.
func New(vocab []string, layerSize int, vectors []float64) (*Model, error) {
	if layerSize <= 0 {
		return nil, perr.New(perr.InvalidConfig, "layerSize must be > 0")
	}
	if len(vectors) != len(vocab)*layerSize {
		return nil, perr.New(perr.MalformedModel, "vectors length does not match |vocab| * layerSize")
	}
	return &Model{vocab: vocab, layerSize: layerSize, vectors: vectors}, nil
}

func (m *Model) Vocab() []string   { return m.vocab }
func (m *Model) LayerSize() int    { return m.layerSize }
func (m *Model) VectorCount() int  { return len(m.vocab) }
func (m *Model) Vectors() []float64 { return m.vectors }

// Row returns the slice of m.vectors belonging to vocabulary index i.
func (m *Model) Row(i int) []float64 {
	off := i * m.layerSize
	return m.vectors[off : off+m.layerSize]
}

// IndexOf returns the row index of token, or (-1, false) if absent. This is
// a linear scan; Searcher builds a map for repeated lookups.
func (m *Model) IndexOf(token string) (int, bool) {
	for i, t := range m.vocab {
		if t == token {
			return i, true
		}
	}
	return -1, false
}
