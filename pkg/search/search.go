// Package search answers nearest-neighbor and analogy queries against a
// trained model: unit-normalize every row once up front, then score
// queries by dot product against the normalized matrix.
package search

import (
	"container/heap"
	"math"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
)

// Match is one scored result from getMatches: a token and its similarity
// score against the query.
type Match struct {
	Token string
	Score float64
}

// Searcher answers queries over a single trained Model's normalized
// vectors. Construction cost is O(|V|*L); queries are O(|V|*(L + log k)).
type Searcher struct {
	tokens    []string
	layerSize int
	unit      []float64 // |V| x L, row-major, each row L2-normalized
	index     map[string]int
}

// New builds a Searcher over m, normalizing every row to unit length.
func New(m *model.Model) *Searcher {
	n := m.VectorCount()
	l := m.LayerSize()
	unit := make([]float64, len(m.Vectors()))
	copy(unit, m.Vectors())

	for i := 0; i < n; i++ {
		row := unit[i*l : i*l+l]
		normalize(row)
	}

	index := make(map[string]int, n)
	for i, t := range m.Vocab() {
		index[t] = i
	}

	return &Searcher{tokens: m.Vocab(), layerSize: l, unit: unit, index: index}
}

func normalize(row []float64) {
	var sumSq float64
	for _, x := range row {
		sumSq += x * x
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return
	}
	for i := range row {
		row[i] /= norm
	}
}

// Contains reports whether word is present in the underlying vocabulary.
func (s *Searcher) Contains(word string) bool {
	_, ok := s.index[word]
	return ok
}

// RawVector returns the unit-normalized row for word, or an unknown-word
// error if word is absent. The returned slice is a copy; callers may
// mutate it freely.
func (s *Searcher) RawVector(word string) ([]float64, error) {
	i, ok := s.index[word]
	if !ok {
		return nil, perr.New(perr.UnknownWord, word)
	}
	row := s.unit[i*s.layerSize : i*s.layerSize+s.layerSize]
	out := make([]float64, len(row))
	copy(out, row)
	return out, nil
}

// CosineDistance returns the dot product of a's and b's normalized rows.
func (s *Searcher) CosineDistance(a, b string) (float64, error) {
	va, err := s.RawVector(a)
	if err != nil {
		return 0, err
	}
	vb, err := s.RawVector(b)
	if err != nil {
		return 0, err
	}
	return dot(va, vb), nil
}

// GetMatchesForWord returns the top k tokens by cosine similarity to word,
// excluding word itself. Ties break by ascending vocabulary order.
func (s *Searcher) GetMatchesForWord(word string, k int) ([]Match, error) {
	v, err := s.RawVector(word)
	if err != nil {
		return nil, err
	}
	return s.getMatches(v, word, k), nil
}

// GetMatchesForVector returns the top k tokens by raw dot product against
// vec. Unlike GetMatchesForWord, vec is never normalized, a deliberate
// deviation from the reference implementation: callers that want a
// normalized query vector must normalize it themselves first.
func (s *Searcher) GetMatchesForVector(vec []float64, k int) ([]Match, error) {
	if len(vec) != s.layerSize {
		return nil, perr.New(perr.InvalidConfig, "query vector length does not match model layer size")
	}
	return s.getMatches(vec, "", k), nil
}

// SemanticDifference is the residual direction d = normalized(a) -
// normalized(b) produced by Similarity, used to answer analogy queries.
type SemanticDifference struct {
	s *Searcher
	d []float64
}

// Similarity computes the normalized difference between a and b.
func (s *Searcher) Similarity(a, b string) (SemanticDifference, error) {
	va, err := s.RawVector(a)
	if err != nil {
		return SemanticDifference{}, err
	}
	vb, err := s.RawVector(b)
	if err != nil {
		return SemanticDifference{}, err
	}
	d := make([]float64, len(va))
	for i := range d {
		d[i] = va[i] - vb[i]
	}
	return SemanticDifference{s: s, d: d}, nil
}

// GetMatches answers the analogy query for word: the top k tokens nearest
// normalized(word) - d.
func (sd SemanticDifference) GetMatches(word string, k int) ([]Match, error) {
	v, err := sd.s.RawVector(word)
	if err != nil {
		return nil, err
	}
	query := make([]float64, len(v))
	for i := range query {
		query[i] = v[i] - sd.d[i]
	}
	return sd.s.getMatches(query, word, k), nil
}

// getMatches scores every vocabulary row against query by dot product,
// excluding exclude (by token, if non-empty), and returns the top k in
// descending score order. Ties break by ascending vocabulary index; for a
// model trained over a vocab.Build vocabulary that is count descending,
// then token ascending.
func (s *Searcher) getMatches(query []float64, exclude string, k int) []Match {
	n := len(s.tokens)
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}

	h := make(scoreHeap, 0, k+1)
	l := s.layerSize

	for i := 0; i < n; i++ {
		if s.tokens[i] == exclude {
			continue
		}
		row := s.unit[i*l : i*l+l]
		score := dot(query, row)
		heap.Push(&h, scored{index: i, score: score})
		if h.Len() > k {
			heap.Pop(&h)
		}
	}

	out := make([]Match, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		top := heap.Pop(&h).(scored)
		out[i] = Match{Token: s.tokens[top.index], Score: top.score}
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// scored pairs a vocabulary index with its query score for the min-heap
// below; the heap keeps the k best scores seen so far by evicting its
// current minimum whenever it grows past k.
type scored struct {
	index int
	score float64
}

// scoreHeap is a min-heap on score, with ties broken so the larger
// vocabulary index sits at the root (evicted first), which leaves smaller
// indices preferred among equal scores in the final output.
type scoreHeap []scored

func (h scoreHeap) Len() int { return len(h) }
func (h scoreHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].index > h[j].index
}
func (h scoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scoreHeap) Push(x any) {
	*h = append(*h, x.(scored))
}
func (h *scoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
