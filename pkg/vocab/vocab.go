// Package vocab builds the frequency-sorted, minimum-frequency-filtered
// vocabulary consumed by the Huffman coder and the trainer.
package vocab

import (
	"sort"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
)

// Entry is one surviving vocabulary token with its total corpus count.
type Entry struct {
	Token string
	Count int64
}

// Vocabulary is the ordered, deduplicated token list produced by Build: total
// order by (count desc, token asc), plus one token-to-index map that serves
// both membership tests and O(1) lookup.
type Vocabulary struct {
	Entries []Entry
	index   map[string]int
}

// Len returns |V|.
func (v *Vocabulary) Len() int { return len(v.Entries) }

// Contains reports whether token survived the minFrequency filter.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.index[token]
	return ok
}

// IndexOf returns token's position in Entries, or (-1, false) if absent.
func (v *Vocabulary) IndexOf(token string) (int, bool) {
	i, ok := v.index[token]
	return i, ok
}

// Count returns the corpus count for token, or 0 if absent.
func (v *Vocabulary) Count(token string) int64 {
	if i, ok := v.index[token]; ok {
		return v.Entries[i].Count
	}
	return 0
}

// VocabTokens returns the ordered token list, discarding counts. Callers
// that need a plain []string (model construction, serialization) use this
// instead of walking Entries themselves.
func (v *Vocabulary) VocabTokens() []string {
	tokens := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		tokens[i] = e.Token
	}
	return tokens
}

// Sentence is a single tokenized sentence.
type Sentence []string

// Corpus is a finite, potentially-multi-pass source of sentences. Build only
// ever makes a single pass.
type Corpus interface {
	// Each calls fn once per sentence, in order, stopping early (without
	// error) if fn returns false.
	Each(fn func(Sentence) bool) error
}

// SliceCorpus adapts an in-memory sentence slice to Corpus.
type SliceCorpus []Sentence

func (c SliceCorpus) Each(fn func(Sentence) bool) error {
	for _, s := range c {
		if !fn(s) {
			break
		}
	}
	return nil
}

// Build counts every token occurrence across corpus, drops tokens with count
// < minFrequency, and returns the deterministically ordered Vocabulary. If
// counts is non-nil it is used verbatim instead of counting (the "optional
// caller-supplied token→count map") and corpus is ignored.
func Build(corpus Corpus, minFrequency int, counts map[string]int64) (*Vocabulary, error) {
	if minFrequency < 0 {
		return nil, perr.New(perr.InvalidConfig, "minFrequency must be non-negative")
	}

	if counts == nil {
		counts = make(map[string]int64)
		if corpus != nil {
			err := corpus.Each(func(s Sentence) bool {
				for _, tok := range s {
					counts[tok]++
				}
				return true
			})
			if err != nil {
				return nil, perr.Wrap(perr.IOError, "reading corpus", err)
			}
		}
	}

	entries := make([]Entry, 0, len(counts))
	for tok, count := range counts {
		if count < int64(minFrequency) {
			continue
		}
		entries = append(entries, Entry{Token: tok, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})

	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Token] = i
	}

	return &Vocabulary{Entries: entries, index: index}, nil
}

// RequireNonEmpty returns an empty-vocabulary error when v has no surviving
// entries, nil otherwise. Downstream stages (Huffman, trainer) call this
// before proceeding.
func RequireNonEmpty(v *Vocabulary) error {
	if v == nil || v.Len() == 0 {
		return perr.New(perr.EmptyVocabulary, "no tokens survived the minFrequency filter")
	}
	return nil
}
