// Package buildcache caches the prepared Vocabulary and Huffman table
// across trainer invocations, keyed by a fingerprint of the corpus and the
// minFrequency option, so repeated runs over the same corpus skip the
// counting and tree-construction passes. Strictly additive: the trainer
// runs identically with no cache configured.
package buildcache

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
	"github.com/lab/hasher/wordvec-trainer/pkg/huffman"
	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

var (
	vocabBucket   = []byte("Vocabularies")
	huffmanBucket = []byte("HuffmanTables")
)

// Cache wraps a bbolt database holding prepared build artifacts.
type Cache struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "opening build cache", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(vocabBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(huffmanBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, perr.Wrap(perr.IOError, "creating build cache buckets", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return perr.Wrap(perr.IOError, "closing build cache", err)
	}
	return nil
}

// vocabEntry is the on-disk shape of a cached Vocabulary; Vocabulary's
// unexported index map is rebuilt on load rather than persisted.
type vocabEntry struct {
	Entries []vocab.Entry `json:"entries"`
}

// PutVocabulary stores v under key.
func (c *Cache) PutVocabulary(key string, v *vocab.Vocabulary) error {
	data, err := json.Marshal(vocabEntry{Entries: v.Entries})
	if err != nil {
		return perr.Wrap(perr.IOError, "marshaling cached vocabulary", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(vocabBucket).Put([]byte(key), data)
	})
}

// GetVocabulary retrieves the Vocabulary stored under key, or (nil, false)
// if absent.
func (c *Cache) GetVocabulary(key string) (*vocab.Vocabulary, bool, error) {
	var entry vocabEntry
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(vocabBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, false, perr.Wrap(perr.IOError, "reading cached vocabulary", err)
	}
	if !found {
		return nil, false, nil
	}

	v, err := vocab.Build(nil, 0, entriesToCounts(entry.Entries))
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func entriesToCounts(entries []vocab.Entry) map[string]int64 {
	counts := make(map[string]int64, len(entries))
	for _, e := range entries {
		counts[e.Token] = e.Count
	}
	return counts
}

// PutHuffman stores huff under key.
func (c *Cache) PutHuffman(key string, huff *huffman.Table) error {
	data, err := json.Marshal(huff)
	if err != nil {
		return perr.Wrap(perr.IOError, "marshaling cached huffman table", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(huffmanBucket).Put([]byte(key), data)
	})
}

// GetHuffman retrieves the Huffman table stored under key, or (nil, false)
// if absent.
func (c *Cache) GetHuffman(key string) (*huffman.Table, bool, error) {
	var huff huffman.Table
	found := false
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(huffmanBucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &huff)
	})
	if err != nil {
		return nil, false, perr.Wrap(perr.IOError, "reading cached huffman table", err)
	}
	if !found {
		return nil, false, nil
	}
	return &huff, true, nil
}

// Key builds the cache key from a corpus fingerprint and minFrequency, the
// two inputs that fully determine a Vocabulary/Huffman pair.
func Key(corpusFingerprint string, minFrequency int) string {
	return fmt.Sprintf("%s:%d", corpusFingerprint, minFrequency)
}
