package export

import (
	"strconv"
	"strings"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
)

// TrainingPair is one target/context example generated while sliding a
// window over a tokenized sentence, written for offline inspection of what
// the trainer actually saw.
type TrainingPair struct {
	SourceSentence int32  `parquet:"name=source_sentence, type=INT32"`
	WindowStart    int32  `parquet:"name=window_start, type=INT32"`
	WindowEnd      int32  `parquet:"name=window_end, type=INT32"`
	TargetTokenID  int32  `parquet:"name=target_token_id, type=INT32"`
	ContextTokenIDs string `parquet:"name=context_token_ids, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// EncodeContextIDs renders context token ids as a comma-separated string,
// the flat representation TrainingPair.ContextTokenIDs stores on disk.
func EncodeContextIDs(ids []int32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(int(id))
	}
	return strings.Join(parts, ",")
}

// DecodeContextIDs parses the comma-separated string produced by
// EncodeContextIDs back into a slice of token ids.
func DecodeContextIDs(s string) ([]int32, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, perr.Wrap(perr.MalformedModel, "parsing context token id", err)
		}
		ids[i] = int32(v)
	}
	return ids, nil
}

// WriteTrainingPairs writes pairs to a new Parquet file at path.
func WriteTrainingPairs(path string, pairs []TrainingPair) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return perr.Wrap(perr.IOError, "creating parquet file", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(TrainingPair), 4)
	if err != nil {
		return perr.Wrap(perr.IOError, "creating parquet writer", err)
	}

	for i := range pairs {
		if err := pw.Write(pairs[i]); err != nil {
			_ = pw.WriteStop()
			return perr.Wrap(perr.IOError, "writing training pair", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return perr.Wrap(perr.IOError, "finalizing parquet file", err)
	}
	return nil
}

// ReadTrainingPairs reads back all training pairs from a Parquet file
// written by WriteTrainingPairs.
func ReadTrainingPairs(path string) ([]TrainingPair, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "opening parquet file", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(TrainingPair), 4)
	if err != nil {
		return nil, perr.Wrap(perr.IOError, "creating parquet reader", err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	pairs := make([]TrainingPair, n)
	if err := pr.Read(&pairs); err != nil {
		return nil, perr.Wrap(perr.IOError, "reading training pairs", err)
	}
	return pairs, nil
}

// SentenceToPairs slices a tokenized, already-vocabulary-filtered sentence
// into one TrainingPair per position, covering windowSize tokens on each
// side (clipped at sentence boundaries), mirroring the context window the
// CBOW and Skip-gram trainers themselves slide over the same tokens.
func SentenceToPairs(sentenceID int32, tokenIDs []int32, windowSize int) []TrainingPair {
	pairs := make([]TrainingPair, 0, len(tokenIDs))
	for p, target := range tokenIDs {
		start := p - windowSize
		if start < 0 {
			start = 0
		}
		end := p + windowSize + 1
		if end > len(tokenIDs) {
			end = len(tokenIDs)
		}

		context := make([]int32, 0, end-start-1)
		for c := start; c < end; c++ {
			if c == p {
				continue
			}
			context = append(context, tokenIDs[c])
		}

		pairs = append(pairs, TrainingPair{
			SourceSentence:  sentenceID,
			WindowStart:     int32(start),
			WindowEnd:       int32(end),
			TargetTokenID:   target,
			ContextTokenIDs: EncodeContextIDs(context),
		})
	}
	return pairs
}
