// Command query answers nearest-neighbor and analogy lookups against a
// model trained by cmd/trainer.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lab/hasher/wordvec-trainer/internal/config"
	"github.com/lab/hasher/wordvec-trainer/internal/logging"
	"github.com/lab/hasher/wordvec-trainer/pkg/model"
	"github.com/lab/hasher/wordvec-trainer/pkg/modelio"
	"github.com/lab/hasher/wordvec-trainer/pkg/search"
	"github.com/lab/hasher/wordvec-trainer/pkg/serialize"
)

var (
	configFile   = flag.String("config", "", "path to a JSON config file, overlaid on the documented defaults")
	modelPath    = flag.String("model", "", "path to a trained model file")
	modelFormat  = flag.String("format", "binary", "model file format: binary | text | json")
	word         = flag.String("word", "", "print the nearest neighbors of this word")
	analogy      = flag.String("analogy", "", "comma-separated \"a,b,c\": find words near a - b + c")
	topK         = flag.Int("k", 0, "number of matches to print (0: use config default)")
)

func main() {
	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "query: -model is required")
		os.Exit(2)
	}
	if *word == "" && *analogy == "" {
		fmt.Fprintln(os.Stderr, "query: one of -word or -analogy is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query: loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(&logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: cfg.Logging.Output})
	if err != nil {
		fmt.Fprintf(os.Stderr, "query: initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	k := *topK
	if k == 0 {
		k = cfg.Search.DefaultTopK
	}

	m, err := loadModel(*modelPath, *modelFormat)
	if err != nil {
		logger.Fatal("loading model: %v", err)
	}
	logger.Info("loaded model: %d tokens, layer size %d", m.VectorCount(), m.LayerSize())

	s := search.New(m)

	var matches []search.Match
	if *word != "" {
		matches, err = s.GetMatchesForWord(*word, k)
	} else {
		matches, err = runAnalogy(s, *analogy, k)
	}
	if err != nil {
		logger.Fatal("query failed: %v", err)
	}

	for _, match := range matches {
		fmt.Printf("%s\t%.6f\n", match.Token, match.Score)
	}
}

func runAnalogy(s *search.Searcher, spec string, k int) ([]search.Match, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("analogy must be \"a,b,c\", got %q", spec)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	// Similarity(b, a) holds d = b - a, so matching c against c - d
	// queries a - b + c.
	sd, err := s.Similarity(parts[1], parts[0])
	if err != nil {
		return nil, err
	}
	return sd.GetMatches(parts[2], k)
}

func loadModel(path, format string) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case "binary":
		return modelio.ReadBinary(f, nil)
	case "text":
		return modelio.ReadText(f)
	case "json":
		return serialize.Decode(f)
	default:
		return nil, fmt.Errorf("unknown model format %q", format)
	}
}
