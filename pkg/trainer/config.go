package trainer

import (
	"runtime"

	"github.com/lab/hasher/wordvec-trainer/internal/perr"
)

// Variant selects the training objective.
type Variant int

const (
	CBOW Variant = iota
	SkipGram
)

func (v Variant) String() string {
	if v == SkipGram {
		return "skip_gram"
	}
	return "cbow"
}

// Config enumerates the trainer's options. Zero values for LayerSize,
// WindowSize, NumThreads, Iterations, and InitialLearningRate select the
// documented defaults in Resolve.
type Config struct {
	Type                   Variant
	LayerSize              int
	WindowSize             int
	NumThreads             int
	Iterations             int
	NegativeSamples        int
	UseHierarchicalSoftmax bool
	DownSampleRate         float64
	InitialLearningRate    float64
}

// Resolve fills in defaults for zero-valued fields and validates the
// result, returning an invalid-config error for anything out of range.
func (c Config) Resolve() (Config, error) {
	if c.LayerSize == 0 {
		c.LayerSize = 100
	}
	if c.WindowSize == 0 {
		c.WindowSize = 5
	}
	if c.NumThreads == 0 {
		c.NumThreads = runtime.GOMAXPROCS(0)
	}
	if c.Iterations == 0 {
		c.Iterations = 5
	}
	if c.InitialLearningRate == 0 {
		if c.Type == CBOW {
			c.InitialLearningRate = 0.05
		} else {
			c.InitialLearningRate = 0.025
		}
	}
	// DownSampleRate is left as given: 0 is itself a valid, meaningful
	// value ("no subsampling"), so a zero-valued field trains without
	// subsampling. The documented default (1e-3) comes only from
	// DefaultConfig().

	if c.LayerSize < 0 {
		return c, perr.New(perr.InvalidConfig, "layerSize must be > 0")
	}
	if c.WindowSize <= 0 {
		return c, perr.New(perr.InvalidConfig, "windowSize must be > 0")
	}
	if c.NumThreads <= 0 {
		return c, perr.New(perr.InvalidConfig, "numThreads must be > 0")
	}
	if c.Iterations <= 0 {
		return c, perr.New(perr.InvalidConfig, "iterations must be > 0")
	}
	if c.NegativeSamples < 0 {
		return c, perr.New(perr.InvalidConfig, "negativeSamples must be >= 0")
	}
	if c.DownSampleRate < 0 {
		return c, perr.New(perr.InvalidConfig, "downSampleRate must be >= 0")
	}
	if c.InitialLearningRate <= 0 {
		return c, perr.New(perr.InvalidConfig, "initialLearningRate must be > 0")
	}

	return c, nil
}

// DefaultConfig is the full default option set for the given variant,
// matching spec.md §4.4.1 literally: hierarchical softmax off, zero
// negative samples.
func DefaultConfig(v Variant) Config {
	return Config{
		Type:                   v,
		LayerSize:              100,
		WindowSize:             5,
		NumThreads:             runtime.GOMAXPROCS(0),
		Iterations:             5,
		NegativeSamples:        0,
		UseHierarchicalSoftmax: false,
		DownSampleRate:         1e-3,
	}
}
