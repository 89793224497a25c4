// Package configbuilder supplies a fluent front end over trainer.Config,
// the kind of builder the core itself deliberately leaves to external
// callers.
package configbuilder

import "github.com/lab/hasher/wordvec-trainer/pkg/trainer"

// Builder accumulates trainer.Config options, validating only on Build.
type Builder struct {
	cfg trainer.Config
}

// New starts a Builder from the documented defaults for variant.
func New(variant trainer.Variant) *Builder {
	return &Builder{cfg: trainer.DefaultConfig(variant)}
}

func (b *Builder) WithLayerSize(n int) *Builder {
	b.cfg.LayerSize = n
	return b
}

func (b *Builder) WithWindow(w int) *Builder {
	b.cfg.WindowSize = w
	return b
}

func (b *Builder) WithThreads(n int) *Builder {
	b.cfg.NumThreads = n
	return b
}

func (b *Builder) WithIterations(i int) *Builder {
	b.cfg.Iterations = i
	return b
}

func (b *Builder) WithNegativeSamples(k int) *Builder {
	b.cfg.NegativeSamples = k
	return b
}

func (b *Builder) WithHierarchicalSoftmax(on bool) *Builder {
	b.cfg.UseHierarchicalSoftmax = on
	return b
}

func (b *Builder) WithDownSampleRate(rate float64) *Builder {
	b.cfg.DownSampleRate = rate
	return b
}

func (b *Builder) WithInitialLearningRate(alpha float64) *Builder {
	b.cfg.InitialLearningRate = alpha
	return b
}

// Build validates the accumulated options and returns the resolved
// trainer.Config, or an invalid-config error.
func (b *Builder) Build() (trainer.Config, error) {
	return b.cfg.Resolve()
}
