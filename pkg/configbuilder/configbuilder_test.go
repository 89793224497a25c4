package configbuilder

import (
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/trainer"
)

func TestBuilderProducesValidatedConfig(t *testing.T) {
	cfg, err := New(trainer.SkipGram).
		WithLayerSize(50).
		WithWindow(3).
		WithIterations(2).
		WithNegativeSamples(5).
		WithHierarchicalSoftmax(false).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.LayerSize != 50 || cfg.WindowSize != 3 || cfg.Iterations != 2 {
		t.Fatalf("unexpected resolved config: %+v", cfg)
	}
}

func TestBuilderHonorsSpecDefaults(t *testing.T) {
	cfg, err := New(trainer.CBOW).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.UseHierarchicalSoftmax {
		t.Fatal("expected UseHierarchicalSoftmax to default to false per spec.md §4.4.1")
	}
	if cfg.NegativeSamples != 0 {
		t.Fatalf("expected NegativeSamples to default to 0, got %d", cfg.NegativeSamples)
	}
}
