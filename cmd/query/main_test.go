package main

import (
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/model"
	"github.com/lab/hasher/wordvec-trainer/pkg/search"
)

func smallModel(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New(
		[]string{"king", "man", "woman", "queen"},
		2,
		[]float64{1, 1, 1, 0, 0, 1, 0, 1},
	)
	if err != nil {
		t.Fatalf("model.New: %v", err)
	}
	return m
}

func TestRunAnalogyRejectsWrongPartCount(t *testing.T) {
	s := search.New(smallModel(t))
	if _, err := runAnalogy(s, "king,man", 2); err == nil {
		t.Fatal("expected an error for a two-part analogy spec")
	}
}

func TestRunAnalogyResolvesMatches(t *testing.T) {
	s := search.New(smallModel(t))
	matches, err := runAnalogy(s, " king , man , woman ", 1)
	if err != nil {
		t.Fatalf("runAnalogy: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
}
