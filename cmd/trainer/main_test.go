package main

import (
	"testing"

	"github.com/lab/hasher/wordvec-trainer/pkg/vocab"
)

func TestFingerprintIsStableAndSensitiveToContent(t *testing.T) {
	a := []vocab.Sentence{{"the", "quick", "fox"}}
	b := []vocab.Sentence{{"the", "quick", "fox"}}
	c := []vocab.Sentence{{"the", "slow", "fox"}}

	if fingerprint(a) != fingerprint(b) {
		t.Fatal("identical corpora produced different fingerprints")
	}
	if fingerprint(a) == fingerprint(c) {
		t.Fatal("different corpora produced the same fingerprint")
	}
}
