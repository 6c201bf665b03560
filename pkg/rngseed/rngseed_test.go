package rngseed

import "testing"

func TestSeedDeterministic(t *testing.T) {
	var h [32]byte
	copy(h[:], []byte("some-tx-hash-some-tx-hash-abcd"))
	s1 := Seed(h, 100)
	s2 := Seed(h, 100)
	if s1 != s2 {
		t.Fatalf("expected deterministic seed for identical inputs")
	}

	s3 := Seed(h, 101)
	if s1 == s3 {
		t.Fatalf("expected different seeds for different heights")
	}
}

func TestSampleWithoutReplacementDeterministic(t *testing.T) {
	var h [32]byte
	copy(h[:], []byte("tx-hash"))
	seed := Seed(h, 42)

	draw1 := New(seed).SampleWithoutReplacement(20, 10)
	draw2 := New(seed).SampleWithoutReplacement(20, 10)

	if len(draw1) != 10 {
		t.Fatalf("expected 10 draws, got %d", len(draw1))
	}
	for i := range draw1 {
		if draw1[i] != draw2[i] {
			t.Fatalf("expected identical draws from identical seed, differ at %d: %d vs %d", i, draw1[i], draw2[i])
		}
	}

	seen := make(map[int]bool)
	for _, idx := range draw1 {
		if seen[idx] {
			t.Fatalf("sample without replacement produced duplicate index %d", idx)
		}
		seen[idx] = true
	}
}

func TestSampleCapsAtPopulationSize(t *testing.T) {
	var seed [32]byte
	draw := New(seed).SampleWithoutReplacement(3, 10)
	if len(draw) != 3 {
		t.Fatalf("expected draw capped at population size 3, got %d", len(draw))
	}
}
