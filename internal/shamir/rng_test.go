package shamir

import (
	"bytes"
	"errors"
	"testing"
)

func TestSeededRNGDeterminism(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, SeedSize)

	a, err := NewSeededRNG(seed)
	if err != nil {
		t.Fatalf("NewSeededRNG: %v", err)
	}
	b, err := NewSeededRNG(seed)
	if err != nil {
		t.Fatalf("NewSeededRNG: %v", err)
	}

	bufA := make([]byte, 128)
	bufB := make([]byte, 128)
	if err := a.Fill(bufA); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := b.Fill(bufB); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if !bytes.Equal(bufA, bufB) {
		t.Error("same seed produced different streams")
	}

	// Consecutive draws advance the stream.
	next := make([]byte, 128)
	if err := a.Fill(next); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if bytes.Equal(bufA, next) {
		t.Error("stream did not advance between draws")
	}
}

func TestSeededRNGSeedsDiffer(t *testing.T) {
	a, _ := NewSeededRNG(bytes.Repeat([]byte{1}, SeedSize))
	b, _ := NewSeededRNG(bytes.Repeat([]byte{2}, SeedSize))

	bufA := make([]byte, 64)
	bufB := make([]byte, 64)
	_ = a.Fill(bufA)
	_ = b.Fill(bufB)
	if bytes.Equal(bufA, bufB) {
		t.Error("different seeds produced identical streams")
	}
}

func TestSeededRNGSeedSize(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		if _, err := NewSeededRNG(make([]byte, n)); !errors.Is(err, ErrSeedSize) {
			t.Errorf("seed length %d: expected ErrSeedSize, got %v", n, err)
		}
	}
}

func TestSystemRNGFills(t *testing.T) {
	var rng SystemRNG
	a := make([]byte, 32)
	b := make([]byte, 32)
	if err := rng.Fill(a); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := rng.Fill(b); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two system draws returned identical bytes")
	}
}
