// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package uid

import (
	"math"
	"sync"
	"testing"
)

func TestSeededIsDeterministic(t *testing.T) {
	first, second := NewSeeded(42), NewSeeded(42)
	for index := range 100 {
		a, b := first.Next(), second.Next()
		if a != b {
			t.Fatalf("draw %d: %d != %d", index, a, b)
		}
	}

	other := NewSeeded(43)
	reference := NewSeeded(42)
	same := 0
	for range 100 {
		if other.Next() == reference.Next() {
			same++
		}
	}
	if same > 2 {
		t.Errorf("seeds 42 and 43 agreed on %d of 100 draws", same)
	}
}

func TestSequence(t *testing.T) {
	sequence := NewSequence(10)
	for want := int32(10); want < 15; want++ {
		if got := sequence.Next(); got != want {
			t.Fatalf("Next() = %d, want %d", got, want)
		}
	}

	wrapping := NewSequence(math.MaxInt32)
	if got := wrapping.Next(); got != math.MaxInt32 {
		t.Errorf("Next() = %d, want MaxInt32", got)
	}
	if got := wrapping.Next(); got != math.MinInt32 {
		t.Errorf("Next() after MaxInt32 = %d, want MinInt32", got)
	}
}

func TestSequenceConcurrent(t *testing.T) {
	sequence := NewSequence(0)
	const workers, perWorker = 8, 500

	var mu sync.Mutex
	seen := make(map[int32]bool, workers*perWorker)
	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			for range perWorker {
				id := sequence.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("got %d distinct ids, want %d", len(seen), workers*perWorker)
	}
}

func TestRandomSpansSignedRange(t *testing.T) {
	generator := Random()
	var negative, positive bool
	for range 1000 {
		id := generator.Next()
		negative = negative || id < 0
		positive = positive || id > 0
	}
	if !negative || !positive {
		t.Errorf("1000 random ids: negative=%v positive=%v, want both", negative, positive)
	}
}

func TestGeneratorFunc(t *testing.T) {
	var generator Generator = GeneratorFunc(func() int32 { return 7 })
	if got := generator.Next(); got != 7 {
		t.Errorf("Next() = %d, want 7", got)
	}
}

func TestNewCryptoSeed(t *testing.T) {
	first, err := NewCryptoSeed()
	if err != nil {
		t.Fatalf("NewCryptoSeed() error: %v", err)
	}
	second, err := NewCryptoSeed()
	if err != nil {
		t.Fatalf("NewCryptoSeed() error: %v", err)
	}
	if first == second {
		t.Error("two crypto seeds are identical")
	}
}
