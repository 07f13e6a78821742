// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package uid generates UniqueID values for bank slots.
//
// The game tolerates colliding UniqueIDs, and no generator here checks
// for collisions against existing slots. [Random] draws uniformly from
// the full int32 range, which makes a collision within one bank
// vanishingly unlikely; [NewSequence] avoids them entirely within a
// single run for callers that prefer predictable identifiers.
package uid

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// Generator produces UniqueIDs. Implementations are safe for
// concurrent use.
type Generator interface {
	Next() int32
}

// GeneratorFunc adapts a function to [Generator].
type GeneratorFunc func() int32

// Next calls the function.
func (f GeneratorFunc) Next() int32 { return f() }

type randomGenerator struct{}

func (randomGenerator) Next() int32 { return int32(rand.Uint32()) }

// Random returns the process-wide generator backed by the runtime's
// randomly seeded source.
func Random() Generator { return randomGenerator{} }

// Seeded is a deterministic generator: two instances created with the
// same seed produce the same sequence.
type Seeded struct {
	mu     sync.Mutex
	source *rand.Rand
}

// NewSeeded returns a PCG-backed generator for reproducible runs.
func NewSeeded(seed uint64) *Seeded {
	return &Seeded{source: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

// Next returns the next identifier in the sequence.
func (generator *Seeded) Next() int32 {
	generator.mu.Lock()
	defer generator.mu.Unlock()
	return int32(generator.source.Uint32())
}

// Sequence hands out consecutive identifiers, wrapping at the int32
// boundary.
type Sequence struct {
	next atomic.Int32
}

// NewSequence returns a generator whose first identifier is start.
func NewSequence(start int32) *Sequence {
	sequence := &Sequence{}
	sequence.next.Store(start)
	return sequence
}

// Next returns the current identifier and advances the counter.
func (sequence *Sequence) Next() int32 {
	return sequence.next.Add(1) - 1
}

// NewCryptoSeed reads a seed for [NewSeeded] from crypto/rand.
func NewCryptoSeed() (uint64, error) {
	var buffer [8]byte
	if _, err := crand.Read(buffer[:]); err != nil {
		return 0, fmt.Errorf("reading random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(buffer[:]), nil
}
