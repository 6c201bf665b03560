// Copyright 2025 Certen Protocol
//
// rngseed provides the deterministic, replayable randomness used by
// QuorumSelector (§4.5) and AttestationService's attestor draw (§4.4).
// The seed is always H(tx_hash ‖ block_height) per §6 "Quorum seed",
// using the host chain's canonical hash - here go-ethereum's Keccak256,
// reused from the teacher's go.mod the same way the teacher hashes
// Merkle roots and tx identifiers.

package rngseed

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

// Size is the length in bytes of a derived seed.
const Size = 32

// Seed computes H(txHash ‖ blockHeight) as a 32-byte big-endian quantity,
// the normative quorum seed of §6.
func Seed(txHash [32]byte, blockHeight uint32) [Size]byte {
	var heightBytes [4]byte
	binary.BigEndian.PutUint32(heightBytes[:], blockHeight)
	digest := crypto.Keccak256(txHash[:], heightBytes[:])
	var out [Size]byte
	copy(out[:], digest)
	return out
}

// Source is a deterministic byte stream expanded from a seed via repeated
// hashing (a simple counter-mode hash DRBG). It holds one 32-byte hash block
// at a time (each refill allocates a fresh block) and is safe to use for index sampling where
// cryptographic unpredictability beyond the seed itself is not required -
// the seed alone is the source of unpredictability, not the expansion.
type Source struct {
	seed    [Size]byte
	counter uint64
	block   []byte
	pos     int
}

// New creates a Source from a 32-byte seed.
func New(seed [Size]byte) *Source {
	return &Source{seed: seed}
}

// next refills the block buffer with H(seed ‖ counter) and advances counter.
func (s *Source) next() {
	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], s.counter)
	s.counter++
	s.block = crypto.Keccak256(s.seed[:], counterBytes[:])
	s.pos = 0
}

// Uint64 draws a uniformly distributed uint64 from the stream.
func (s *Source) Uint64() uint64 {
	if s.block == nil || s.pos+8 > len(s.block) {
		s.next()
	}
	v := binary.BigEndian.Uint64(s.block[s.pos : s.pos+8])
	s.pos += 8
	return v
}

// Intn draws a uniformly distributed integer in [0, n) using rejection
// sampling to avoid modulo bias.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	bound := uint64(n)
	limit := (^uint64(0) / bound) * bound
	for {
		v := s.Uint64()
		if v < limit {
			return int(v % bound)
		}
	}
}

// SampleWithoutReplacement draws k distinct indices from [0, n) in the order
// drawn, using a partial Fisher-Yates shuffle over a deterministic index
// array. Ties are never a concern here since indices are drawn, not values;
// callers that need the lower-address-first tie-break (§4.5) sort the
// candidate addresses before drawing, so each index names the same address
// on every node.
func (s *Source) SampleWithoutReplacement(n, k int) []int {
	if k > n {
		k = n
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	out := make([]int, 0, k)
	for i := 0; i < k; i++ {
		j := i + s.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		out = append(out, pool[i])
	}
	return out
}
