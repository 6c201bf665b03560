// Copyright 2025 Certen Protocol
//
// QuorumSelector (C5) deterministically draws the validator set that must
// respond to a ValidationRequest.

package quorum

import (
	"fmt"
	"log"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/rngseed"
)

// Size is the fixed target quorum size of §6 quorum_size.
const Size = 10

// ActiveWindowBlocks is the "active in the last 2000 blocks" bound of §4.5.
const ActiveWindowBlocks = 2000

// EligibleSet resolves the current eligible-validator pool V: addresses
// with a valid cached CompositeEligibility, active within ActiveWindowBlocks.
type EligibleSet interface {
	EligibleValidators(blockHeight uint64, activeWindowBlocks uint64) ([]address.Address, error)
}

// Selector is C5 QuorumSelector.
type Selector struct {
	set    EligibleSet
	logger *log.Logger
}

// Config holds Selector construction options.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Selector default configuration.
func DefaultConfig() *Config {
	return &Config{Logger: log.New(log.Writer(), "[QuorumSelector] ", log.LstdFlags)}
}

// NewSelector builds a Selector backed by set.
func NewSelector(set EligibleSet, cfg *Config) (*Selector, error) {
	if set == nil {
		return nil, ErrNilEligibleSet
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[QuorumSelector] ", log.LstdFlags)
	}
	return &Selector{set: set, logger: cfg.Logger}, nil
}

// Select implements §4.5: sort the eligible set by address, draw
// min(Size, |V|) indices with the seeded PRNG without replacement. If
// |V| < Size, it returns ErrUndersubscribed alongside the full set V so the
// caller can route the session directly to DisputeAuthority (C9).
func (s *Selector) Select(txHash [32]byte, blockHeight uint32) ([]address.Address, error) {
	v, err := s.set.EligibleValidators(uint64(blockHeight), ActiveWindowBlocks)
	if err != nil {
		return nil, fmt.Errorf("quorum: list eligible validators: %w", err)
	}
	address.Sort(v)

	if len(v) < Size {
		return v, fmt.Errorf("%w: have %d, need %d", ErrUndersubscribed, len(v), Size)
	}

	seed := rngseed.Seed(txHash, blockHeight)
	draw := rngseed.New(seed).SampleWithoutReplacement(len(v), Size)

	quorum := make([]address.Address, len(draw))
	for i, idx := range draw {
		quorum[i] = v[idx]
	}
	return quorum, nil
}
