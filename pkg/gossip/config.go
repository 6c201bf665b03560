// Copyright 2025 Certen Protocol

package gossip

import (
	"log"
	"time"
)

// Config holds Router construction options, per §4.11.
type Config struct {
	// MaxSeenDigests is the LRU capacity for Challenge/Attestation/Dispute/
	// Resolution seen-sets.
	MaxSeenDigests int

	// MaxSeenSessions is the LRU capacity (in sessions, not responses) for
	// the Response seen-set.
	MaxSeenSessions int

	// RateLimitWindow and RateLimitMax implement the per-validator rolling
	// message cap.
	RateLimitWindow time.Duration
	RateLimitMax    int

	// MisbehaviourResponse and MisbehaviourDispute are the penalty points
	// added to a peer's misbehaviour score on an invalid signature.
	MisbehaviourResponse int
	MisbehaviourDispute  int

	Logger *log.Logger
}

// DefaultConfig returns the §4.11/§6 default gossip configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxSeenDigests:       10000,
		MaxSeenSessions:      1000,
		RateLimitWindow:      60 * time.Second,
		RateLimitMax:         100,
		MisbehaviourResponse: 20,
		MisbehaviourDispute:  10,
		Logger:               log.New(log.Writer(), "[GossipRouter] ", log.LstdFlags),
	}
}
