// Copyright 2025 Certen Protocol
//
// GossipRouter (C11) relays the five validation message kinds across the
// network exactly once per first-seen digest, verifies signatures, scores
// misbehaviour, and enforces a per-validator rolling rate limit.

package gossip

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

// Router is C11 GossipRouter.
type Router struct {
	mu sync.Mutex

	digestSets   map[wire.Kind]*digestSet
	responseSeen *sessionSeenSet

	rateWindow time.Duration
	rateMax    int
	rateLog    map[address.Address][]time.Time

	validatorPeer map[address.Address]address.Address

	misbehaviourResponse int
	misbehaviourDispute  int

	broadcaster  Broadcaster
	misbehaviour MisbehaviourStore
	logger       *log.Logger
}

// NewRouter builds a Router. misbehaviour may be nil, in which case
// misbehaviour points are logged but not persisted.
func NewRouter(broadcaster Broadcaster, misbehaviour MisbehaviourStore, cfg *Config) (*Router, error) {
	if broadcaster == nil {
		return nil, ErrNilBroadcaster
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[GossipRouter] ", log.LstdFlags)
	}

	r := &Router{
		digestSets: map[wire.Kind]*digestSet{
			wire.KindChallenge:   newDigestSet(cfg.MaxSeenDigests),
			wire.KindAttestation: newDigestSet(cfg.MaxSeenDigests),
			wire.KindDispute:     newDigestSet(cfg.MaxSeenDigests),
			wire.KindResolution:  newDigestSet(cfg.MaxSeenDigests),
		},
		responseSeen:  newSessionSeenSet(cfg.MaxSeenSessions),
		rateWindow:    cfg.RateLimitWindow,
		rateMax:       cfg.RateLimitMax,
		rateLog:       make(map[address.Address][]time.Time),
		validatorPeer: make(map[address.Address]address.Address),
		broadcaster:   broadcaster,
		misbehaviour:  misbehaviour,
		logger:        cfg.Logger,
	}
	r.misbehaviourResponse = cfg.MisbehaviourResponse
	r.misbehaviourDispute = cfg.MisbehaviourDispute
	return r, nil
}

func (r *Router) withMisbehaviourPoints(kind wire.Kind) int {
	switch kind {
	case wire.KindResponse:
		return r.misbehaviourResponse
	case wire.KindDispute:
		return r.misbehaviourDispute
	default:
		return 0
	}
}

// SetValidatorPeer records a validator→peer mapping for targeted Challenge
// delivery (§4.11 "targeted vs. broadcast send").
func (r *Router) SetValidatorPeer(validator, peer address.Address) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validatorPeer[validator] = peer
}

// SendChallenge delivers a Challenge to validator directly if a peer
// mapping is known, else falls back to flooding the network.
func (r *Router) SendChallenge(validator address.Address, payload []byte) error {
	r.mu.Lock()
	peer, targeted := r.validatorPeer[validator]
	r.mu.Unlock()

	if targeted {
		return r.broadcaster.SendTo(peer, wire.KindChallenge, payload)
	}
	return r.broadcaster.Broadcast(wire.KindChallenge, payload, address.Address{})
}

// IngestResult reports what Ingest decided.
type IngestResult int

const (
	IngestRelayed IngestResult = iota
	IngestDuplicate
	IngestRateLimited
	IngestInvalidSignature
)

// Ingest applies §4.11's relay rule to an inbound message from "from",
// keyed by digest (the content-address for Challenge/Dispute/Resolution,
// or the attestation digest for Attestation; for Response, digest is the
// session's tx_hash and validator identifies the responder within it).
func (r *Router) Ingest(from address.Address, kind wire.Kind, digest [32]byte, validator address.Address, payload []byte, sigValid bool) (IngestResult, error) {
	if r.rateLimited(from) {
		r.logger.Printf("dropping message from %s: rate limit exceeded", from.Hex())
		return IngestRateLimited, nil
	}

	if !sigValid {
		points := r.withMisbehaviourPoints(kind)
		if points > 0 && r.misbehaviour != nil {
			if err := r.misbehaviour.IncrementMisbehaviour(from, points); err != nil {
				return IngestInvalidSignature, fmt.Errorf("gossip: record misbehaviour for %s: %w", from.Hex(), err)
			}
		}
		r.logger.Printf("dropping message from %s: invalid signature (+%d misbehaviour)", from.Hex(), points)
		return IngestInvalidSignature, nil
	}

	if r.alreadySeen(kind, digest, validator) {
		return IngestDuplicate, nil
	}

	if err := r.broadcaster.Broadcast(kind, payload, from); err != nil {
		return IngestRelayed, fmt.Errorf("gossip: relay %s: %w", kind, err)
	}
	return IngestRelayed, nil
}

func (r *Router) alreadySeen(kind wire.Kind, digest [32]byte, validator address.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if kind == wire.KindResponse {
		return r.responseSeen.seen(digest, validator)
	}
	set, ok := r.digestSets[kind]
	if !ok {
		return false
	}
	return set.seen(digest)
}

// rateLimited implements §4.11's "100 messages per rolling 60 s window"
// cap: a windowed counter, not a token bucket - timestamps older than the
// window are pruned on every check rather than refilling a budget.
func (r *Router) rateLimited(validator address.Address) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-r.rateWindow)
	history := r.rateLog[validator]

	pruned := history[:0]
	for _, ts := range history {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= r.rateMax {
		r.rateLog[validator] = pruned
		return true
	}
	r.rateLog[validator] = append(pruned, now)
	return false
}
