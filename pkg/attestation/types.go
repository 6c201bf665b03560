// Copyright 2025 Certen Protocol
//
// AttestationService (C4) collects per-subject attestations from randomly
// selected attestors and aggregates them into a CompositeEligibility used
// by QuorumSelector to decide who may validate.

package attestation

import (
	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/trust"
)

// Announce is the subject's self-reported objective metrics broadcast to
// kick off the attestation protocol (§4.4 step 1).
type Announce struct {
	Subject   address.Address       `json:"subject"`
	Metrics   trust.OnChainMetrics  `json:"metrics"`
	Timestamp int64                 `json:"timestamp"`
	Nonce     [32]byte              `json:"nonce"`
	Signature []byte                `json:"signature"`
}

// Attestation is the gossiped, persisted per-attestor opinion of §3.
type Attestation struct {
	Subject            address.Address `json:"subject"`
	Attestor           address.Address `json:"attestor"`
	SubjectClaimDigest [32]byte        `json:"subject_claim_digest"`

	StakeOK    bool `json:"stake_ok"`
	HistoryOK  bool `json:"history_ok"`
	NetworkOK  bool `json:"network_ok"`
	BehaviorOK bool `json:"behavior_ok"`

	TrustScore         trust.Score `json:"trust_score"`
	Confidence         float64     `json:"confidence"`
	AttestorReputation int         `json:"attestor_reputation"`

	Timestamp int64    `json:"timestamp"`
	Nonce     [32]byte `json:"nonce"`
	Signature []byte   `json:"signature"`
}

// Digest identifies this attestation for gossip seen-sets and persistence
// keying (prefix "A").
func (a Attestation) Digest() [32]byte {
	return digestAttestation(a)
}

// CompositeEligibility is the derived, cached aggregate of §3.
type CompositeEligibility struct {
	Subject address.Address `json:"subject"`

	StakeOK    bool `json:"stake_ok"`
	HistoryOK  bool `json:"history_ok"`
	NetworkOK  bool `json:"network_ok"`
	BehaviorOK bool `json:"behavior_ok"`

	AvgTrust         float64 `json:"avg_trust"`
	TrustVariance    float64 `json:"trust_variance"`
	AttestationCount int     `json:"attestation_count"`
	Eligible         bool    `json:"eligible"`

	// Cache provenance, consulted by isStale to implement the §4.4
	// tolerance policy (10% stake change, 20% tx-count change, 10000 blocks).
	CachedAtHeight uint64  `json:"cached_at_height"`
	CachedStake    float64 `json:"cached_stake"`
	CachedTxCount  uint64  `json:"cached_tx_count"`
}

// isStale implements §4.4's cache invalidation tolerance.
func (e *CompositeEligibility) isStale(currentHeight uint64, currentStake float64, currentTxCount uint64, maxAgeBlocks uint64) bool {
	if e == nil {
		return true
	}
	if currentHeight >= e.CachedAtHeight+maxAgeBlocks {
		return true
	}
	if e.CachedStake > 0 {
		delta := absFloat(currentStake-e.CachedStake) / e.CachedStake
		if delta >= 0.10 {
			return true
		}
	} else if currentStake > 0 {
		return true
	}
	if e.CachedTxCount > 0 {
		delta := float64(absInt64(int64(currentTxCount)-int64(e.CachedTxCount))) / float64(e.CachedTxCount)
		if delta >= 0.20 {
			return true
		}
	} else if currentTxCount > 0 {
		return true
	}
	return false
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func absInt64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
