// Copyright 2025 Certen Protocol
//
// FraudLedger (C10) builds FraudRecords from decided-reject verdicts,
// tags them into block data via pkg/wire, and applies their penalties.

package fraud

import "github.com/certen-trust/reputation-core/pkg/address"

// Record is the FraudRecord of §4.10, embedded in block data behind the
// FRAUD tag and replayed on chain sync.
type Record struct {
	TxHash            [32]byte        `json:"tx_hash"`
	Fraudster         address.Address `json:"fraudster"`
	ClaimedFinal      int             `json:"claimed_final"`
	ActualFinal       int             `json:"actual_final"`
	ScoreDelta        int             `json:"score_delta"` // |claimed - actual|
	ReputationPenalty int             `json:"reputation_penalty"`
	BondSlashFraction float64         `json:"bond_slash_fraction"`
	BlockHeight       uint64          `json:"block_height"`
	Timestamp         int64           `json:"timestamp"`
	Reason            string          `json:"reason,omitempty"` // e.g. "sybil" (§4.8), empty for ordinary claim-mismatch fraud
}

// NewRecord builds a Record from a decided-reject session's claimed and
// actual trust scores, using penaltyFn (normally *config.Config.SlashFraction)
// for the §4.10 penalty-band lookup.
func NewRecord(txHash [32]byte, fraudster address.Address, claimedFinal, actualFinal int, blockHeight uint64, timestamp int64, penaltyFn func(int) (int, float64)) Record {
	delta := claimedFinal - actualFinal
	if delta < 0 {
		delta = -delta
	}
	penalty, slash := penaltyFn(delta)
	return Record{
		TxHash:            txHash,
		Fraudster:         fraudster,
		ClaimedFinal:      claimedFinal,
		ActualFinal:       actualFinal,
		ScoreDelta:        delta,
		ReputationPenalty: penalty,
		BondSlashFraction: slash,
		BlockHeight:       blockHeight,
		Timestamp:         timestamp,
	}
}
