package trust

import "github.com/certen-trust/reputation-core/pkg/address"

// OnChainMetrics are the objective, on-chain-observable inputs to the
// economic and temporal components. Every field is derivable by any node
// scanning the chain, so a score built only from these (plus BehaviorStats)
// is safe for consensus-critical arithmetic (§9 design note).
type OnChainMetrics struct {
	StakeAmount          float64
	StakeAgeBlocks       uint64
	AccountAgeBlocks     uint64
	BlocksSinceLastTx    uint64
	DistinctCounterparts uint64
	TxCount              uint64
}

// BehaviorStats feeds the behaviour component alongside C2's fraud_score.
// DiversityCount and VolumeCount are typically sourced from the same
// on-chain scan as OnChainMetrics; TemporalRegularity is a regularity score
// in [0,1] (1.0 = perfectly regular activity) supplied by the caller, since
// its derivation is chain-specific and outside this core's scope.
type BehaviorStats struct {
	DiversityCount uint64
	VolumeCount    uint64
	TemporalRegularity float64
	FraudScore     float64 // C2's current fraud_score for the subject
}

// WoTGraph resolves an observer's bonded trust edges for propagation.
// Implementations are expected to be backed by a validator-bond registry
// external to this core; the package only performs the bounded traversal.
type WoTGraph interface {
	// Edges returns the outgoing bonded trust edges from addr, each a
	// destination address and a weight in [0,1].
	Edges(addr address.Address) []Edge
}

// Edge is one bonded trust relationship in the WoT graph.
type Edge struct {
	To     address.Address
	Weight float64
}
