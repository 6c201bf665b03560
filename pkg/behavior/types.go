// Copyright 2025 Certen Protocol
//
// BehaviorMetrics (C2) records fraud events per address and derives the
// fraud_score factor consumed by TrustScorer's behaviour component.

package behavior

// Metrics is the persisted per-address record of §3 "BehaviorMetrics".
// fraud_score is deliberately not a stored field: the invariant defines it
// as derived deterministically from fraud_count and last_fraud_height at
// query time (§3), so Score computes it fresh rather than risking a stale
// persisted value drifting from the rule as blocks pass.
type Metrics struct {
	FraudCount        int      `json:"fraud_count"`
	LastFraudHeight   uint64   `json:"last_fraud_height"`
	TotalFraudPenalty int      `json:"total_fraud_penalty"`
	FraudTxHashes     [][32]byte `json:"fraud_tx_hashes"`
}

// baseFraudScore implements the §3 step table keyed on recorded fraud count.
func baseFraudScore(fraudCount int) float64 {
	switch {
	case fraudCount <= 0:
		return 1.0
	case fraudCount == 1:
		return 0.7
	case fraudCount == 2:
		return 0.5
	case fraudCount <= 4:
		return 0.3
	default:
		return 0.0
	}
}

// Score computes fraud_score at currentHeight per §3's invariant: the step
// table above, multiplied by a recovery factor of
// min(2.0, 1 + 0.1*floor((height-last_fraud)/10000)), with 5+ fraud events
// permanently pinning the result to 0 regardless of elapsed height.
func (m *Metrics) Score(currentHeight uint64) float64 {
	if m == nil {
		return 1.0
	}
	if m.FraudCount >= 5 {
		return 0.0
	}
	base := baseFraudScore(m.FraudCount)
	if base == 0 {
		return 0
	}

	var elapsed uint64
	if currentHeight > m.LastFraudHeight {
		elapsed = currentHeight - m.LastFraudHeight
	}
	recovery := 1.0 + 0.1*float64(elapsed/10000)
	if recovery > 2.0 {
		recovery = 2.0
	}

	score := base * recovery
	if score > 1.0 {
		score = 1.0
	}
	return score
}
