// Copyright 2025 Certen Protocol
//
// ClusterDetector (C3) groups addresses suspected of common ownership using
// standard heuristics - common-input, change-output linking, and
// address-reuse - and exposes per-address membership with a confidence
// score, consumed by SybilGuard (C8) and TrustScorer's behaviour factor.

package cluster

import "github.com/certen-trust/reputation-core/pkg/address"

// MinSignificantMembers and MinSignificantConfidence implement the §4.3
// "significant cluster" rule.
const (
	MinSignificantMembers   = 5
	MinSignificantConfidence = 0.6
)

// Cluster is the ephemeral index entry of §3 "Cluster": a set of addresses
// deemed co-owned, plus a confidence score and simple aggregate metrics.
type Cluster struct {
	ID         int                 `json:"id"`
	Members    []address.Address   `json:"members"`
	Confidence float64             `json:"confidence"`
}

// Significant reports whether this cluster meets the §4.3 threshold for
// being treated as a coordinated actor by SybilGuard.
func (c Cluster) Significant() bool {
	return len(c.Members) >= MinSignificantMembers && c.Confidence >= MinSignificantConfidence
}
