// Copyright 2025 Certen Protocol
//
// SybilGuard (C8) flags coordinated manipulation within a single session
// and computes a network-wide risk score from the inputs it is given on
// each call (it keeps no per-address state), driving alerts and
// autopenalties per §4.8.

package sybil

import "github.com/certen-trust/reputation-core/pkg/address"

// RiskAlertThreshold and RiskAutopenaltyThreshold are the §4.8 network-risk
// action points.
const (
	RiskAlertThreshold      = 0.7
	RiskAutopenaltyThreshold = 0.9
)

// AutopenaltyReputationDelta is applied to every member of an autopenalised
// cluster, per §4.8.
const AutopenaltyReputationDelta = -50

// FraudReasonSybil tags the fraud events C10 records for autopenalised
// cluster members.
const FraudReasonSybil = "sybil"

// InSessionFlag names one of the §4.8(a-d) coordinated-pattern checks.
type InSessionFlag string

const (
	FlagClusterConcentration InSessionFlag = "cluster_concentration"
	FlagIdenticalVoteTiming  InSessionFlag = "identical_vote_timing"
	FlagReputationClustering InSessionFlag = "reputation_clustering"
	FlagSynchronisedTiming   InSessionFlag = "synchronised_timing"
)

// InSessionResult is the outcome of checking one session's responses for
// coordinated manipulation.
type InSessionResult struct {
	Flags           []InSessionFlag
	RequiresDispute bool
}

func (r InSessionResult) flagged(f InSessionFlag) bool {
	for _, have := range r.Flags {
		if have == f {
			return true
		}
	}
	return false
}

// NetworkRiskInputs are the raw per-address signals feeding the §4.8
// weighted network-risk score. Each field is the unnormalised measurement;
// Guard.NetworkRisk saturates them against Config's scale constants.
type NetworkRiskInputs struct {
	ClusterMemberCount int
	ClusterAgeBlocks   uint64
	PatternRegularity  float64 // already normalised [0,1]: fraction of this address's sessions showing synchronised timing
	ReputationStdDev   float64 // stdev of the address's cluster's reputations, [0,1] scale
	FraudEventCount    int
}

// RiskResult is the outcome of a network-wide risk evaluation for one
// address (or cluster, when evaluated for cluster members collectively).
type RiskResult struct {
	Score       float64
	Alert       bool
	Autopenalty bool
}

// AutopenaltyTargets reports which addresses should receive the §4.8
// autopenalty, given a triggering RiskResult and the cluster membership it
// was computed for.
func AutopenaltyTargets(result RiskResult, clusterMembers []address.Address) []address.Address {
	if !result.Autopenalty {
		return nil
	}
	out := make([]address.Address, len(clusterMembers))
	copy(out, clusterMembers)
	return out
}
