// Copyright 2025 Certen Protocol

package sybil

import (
	"log"
	"math"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/cluster"
	"github.com/certen-trust/reputation-core/pkg/session"
)

// Guard is C8 SybilGuard.
type Guard struct {
	cfg    *Config
	logger *log.Logger
}

// NewGuard builds a Guard from cfg, or DefaultConfig if cfg is nil.
func NewGuard(cfg *Config) *Guard {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[SybilGuard] ", log.LstdFlags)
	}
	return &Guard{cfg: cfg, logger: cfg.Logger}
}

// ClusterLookup resolves the significant-cluster membership of a validator
// address, as maintained by ClusterDetector (C3).
type ClusterLookup func(address.Address) (cluster.Cluster, bool)

// InSessionCheck implements §4.8(a-d): the coordinated-manipulation checks
// run against one session's response set.
func (g *Guard) InSessionCheck(responses []session.Response, reputations map[address.Address]float64, lookup ClusterLookup) (InSessionResult, error) {
	if len(responses) == 0 {
		return InSessionResult{}, ErrNoResponses
	}

	var flags []InSessionFlag

	if g.clusterConcentrated(responses, lookup) {
		flags = append(flags, FlagClusterConcentration)
	}
	if g.identicalVoteTiming(responses) {
		flags = append(flags, FlagIdenticalVoteTiming)
	}
	if g.reputationClustered(responses, reputations) {
		flags = append(flags, FlagReputationClustering)
	}
	if g.synchronisedTiming(responses) {
		flags = append(flags, FlagSynchronisedTiming)
	}

	result := InSessionResult{Flags: flags, RequiresDispute: len(flags) > 0}
	if result.RequiresDispute {
		g.logger.Printf("session flagged: %v", flags)
	}
	return result, nil
}

// clusterConcentrated implements §4.8(a): ≥MinConcentratedResponders
// responders belong to one significant cluster.
func (g *Guard) clusterConcentrated(responses []session.Response, lookup ClusterLookup) bool {
	if lookup == nil {
		return false
	}
	counts := make(map[int]int)
	for _, r := range responses {
		c, ok := lookup(r.Validator)
		if !ok || !c.Significant() {
			continue
		}
		counts[c.ID]++
	}
	for _, n := range counts {
		if n >= g.cfg.MinConcentratedResponders {
			return true
		}
	}
	return false
}

// identicalVoteTiming implements §4.8(b): ≥IdenticalVoteTimingFraction of
// responders share a vote and arrive within the timing window of one
// another.
func (g *Guard) identicalVoteTiming(responses []session.Response) bool {
	byVote := make(map[session.Vote][]int64)
	for _, r := range responses {
		byVote[r.Vote] = append(byVote[r.Vote], r.Timestamp)
	}
	total := float64(len(responses))
	for _, timestamps := range byVote {
		if float64(len(timestamps))/total < g.cfg.IdenticalVoteTimingFraction {
			continue
		}
		if withinWindow(timestamps, g.cfg.TimingWindowSeconds) {
			return true
		}
	}
	return false
}

// reputationClustered implements §4.8(c): stdev of responders' reputations
// below the configured ceiling.
func (g *Guard) reputationClustered(responses []session.Response, reputations map[address.Address]float64) bool {
	if reputations == nil {
		return false
	}
	values := make([]float64, 0, len(responses))
	for _, r := range responses {
		if rep, ok := reputations[r.Validator]; ok {
			values = append(values, rep)
		}
	}
	if len(values) < 2 {
		return false
	}
	return populationStdDev(values) < g.cfg.ReputationStdDevCeiling
}

// synchronisedTiming implements §4.8(d): every response in the session
// arrives within the timing window.
func (g *Guard) synchronisedTiming(responses []session.Response) bool {
	timestamps := make([]int64, len(responses))
	for i, r := range responses {
		timestamps[i] = r.Timestamp
	}
	return withinWindow(timestamps, g.cfg.TimingWindowSeconds)
}

// NetworkRisk implements §4.8's weighted network-wide risk score and its
// alert/autopenalty action points.
func (g *Guard) NetworkRisk(inputs NetworkRiskInputs) RiskResult {
	sizeScore := clamp01(float64(inputs.ClusterMemberCount) / g.cfg.ClusterSizeScale)
	ageScore := clamp01(float64(inputs.ClusterAgeBlocks) / g.cfg.ClusterAgeScale)
	patternScore := clamp01(inputs.PatternRegularity)
	reputationClusteringScore := 1 - clamp01(inputs.ReputationStdDev/g.cfg.ReputationStdDevCeiling)
	fraudScore := clamp01(float64(inputs.FraudEventCount) / g.cfg.FraudEventScale)

	risk := 0.25*sizeScore + 0.20*ageScore + 0.20*patternScore + 0.20*reputationClusteringScore + 0.15*fraudScore

	result := RiskResult{Score: risk}
	if risk >= RiskAlertThreshold {
		result.Alert = true
	}
	if risk >= RiskAutopenaltyThreshold {
		result.Autopenalty = true
		g.logger.Printf("autopenalty risk reached: score=%.3f", risk)
	}
	return result
}

func withinWindow(timestamps []int64, windowSeconds int64) bool {
	if len(timestamps) == 0 {
		return true
	}
	min, max := timestamps[0], timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts < min {
			min = ts
		}
		if ts > max {
			max = ts
		}
	}
	return max-min <= windowSeconds
}

func populationStdDev(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	return math.Sqrt(sqDiff / float64(len(values)))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
