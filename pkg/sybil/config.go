// Copyright 2025 Certen Protocol

package sybil

import "log"

// Config holds Guard construction options: the in-session timing window,
// the §4.8(a) cluster-concentration floor, and the saturation scales used
// to normalise NetworkRiskInputs into the [0,1] weighted sum.
type Config struct {
	// MinConcentratedResponders is the §4.8(a) "≥3 responders belong to
	// one significant cluster" floor.
	MinConcentratedResponders int

	// IdenticalVoteTimingFraction is the §4.8(b) "≥50%" floor.
	IdenticalVoteTimingFraction float64

	// ReputationStdDevCeiling is the §4.8(c) "<0.1" ceiling, reused as the
	// network-risk reputation-clustering saturation scale.
	ReputationStdDevCeiling float64

	// TimingWindowSeconds is the §4.8(b)/(d) "within 1 s" window.
	TimingWindowSeconds int64

	// ClusterSizeScale, ClusterAgeScale and FraudEventScale are the
	// member-count / block-age / event-count values at which their
	// respective network-risk subscore saturates to 1.0. The spec fixes
	// the five risk weights but not these scales; chosen here so a
	// cluster at ClusterDetector's own "significant" floor (5 members,
	// §4.3) contributes a meaningful but sub-saturating size score, and a
	// cluster pinned by BehaviorMetrics's fraud ceiling (5 events, §4.2)
	// saturates the fraud-history subscore.
	ClusterSizeScale  float64
	ClusterAgeScale   float64
	FraudEventScale   float64

	Logger *log.Logger
}

// DefaultConfig returns SybilGuard's default configuration.
func DefaultConfig() *Config {
	return &Config{
		MinConcentratedResponders:   3,
		IdenticalVoteTimingFraction: 0.5,
		ReputationStdDevCeiling:     0.1,
		TimingWindowSeconds:         1,
		ClusterSizeScale:            20,
		ClusterAgeScale:             50000,
		FraudEventScale:             5,
		Logger:                      log.New(log.Writer(), "[SybilGuard] ", log.LstdFlags),
	}
}
