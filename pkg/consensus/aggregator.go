// Copyright 2025 Certen Protocol
//
// ConsensusAggregator (C7) turns a ValidationSession's response set into a
// verdict, and exposes the per-component tolerance check each validator
// runs before casting its own vote.

package consensus

import (
	"github.com/certen-trust/reputation-core/pkg/session"
	"github.com/certen-trust/reputation-core/pkg/trust"
)

// MinResponses is the §4.7 response floor below which no consensus can be
// reached regardless of vote split.
const MinResponses = 10

// AcceptanceThreshold and DisputeThreshold mirror §6's defaults; callers
// that load pkg/config may override via AggregateWithThresholds.
const (
	AcceptanceThreshold = 0.70
	DisputeThreshold    = 0.30
)

// Verdict is the derived ConsensusVerdict of §3.
type Verdict struct {
	AcceptRate      float64
	RejectRate      float64
	Consensus       bool
	RequiresDispute bool
	DecidedVote     session.Vote
}

// weight implements §4.7: (has_wot ? 1.0 : 0.5) · vote_confidence.
func weight(r session.Response) float64 {
	base := 0.5
	if r.HasWoT {
		base = 1.0
	}
	return base * r.VoteConfidence
}

// Aggregate implements §4.7 using the package-default thresholds.
func Aggregate(responses []session.Response) Verdict {
	return AggregateWithThresholds(responses, AcceptanceThreshold, DisputeThreshold)
}

// AggregateWithThresholds implements §4.7 with caller-supplied thresholds,
// for nodes running pkg/config-loaded values that differ from the §6
// defaults.
func AggregateWithThresholds(responses []session.Response, acceptanceThreshold, disputeThreshold float64) Verdict {
	if len(responses) < MinResponses {
		return Verdict{RequiresDispute: true}
	}

	var accept, reject, abstain float64
	for _, r := range responses {
		w := weight(r)
		switch r.Vote {
		case session.VoteAccept:
			accept += w
		case session.VoteReject:
			reject += w
		default:
			abstain += w
		}
	}
	total := accept + reject + abstain
	if total == 0 {
		return Verdict{RequiresDispute: true}
	}

	acceptRate := accept / total
	rejectRate := reject / total

	v := Verdict{AcceptRate: acceptRate, RejectRate: rejectRate}
	switch {
	case acceptRate >= acceptanceThreshold:
		v.Consensus = true
		v.DecidedVote = session.VoteAccept
	case rejectRate >= disputeThreshold:
		// §4.7: "no consensus, dispute" - but the reject-weight threshold
		// was met, so the verdict records a reject-leaning DecidedVote
		// (distinct from the fully inconclusive case below); the session
		// itself still moves to Disputed and is routed to DisputeAuthority.
		v.RequiresDispute = true
		v.DecidedVote = session.VoteReject
	default:
		v.RequiresDispute = true
		v.DecidedVote = session.VoteAbstain
	}
	return v
}

// componentTolerance is the §4.7 "per-component check" bound: behavior,
// economic and temporal must agree within ±0.03; WoT within ±0.05.
const (
	toleranceDefault = 0.03
	toleranceWoT     = 0.05
)

// VoteForClaim implements each validator's own per-component check before
// it casts a vote: every component within tolerance of the sender's
// self-reported claim yields ACCEPT; any single component outside
// tolerance yields REJECT. A validator without a WoT path skips the WoT
// component entirely, per §4.7. sufficientData reports whether the
// validator could actually compute a comparable score for the sender (a
// chain scan that can't yet see the sender's on-chain history, for
// example); when it can't, the validator has no basis to accept or
// reject and must ABSTAIN rather than guess.
func VoteForClaim(claimed, computed trust.Score, hasWoT, sufficientData bool) session.Vote {
	if !sufficientData {
		return session.VoteAbstain
	}
	if outOfTolerance(claimed.Behavior, computed.Behavior, toleranceDefault) {
		return session.VoteReject
	}
	if outOfTolerance(claimed.Economic, computed.Economic, toleranceDefault) {
		return session.VoteReject
	}
	if outOfTolerance(claimed.Temporal, computed.Temporal, toleranceDefault) {
		return session.VoteReject
	}
	if hasWoT && outOfTolerance(claimed.WoT, computed.WoT, toleranceWoT) {
		return session.VoteReject
	}
	return session.VoteAccept
}

func outOfTolerance(a, b, tolerance float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > tolerance
}
