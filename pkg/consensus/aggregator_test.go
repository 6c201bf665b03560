package consensus

import (
	"testing"

	"github.com/certen-trust/reputation-core/pkg/session"
	"github.com/certen-trust/reputation-core/pkg/trust"
)

func acceptResponses(n int, hasWoT bool, confidence float64) []session.Response {
	out := make([]session.Response, n)
	for i := range out {
		out[i] = session.Response{Vote: session.VoteAccept, HasWoT: hasWoT, VoteConfidence: confidence}
	}
	return out
}

func TestAggregateHappyPathS1(t *testing.T) {
	v := Aggregate(acceptResponses(10, true, 0.9))
	if !v.Consensus || v.DecidedVote != session.VoteAccept {
		t.Fatalf("expected accept consensus, got %+v", v)
	}
	if v.AcceptRate != 1.0 {
		t.Fatalf("AcceptRate = %v, want 1.0", v.AcceptRate)
	}
}

func TestAggregateBelowMinResponses(t *testing.T) {
	v := Aggregate(acceptResponses(6, true, 0.9))
	if !v.RequiresDispute || v.Consensus {
		t.Fatalf("expected dispute with fewer than %d responses, got %+v", MinResponses, v)
	}
}

func TestAggregateNonWoTAcceptanceS4(t *testing.T) {
	responses := acceptResponses(8, true, 1.0)
	responses = append(responses, session.Response{Vote: session.VoteAccept, HasWoT: false, VoteConfidence: 1.0})
	responses = append(responses, session.Response{Vote: session.VoteAccept, HasWoT: true, VoteConfidence: 1.0})
	v := Aggregate(responses)
	if !v.Consensus {
		t.Fatalf("expected consensus accept in S4 scenario, got %+v", v)
	}
}

func TestAggregateSybilRejectionS2(t *testing.T) {
	responses := make([]session.Response, 0, 10)
	for i := 0; i < 8; i++ {
		responses = append(responses, session.Response{Vote: session.VoteAccept, HasWoT: true, VoteConfidence: 0.8})
	}
	for i := 0; i < 2; i++ {
		responses = append(responses, session.Response{Vote: session.VoteReject, HasWoT: true, VoteConfidence: 0.9})
	}
	v := Aggregate(responses)
	// Accept weight dominates numerically; SybilGuard (C8), not C7 alone,
	// is what raises requires_dispute in this scenario - verified in
	// pkg/sybil's own tests.
	if v.AcceptRate <= 0 {
		t.Fatalf("expected nonzero accept rate, got %+v", v)
	}
}

func TestAggregateRejectThresholdTriggersDispute(t *testing.T) {
	responses := make([]session.Response, 0, 10)
	for i := 0; i < 6; i++ {
		responses = append(responses, session.Response{Vote: session.VoteReject, HasWoT: true, VoteConfidence: 1.0})
	}
	for i := 0; i < 4; i++ {
		responses = append(responses, session.Response{Vote: session.VoteAccept, HasWoT: true, VoteConfidence: 1.0})
	}
	v := Aggregate(responses)
	if !v.RequiresDispute || v.DecidedVote != session.VoteReject {
		t.Fatalf("expected reject-leaning dispute, got %+v", v)
	}
}

func TestVoteForClaimWithinTolerance(t *testing.T) {
	claimed := trust.Score{Behavior: 0.80, Economic: 0.50, Temporal: 0.60, WoT: 0.40}
	computed := trust.Score{Behavior: 0.81, Economic: 0.49, Temporal: 0.61, WoT: 0.43}
	if vote := VoteForClaim(claimed, computed, true, true); vote != session.VoteAccept {
		t.Fatalf("expected ACCEPT within tolerance, got %s", vote)
	}
}

func TestVoteForClaimOutOfToleranceRejects(t *testing.T) {
	claimed := trust.Score{Behavior: 0.80}
	computed := trust.Score{Behavior: 0.90}
	if vote := VoteForClaim(claimed, computed, false, true); vote != session.VoteReject {
		t.Fatalf("expected REJECT outside tolerance, got %s", vote)
	}
}

func TestVoteForClaimIgnoresWoTWithoutPath(t *testing.T) {
	claimed := trust.Score{Behavior: 0.5, Economic: 0.5, Temporal: 0.5, WoT: 0.9}
	computed := trust.Score{Behavior: 0.5, Economic: 0.5, Temporal: 0.5, WoT: 0.1}
	if vote := VoteForClaim(claimed, computed, false, true); vote != session.VoteAccept {
		t.Fatalf("expected WoT mismatch to be ignored when hasWoT=false, got %s", vote)
	}
}

func TestVoteForClaimAbstainsWithoutSufficientData(t *testing.T) {
	claimed := trust.Score{Behavior: 0.80, Economic: 0.50, Temporal: 0.60, WoT: 0.40}
	computed := trust.Score{Behavior: 0.80, Economic: 0.50, Temporal: 0.60, WoT: 0.40}
	if vote := VoteForClaim(claimed, computed, true, false); vote != session.VoteAbstain {
		t.Fatalf("expected ABSTAIN without sufficient data, got %s", vote)
	}
}
