package sybil

import (
	"testing"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/cluster"
	"github.com/certen-trust/reputation-core/pkg/session"
)

func addr(b byte) address.Address {
	var a address.Address
	a[19] = b
	return a
}

func TestInSessionCheckNoResponsesErrors(t *testing.T) {
	g := NewGuard(nil)
	if _, err := g.InSessionCheck(nil, nil, nil); err != ErrNoResponses {
		t.Fatalf("expected ErrNoResponses, got %v", err)
	}
}

func TestClusterConcentrationFlagsS2(t *testing.T) {
	g := NewGuard(nil)

	members := make([]address.Address, 8)
	for i := range members {
		members[i] = addr(byte(i + 1))
	}
	sybilCluster := cluster.Cluster{ID: 1, Members: members, Confidence: 0.8}

	responses := make([]session.Response, 0, 10)
	for i := 0; i < 8; i++ {
		responses = append(responses, session.Response{Validator: members[i], Vote: session.VoteAccept, Timestamp: 1000})
	}
	responses = append(responses, session.Response{Validator: addr(100), Vote: session.VoteReject, Timestamp: 1000})
	responses = append(responses, session.Response{Validator: addr(101), Vote: session.VoteReject, Timestamp: 1000})

	lookup := func(a address.Address) (cluster.Cluster, bool) {
		for _, m := range sybilCluster.Members {
			if m == a {
				return sybilCluster, true
			}
		}
		return cluster.Cluster{}, false
	}

	result, err := g.InSessionCheck(responses, nil, lookup)
	if err != nil {
		t.Fatalf("InSessionCheck: %v", err)
	}
	if !result.RequiresDispute {
		t.Fatalf("expected S2-shaped session to require dispute, got %+v", result)
	}
	if !result.flagged(FlagClusterConcentration) {
		t.Fatalf("expected FlagClusterConcentration, got %v", result.Flags)
	}
	if !result.flagged(FlagIdenticalVoteTiming) {
		t.Fatalf("expected FlagIdenticalVoteTiming, got %v", result.Flags)
	}
}

func TestInSessionCheckCleanQuorumNoFlags(t *testing.T) {
	g := NewGuard(nil)
	responses := []session.Response{
		{Validator: addr(1), Vote: session.VoteAccept, Timestamp: 1000},
		{Validator: addr(2), Vote: session.VoteAccept, Timestamp: 1004},
		{Validator: addr(3), Vote: session.VoteReject, Timestamp: 1009},
		{Validator: addr(4), Vote: session.VoteAccept, Timestamp: 1015},
		{Validator: addr(5), Vote: session.VoteAccept, Timestamp: 1021},
	}
	reputations := map[address.Address]float64{
		addr(1): 0.2, addr(2): 0.9, addr(3): 0.5, addr(4): 0.1, addr(5): 0.95,
	}
	result, err := g.InSessionCheck(responses, reputations, nil)
	if err != nil {
		t.Fatalf("InSessionCheck: %v", err)
	}
	if result.RequiresDispute {
		t.Fatalf("expected clean quorum to produce no flags, got %v", result.Flags)
	}
}

func TestReputationClusteringFlag(t *testing.T) {
	g := NewGuard(nil)
	responses := []session.Response{
		{Validator: addr(1), Vote: session.VoteAccept, Timestamp: 1000},
		{Validator: addr(2), Vote: session.VoteReject, Timestamp: 5000},
		{Validator: addr(3), Vote: session.VoteAbstain, Timestamp: 9000},
	}
	reputations := map[address.Address]float64{
		addr(1): 0.50, addr(2): 0.51, addr(3): 0.49,
	}
	result, err := g.InSessionCheck(responses, reputations, nil)
	if err != nil {
		t.Fatalf("InSessionCheck: %v", err)
	}
	if !result.flagged(FlagReputationClustering) {
		t.Fatalf("expected FlagReputationClustering, got %v", result.Flags)
	}
}

func TestSynchronisedTimingFlag(t *testing.T) {
	g := NewGuard(nil)
	responses := []session.Response{
		{Validator: addr(1), Vote: session.VoteAccept, Timestamp: 1000},
		{Validator: addr(2), Vote: session.VoteReject, Timestamp: 1000},
		{Validator: addr(3), Vote: session.VoteAbstain, Timestamp: 1001},
	}
	result, err := g.InSessionCheck(responses, nil, nil)
	if err != nil {
		t.Fatalf("InSessionCheck: %v", err)
	}
	if !result.flagged(FlagSynchronisedTiming) {
		t.Fatalf("expected FlagSynchronisedTiming, got %v", result.Flags)
	}
}

func TestNetworkRiskAlertAndAutopenaltyThresholds(t *testing.T) {
	g := NewGuard(nil)

	below := g.NetworkRisk(NetworkRiskInputs{ClusterMemberCount: 2, ClusterAgeBlocks: 100, PatternRegularity: 0.1, ReputationStdDev: 0.08, FraudEventCount: 0})
	if below.Alert || below.Autopenalty {
		t.Fatalf("expected low-signal inputs to stay below alert, got %+v", below)
	}

	alerting := g.NetworkRisk(NetworkRiskInputs{ClusterMemberCount: 20, ClusterAgeBlocks: 50000, PatternRegularity: 1.0, ReputationStdDev: 0.0, FraudEventCount: 1})
	if !alerting.Alert {
		t.Fatalf("expected high-signal inputs to alert, got %+v", alerting)
	}

	saturating := g.NetworkRisk(NetworkRiskInputs{ClusterMemberCount: 40, ClusterAgeBlocks: 100000, PatternRegularity: 1.0, ReputationStdDev: 0.0, FraudEventCount: 10})
	if !saturating.Autopenalty {
		t.Fatalf("expected fully-saturated inputs to trigger autopenalty, got %+v", saturating)
	}
}

func TestAutopenaltyTargetsEmptyWhenNotTriggered(t *testing.T) {
	members := []address.Address{addr(1), addr(2)}
	if got := AutopenaltyTargets(RiskResult{Autopenalty: false}, members); got != nil {
		t.Fatalf("expected nil targets when autopenalty not triggered, got %v", got)
	}
	got := AutopenaltyTargets(RiskResult{Autopenalty: true}, members)
	if len(got) != len(members) {
		t.Fatalf("expected %d targets, got %d", len(members), len(got))
	}
}
