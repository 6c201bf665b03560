package store

import (
	"testing"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/attestation"
	"github.com/certen-trust/reputation-core/pkg/behavior"
	"github.com/certen-trust/reputation-core/pkg/dispute"
	"github.com/certen-trust/reputation-core/pkg/fraud"
	"github.com/certen-trust/reputation-core/pkg/kvdb"
	"github.com/certen-trust/reputation-core/pkg/session"
)

func addr(b byte) address.Address {
	var a address.Address
	a[19] = b
	return a
}

func newTestStore() *Store {
	return New(kvdb.NewKVAdapter(kvdb.NewMemDB()), nil)
}

func TestBehaviorMetricsRoundTrip(t *testing.T) {
	s := newTestStore()
	a := addr(1)

	if got, err := s.GetBehaviorMetrics(a); err != nil || got != nil {
		t.Fatalf("expected nil for unknown address, got %v, %v", got, err)
	}

	m := &behavior.Metrics{FraudCount: 2, LastFraudHeight: 500, TotalFraudPenalty: 20}
	if err := s.PutBehaviorMetrics(a, m); err != nil {
		t.Fatalf("PutBehaviorMetrics: %v", err)
	}
	got, err := s.GetBehaviorMetrics(a)
	if err != nil || got == nil || got.FraudCount != 2 {
		t.Fatalf("GetBehaviorMetrics: %+v, %v", got, err)
	}
}

func TestAttestationRoundTripAndList(t *testing.T) {
	s := newTestStore()
	subject := addr(1)
	a1 := attestation.Attestation{Subject: subject, Attestor: addr(2), Nonce: [32]byte{1}}
	a2 := attestation.Attestation{Subject: subject, Attestor: addr(3), Nonce: [32]byte{2}}
	other := attestation.Attestation{Subject: addr(9), Attestor: addr(4), Nonce: [32]byte{3}}

	for _, a := range []attestation.Attestation{a1, a2, other} {
		if err := s.PutAttestation(a); err != nil {
			t.Fatalf("PutAttestation: %v", err)
		}
	}

	got, err := s.GetAttestation(a1.Digest())
	if err != nil || got == nil || got.Attestor != a1.Attestor {
		t.Fatalf("GetAttestation: %+v, %v", got, err)
	}

	list, err := s.ListAttestations(subject)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListAttestations: expected 2, got %d, %v", len(list), err)
	}
}

func TestEligibilityRoundTrip(t *testing.T) {
	s := newTestStore()
	e := attestation.CompositeEligibility{Subject: addr(5), Eligible: true, AvgTrust: 60}
	if err := s.PutEligibility(e); err != nil {
		t.Fatalf("PutEligibility: %v", err)
	}
	got, err := s.GetEligibility(addr(5))
	if err != nil || got == nil || !got.Eligible {
		t.Fatalf("GetEligibility: %+v, %v", got, err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestStore()
	snap := session.Snapshot{Request: session.Request{TxHash: [32]byte{7}}, State: session.StateDisputed}
	if err := s.PutSession(snap); err != nil {
		t.Fatalf("PutSession: %v", err)
	}
	got, err := s.GetSession([32]byte{7})
	if err != nil || got == nil || got.State != session.StateDisputed {
		t.Fatalf("GetSession: %+v, %v", got, err)
	}
}

func TestDisputeCaseRoundTrip(t *testing.T) {
	s := newTestStore()
	c := dispute.Case{CaseID: [32]byte{8}, Resolution: dispute.ResolutionPending}
	if err := s.PutCase(&c); err != nil {
		t.Fatalf("PutCase: %v", err)
	}
	got, err := s.GetCase([32]byte{8})
	if err != nil || got == nil {
		t.Fatalf("GetCase: %+v, %v", got, err)
	}
}

func TestFraudRecordReversalByHeight(t *testing.T) {
	s := newTestStore()
	r := &fraud.Record{TxHash: [32]byte{3}, Fraudster: addr(3), BlockHeight: 100}
	if err := s.PutRecord(r); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
	if got, err := s.GetRecord([32]byte{3}); err != nil || got == nil {
		t.Fatalf("GetRecord before reversal: %+v, %v", got, err)
	}

	if err := s.ReverseHeight(100); err != nil {
		t.Fatalf("ReverseHeight: %v", err)
	}
	got, err := s.GetRecord([32]byte{3})
	if err != nil || got != nil {
		t.Fatalf("expected record gone after reversal, got %+v, %v", got, err)
	}
}

func TestRecordsAtHeightFiltersByHeight(t *testing.T) {
	s := newTestStore()
	s.PutRecord(&fraud.Record{TxHash: [32]byte{1}, BlockHeight: 10})
	s.PutRecord(&fraud.Record{TxHash: [32]byte{2}, BlockHeight: 20})

	records, err := s.RecordsAtHeight(10)
	if err != nil || len(records) != 1 {
		t.Fatalf("RecordsAtHeight: expected 1, got %d, %v", len(records), err)
	}
}

func TestValidatorDirectoryAndEligibleSets(t *testing.T) {
	s := newTestStore()
	v1 := ValidatorRecord{Address: addr(1), Reputation: 40, ConnectedBlocks: 2000, LastActiveBlock: 990}
	v2 := ValidatorRecord{Address: addr(2), Reputation: 10, ConnectedBlocks: 200, LastActiveBlock: 10}
	if err := s.UpsertValidator(v1); err != nil {
		t.Fatalf("UpsertValidator: %v", err)
	}
	if err := s.UpsertValidator(v2); err != nil {
		t.Fatalf("UpsertValidator: %v", err)
	}
	s.PutEligibility(attestation.CompositeEligibility{Subject: addr(1), Eligible: true})
	s.PutEligibility(attestation.CompositeEligibility{Subject: addr(2), Eligible: false})

	attestors, err := s.EligibleAttestors(30, 1000)
	if err != nil || len(attestors) != 1 || attestors[0] != addr(1) {
		t.Fatalf("EligibleAttestors: %v, %v", attestors, err)
	}

	rep, err := s.ReputationOf(addr(2))
	if err != nil || rep != 10 {
		t.Fatalf("ReputationOf: %d, %v", rep, err)
	}

	eligible, err := s.EligibleValidators(1000, 2000)
	if err != nil || len(eligible) != 1 || eligible[0] != addr(1) {
		t.Fatalf("EligibleValidators: %v, %v", eligible, err)
	}
}

func TestNonceMustStrictlyAdvance(t *testing.T) {
	s := newTestStore()
	a := addr(1)
	if n, err := s.GetNonce(a); err != nil || n != 0 {
		t.Fatalf("expected initial nonce 0, got %d, %v", n, err)
	}
	if err := s.AdvanceNonce(a, 5); err != nil {
		t.Fatalf("AdvanceNonce: %v", err)
	}
	if err := s.AdvanceNonce(a, 5); err == nil {
		t.Fatalf("expected replay of same nonce to be rejected")
	}
	if err := s.AdvanceNonce(a, 4); err == nil {
		t.Fatalf("expected regression to be rejected")
	}
	if err := s.AdvanceNonce(a, 6); err != nil {
		t.Fatalf("AdvanceNonce to higher value: %v", err)
	}
}
