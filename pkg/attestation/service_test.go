package attestation

import (
	"sort"
	"testing"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/trust"
)

type memStore struct {
	attestations map[[32]byte]Attestation
	bySubject    map[address.Address][]Attestation
	eligibility  map[address.Address]CompositeEligibility
}

func newMemStore() *memStore {
	return &memStore{
		attestations: make(map[[32]byte]Attestation),
		bySubject:    make(map[address.Address][]Attestation),
		eligibility:  make(map[address.Address]CompositeEligibility),
	}
}

func (s *memStore) GetAttestation(digest [32]byte) (*Attestation, error) {
	a, ok := s.attestations[digest]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *memStore) PutAttestation(a Attestation) error {
	s.attestations[a.Digest()] = a
	s.bySubject[a.Subject] = append(s.bySubject[a.Subject], a)
	return nil
}

func (s *memStore) ListAttestations(subject address.Address) ([]Attestation, error) {
	return s.bySubject[subject], nil
}

func (s *memStore) GetEligibility(subject address.Address) (*CompositeEligibility, error) {
	e, ok := s.eligibility[subject]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *memStore) PutEligibility(e CompositeEligibility) error {
	s.eligibility[e.Subject] = e
	return nil
}

type memDirectory struct {
	pool []address.Address
	reps map[address.Address]int
}

func (d memDirectory) EligibleAttestors(minReputation int, minConnectedBlocks uint64) ([]address.Address, error) {
	return d.pool, nil
}

func (d memDirectory) ReputationOf(addr address.Address) (int, error) {
	return d.reps[addr], nil
}

func addrN(b byte) address.Address {
	var a address.Address
	a[19] = b
	return a
}

func buildPool(n int) []address.Address {
	pool := make([]address.Address, n)
	for i := range pool {
		pool[i] = addrN(byte(i + 1))
	}
	return pool
}

func TestSelectAttestorsDeterministic(t *testing.T) {
	pool := buildPool(20)
	svc, err := NewService(newMemStore(), memDirectory{pool: pool}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	announce := Announce{Subject: addrN(200), Timestamp: 1000}
	draw1, err := svc.SelectAttestors(announce)
	if err != nil {
		t.Fatalf("SelectAttestors: %v", err)
	}
	draw2, err := svc.SelectAttestors(announce)
	if err != nil {
		t.Fatalf("SelectAttestors: %v", err)
	}
	if len(draw1) != 10 {
		t.Fatalf("expected 10 attestors, got %d", len(draw1))
	}
	for i := range draw1 {
		if draw1[i] != draw2[i] {
			t.Fatalf("expected deterministic draw, differ at %d", i)
		}
	}
}

func TestSelectAttestorsUndersubscribed(t *testing.T) {
	pool := buildPool(5)
	svc, _ := NewService(newMemStore(), memDirectory{pool: pool}, nil)
	if _, err := svc.SelectAttestors(Announce{Subject: addrN(1)}); err == nil {
		t.Fatalf("expected undersubscribed error with only 5 candidates")
	}
}

func makeAttestation(subject, attestor address.Address, allFlags bool, final int, reputation int, confidence float64) Attestation {
	return Attestation{
		Subject:            subject,
		Attestor:           attestor,
		StakeOK:            allFlags,
		HistoryOK:          allFlags,
		NetworkOK:          allFlags,
		BehaviorOK:         allFlags,
		TrustScore:         trust.Score{Final: final},
		Confidence:         confidence,
		AttestorReputation: reputation,
	}
}

func TestComputeEligibilityHappyPathS1(t *testing.T) {
	store := newMemStore()
	subject := addrN(100)
	for i := 0; i < 10; i++ {
		a := makeAttestation(subject, addrN(byte(i+1)), true, 80, 80, 0.9)
		store.PutAttestation(a)
	}

	svc, _ := NewService(store, memDirectory{}, nil)
	e, err := svc.ComputeEligibility(subject, 1000)
	if err != nil {
		t.Fatalf("ComputeEligibility: %v", err)
	}
	if !e.Eligible {
		t.Fatalf("expected subject to be eligible, got %+v", e)
	}
	if e.AttestationCount != 10 {
		t.Fatalf("AttestationCount = %d, want 10", e.AttestationCount)
	}
	if e.AvgTrust != 80 {
		t.Fatalf("AvgTrust = %v, want 80 (uniform inputs)", e.AvgTrust)
	}
	if e.TrustVariance != 0 {
		t.Fatalf("TrustVariance = %v, want 0 (uniform inputs)", e.TrustVariance)
	}
}

func TestComputeEligibilityDeniedBelowMinTrustS5(t *testing.T) {
	store := newMemStore()
	subject := addrN(101)
	for i := 0; i < 10; i++ {
		allFlags := i < 8 // 8/10 = 80%, meets the agreement bar exactly
		a := makeAttestation(subject, addrN(byte(i+1)), allFlags, 47, 80, 0.9)
		store.PutAttestation(a)
	}

	svc, _ := NewService(store, memDirectory{}, nil)
	e, err := svc.ComputeEligibility(subject, 1000)
	if err != nil {
		t.Fatalf("ComputeEligibility: %v", err)
	}
	if e.Eligible {
		t.Fatalf("expected subject to be denied eligibility with avg_trust=47 < 50")
	}
}

func TestComputeEligibilityUnknownSubject(t *testing.T) {
	svc, _ := NewService(newMemStore(), memDirectory{}, nil)
	if _, err := svc.ComputeEligibility(addrN(1), 1); err != ErrUnknownSubject {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestSortedPoolIsStable(t *testing.T) {
	pool := buildPool(3)
	unsorted := []address.Address{pool[2], pool[0], pool[1]}
	address.Sort(unsorted)
	if !sort.SliceIsSorted(unsorted, func(i, j int) bool { return unsorted[i].Less(unsorted[j]) }) {
		t.Fatalf("expected address.Sort to produce a sorted slice")
	}
}
