package behavior

import (
	"testing"

	"github.com/certen-trust/reputation-core/pkg/address"
)

type memStore struct {
	data map[address.Address]*Metrics
}

func newMemStore() *memStore {
	return &memStore{data: make(map[address.Address]*Metrics)}
}

func (s *memStore) GetBehaviorMetrics(addr address.Address) (*Metrics, error) {
	m, ok := s.data[addr]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) PutBehaviorMetrics(addr address.Address, m *Metrics) error {
	cp := *m
	s.data[addr] = &cp
	return nil
}

func testAddr() address.Address {
	var a address.Address
	a[19] = 7
	return a
}

func TestFraudScoreCleanAddressIsOne(t *testing.T) {
	tr, err := NewTracker(newMemStore(), nil)
	if err != nil {
		t.Fatalf("NewTracker: %v", err)
	}
	score, err := tr.FraudScore(testAddr(), 100)
	if err != nil {
		t.Fatalf("FraudScore: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("expected clean address score 1.0, got %v", score)
	}
}

func TestFraudScoreDecayScenarioS6(t *testing.T) {
	tr, _ := NewTracker(newMemStore(), nil)
	a := testAddr()

	if err := tr.RecordFraud(a, [32]byte{1}, 1000, 5); err != nil {
		t.Fatalf("RecordFraud: %v", err)
	}
	score, _ := tr.FraudScore(a, 1000)
	if score != 0.7 {
		t.Fatalf("immediately after 1st fraud, score = %v, want 0.7", score)
	}

	score, _ = tr.FraudScore(a, 1000+10000)
	if score != 0.77 {
		t.Fatalf("at height+10000, score = %v, want 0.77", score)
	}
}

func TestFraudScorePinnedAtFiveEvents(t *testing.T) {
	tr, _ := NewTracker(newMemStore(), nil)
	a := testAddr()
	for i := 0; i < 5; i++ {
		if err := tr.RecordFraud(a, [32]byte{byte(i)}, uint64(i*1000), 10); err != nil {
			t.Fatalf("RecordFraud #%d: %v", i, err)
		}
	}
	score, _ := tr.FraudScore(a, 10_000_000)
	if score != 0 {
		t.Fatalf("expected pinned score 0 after 5 frauds, got %v", score)
	}
}

func TestRecordFraudAccumulatesPenaltyAndHashes(t *testing.T) {
	tr, _ := NewTracker(newMemStore(), nil)
	a := testAddr()
	tr.RecordFraud(a, [32]byte{1}, 10, 5)
	tr.RecordFraud(a, [32]byte{2}, 20, 15)

	m, err := tr.Get(a)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.FraudCount != 2 {
		t.Fatalf("FraudCount = %d, want 2", m.FraudCount)
	}
	if m.TotalFraudPenalty != 20 {
		t.Fatalf("TotalFraudPenalty = %d, want 20", m.TotalFraudPenalty)
	}
	if m.LastFraudHeight != 20 {
		t.Fatalf("LastFraudHeight = %d, want 20", m.LastFraudHeight)
	}
	if len(m.FraudTxHashes) != 2 {
		t.Fatalf("expected 2 fraud tx hashes, got %d", len(m.FraudTxHashes))
	}
}
