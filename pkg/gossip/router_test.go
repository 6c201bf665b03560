package gossip

import (
	"testing"
	"time"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

func addr(b byte) address.Address {
	var a address.Address
	a[19] = b
	return a
}

type memBroadcaster struct {
	broadcasts int
	sendTos    int
	lastExcept address.Address
	lastPeer   address.Address
}

func (b *memBroadcaster) Broadcast(kind wire.Kind, payload []byte, except address.Address) error {
	b.broadcasts++
	b.lastExcept = except
	return nil
}

func (b *memBroadcaster) SendTo(peer address.Address, kind wire.Kind, payload []byte) error {
	b.sendTos++
	b.lastPeer = peer
	return nil
}

type memMisbehaviour struct {
	scores map[address.Address]int
}

func newMemMisbehaviour() *memMisbehaviour {
	return &memMisbehaviour{scores: make(map[address.Address]int)}
}

func (m *memMisbehaviour) IncrementMisbehaviour(peer address.Address, delta int) error {
	m.scores[peer] += delta
	return nil
}

func TestIngestFirstSeenRelays(t *testing.T) {
	b := &memBroadcaster{}
	r, err := NewRouter(b, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	result, err := r.Ingest(addr(1), wire.KindChallenge, [32]byte{1}, address.Address{}, []byte("payload"), true)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result != IngestRelayed || b.broadcasts != 1 {
		t.Fatalf("expected relay on first-seen, got result=%v broadcasts=%d", result, b.broadcasts)
	}
	if b.lastExcept != addr(1) {
		t.Fatalf("expected relay to exclude sender, got %v", b.lastExcept)
	}
}

func TestIngestSecondSeenDropsSilently(t *testing.T) {
	b := &memBroadcaster{}
	r, err := NewRouter(b, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	r.Ingest(addr(1), wire.KindDispute, [32]byte{5}, address.Address{}, nil, true)
	result, err := r.Ingest(addr(2), wire.KindDispute, [32]byte{5}, address.Address{}, nil, true)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result != IngestDuplicate || b.broadcasts != 1 {
		t.Fatalf("expected duplicate drop, got result=%v broadcasts=%d", result, b.broadcasts)
	}
}

func TestIngestInvalidSignatureScoresMisbehaviour(t *testing.T) {
	b := &memBroadcaster{}
	m := newMemMisbehaviour()
	r, err := NewRouter(b, m, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	result, err := r.Ingest(addr(7), wire.KindResponse, [32]byte{9}, addr(7), nil, false)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result != IngestInvalidSignature {
		t.Fatalf("expected invalid signature result, got %v", result)
	}
	if m.scores[addr(7)] != 20 {
		t.Fatalf("expected 20 misbehaviour points for invalid Response, got %d", m.scores[addr(7)])
	}
}

func TestIngestResponseSeenSetIsPerSessionPerValidator(t *testing.T) {
	b := &memBroadcaster{}
	r, err := NewRouter(b, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	session := [32]byte{42}

	r.Ingest(addr(1), wire.KindResponse, session, addr(1), nil, true)
	result, _ := r.Ingest(addr(2), wire.KindResponse, session, addr(2), nil, true)
	if result != IngestRelayed {
		t.Fatalf("expected a different validator's response in the same session to relay, got %v", result)
	}
	result, _ = r.Ingest(addr(3), wire.KindResponse, session, addr(1), nil, true)
	if result != IngestDuplicate {
		t.Fatalf("expected same (session, validator) replay to be dropped, got %v", result)
	}
}

func TestIngestRateLimitDropsExcessMessages(t *testing.T) {
	b := &memBroadcaster{}
	cfg := DefaultConfig()
	cfg.RateLimitMax = 2
	cfg.RateLimitWindow = time.Minute
	r, err := NewRouter(b, nil, cfg)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	r.Ingest(addr(9), wire.KindChallenge, [32]byte{1}, address.Address{}, nil, true)
	r.Ingest(addr(9), wire.KindChallenge, [32]byte{2}, address.Address{}, nil, true)
	result, err := r.Ingest(addr(9), wire.KindChallenge, [32]byte{3}, address.Address{}, nil, true)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result != IngestRateLimited {
		t.Fatalf("expected third message within window to be rate limited, got %v", result)
	}
}

func TestSendChallengeTargetedVsFlood(t *testing.T) {
	b := &memBroadcaster{}
	r, err := NewRouter(b, nil, nil)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	if err := r.SendChallenge(addr(1), nil); err != nil {
		t.Fatalf("SendChallenge (flood): %v", err)
	}
	if b.broadcasts != 1 || b.sendTos != 0 {
		t.Fatalf("expected flood fallback with no peer mapping, got broadcasts=%d sendTos=%d", b.broadcasts, b.sendTos)
	}

	r.SetValidatorPeer(addr(1), addr(99))
	if err := r.SendChallenge(addr(1), nil); err != nil {
		t.Fatalf("SendChallenge (targeted): %v", err)
	}
	if b.sendTos != 1 || b.lastPeer != addr(99) {
		t.Fatalf("expected targeted send to mapped peer, got sendTos=%d lastPeer=%v", b.sendTos, b.lastPeer)
	}
}
