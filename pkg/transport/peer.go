// Copyright 2025 Certen Protocol
//
// HTTPTransport - HTTP-based peer transport for GossipRouter (C11) and
// DisputeAuthority (C9), adapted from the teacher's
// pkg/batch/peer_manager.go HTTPPeerManager. Where the teacher dialed
// peers to exchange BLS attestation shares, this dials them to relay
// wire.Envelope-framed gossip messages.

package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/dispute"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

// GossipPath is the HTTP path peers POST wire.Envelope bytes to.
const GossipPath = "/gossip"

// HeaderFrom names the sender's validator address on every gossip POST,
// since plain HTTP carries no peer identity of its own.
const HeaderFrom = "X-Validator-Address"

// HTTPTransport implements gossip.Broadcaster, gossip.MisbehaviourStore
// and dispute.Gossiper over plain HTTP POSTs of wire.Envelope bytes.
type HTTPTransport struct {
	mu           sync.RWMutex
	self         address.Address
	peers        map[address.Address]string // endpoint, keyed by validator address
	misbehaviour map[address.Address]int
	httpClient   *http.Client
	logger       *log.Logger
}

// New builds an HTTPTransport identifying itself as self on outbound
// gossip. Callers add peers with AddPeer before the node starts gossiping.
func New(self address.Address, cfg *Config) *HTTPTransport {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[Transport] ", log.LstdFlags)
	}
	return &HTTPTransport{
		self:         self,
		peers:        make(map[address.Address]string),
		misbehaviour: make(map[address.Address]int),
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		logger:       cfg.Logger,
	}
}

// AddPeer registers a peer's gossip endpoint.
func (t *HTTPTransport) AddPeer(peer address.Address, endpoint string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.peers[peer] = endpoint
}

// Broadcast implements gossip.Broadcaster: POST payload to every peer
// other than except, concurrently, logging but not failing the call on
// individual peer delivery failures - one unreachable peer must not stall
// gossip to the rest of the network.
func (t *HTTPTransport) Broadcast(kind wire.Kind, payload []byte, except address.Address) error {
	t.mu.RLock()
	targets := make(map[address.Address]string, len(t.peers))
	for peer, endpoint := range t.peers {
		if peer == except {
			continue
		}
		targets[peer] = endpoint
	}
	t.mu.RUnlock()

	env := wire.Envelope{Kind: kind, Payload: payload}.Encode()

	var wg sync.WaitGroup
	for peer, endpoint := range targets {
		wg.Add(1)
		go func(peer address.Address, endpoint string) {
			defer wg.Done()
			if err := t.post(endpoint, env); err != nil {
				t.logger.Printf("broadcast %s to %s failed: %v", kind, peer.Hex(), err)
			}
		}(peer, endpoint)
	}
	wg.Wait()
	return nil
}

// SendTo implements gossip.Broadcaster's targeted Challenge send (§4.11).
func (t *HTTPTransport) SendTo(peer address.Address, kind wire.Kind, payload []byte) error {
	t.mu.RLock()
	endpoint, ok := t.peers[peer]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("transport: unknown peer %s", peer.Hex())
	}
	env := wire.Envelope{Kind: kind, Payload: payload}.Encode()
	return t.post(endpoint, env)
}

func (t *HTTPTransport) post(endpoint string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, endpoint+GossipPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(HeaderFrom, t.self.Hex())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("peer returned status %d", resp.StatusCode)
	}
	return nil
}

// IncrementMisbehaviour implements gossip.MisbehaviourStore. Scores are
// process-local and reset on restart; a persistent ban list is outside
// this core's scope (§4.11 leaves enforcement policy to the node
// operator).
func (t *HTTPTransport) IncrementMisbehaviour(peer address.Address, delta int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.misbehaviour[peer] += delta
	return nil
}

// MisbehaviourScore returns peer's accumulated misbehaviour score.
func (t *HTTPTransport) MisbehaviourScore(peer address.Address) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.misbehaviour[peer]
}

// resolutionMessage is the wire payload for a gossiped case resolution.
type resolutionMessage struct {
	CaseID     [32]byte          `json:"case_id"`
	Resolution dispute.Resolution `json:"resolution"`
}

// GossipCase implements dispute.Gossiper. Broadcast wraps payload in its
// own wire.Envelope, so the payload passed here is the raw JSON body, not
// a pre-framed message.
func (t *HTTPTransport) GossipCase(c *dispute.Case) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("transport: encode case: %w", err)
	}
	return t.Broadcast(wire.KindDispute, payload, address.Address{})
}

// GossipResolution implements dispute.Gossiper.
func (t *HTTPTransport) GossipResolution(caseID [32]byte, r dispute.Resolution) error {
	payload, err := json.Marshal(resolutionMessage{CaseID: caseID, Resolution: r})
	if err != nil {
		return fmt.Errorf("transport: encode resolution: %w", err)
	}
	return t.Broadcast(wire.KindResolution, payload, address.Address{})
}
