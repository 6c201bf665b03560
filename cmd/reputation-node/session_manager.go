// Copyright 2025 Certen Protocol
//
// sessionManager owns the in-memory ValidationSession map and drives one
// transaction's request through quorum selection, response collection and
// consensus aggregation - the orchestration loop the teacher's
// startValidator/ABCI application played for CometBFT blocks, rewritten
// here around ValidationSession instead of a consensus round.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/consensus"
	"github.com/certen-trust/reputation-core/pkg/dispute"
	"github.com/certen-trust/reputation-core/pkg/session"
	"github.com/certen-trust/reputation-core/pkg/signer"
	"github.com/certen-trust/reputation-core/pkg/store"
	"github.com/certen-trust/reputation-core/pkg/sybil"
	"github.com/certen-trust/reputation-core/pkg/trust"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

type sessionManager struct {
	mu       sync.Mutex
	sessions map[[32]byte]*session.Session
	quorum   map[[32]byte][]address.Address

	// clusterFirstSeen records the block height a cluster ID was first
	// observed by RunNetworkRiskSweep, the node-local proxy for the §4.8
	// network-risk "cluster age" input - ClusterDetector itself carries no
	// canonical first-seen height, per its own process-local, rebuilt-at-
	// startup lifecycle.
	clusterFirstSeen map[int]uint64

	lastBlockHeight uint64 // accessed via sync/atomic

	st                  *store.Store
	comps               *components
	acceptanceThreshold float64
	disputeThreshold    float64
	logger              *log.Logger
}

func newSessionManager(st *store.Store, comps *components, acceptanceThreshold, disputeThreshold float64) *sessionManager {
	return &sessionManager{
		sessions:            make(map[[32]byte]*session.Session),
		quorum:              make(map[[32]byte][]address.Address),
		clusterFirstSeen:    make(map[int]uint64),
		st:                  st,
		comps:               comps,
		acceptanceThreshold: acceptanceThreshold,
		disputeThreshold:    disputeThreshold,
		logger:              log.New(log.Writer(), "[SessionManager] ", log.LstdFlags),
	}
}

// CurrentBlockHeight returns the height last seen via OpenSession, the
// node's best-effort proxy for "now" absent a chain-sync module.
func (m *sessionManager) CurrentBlockHeight() uint64 {
	return atomic.LoadUint64(&m.lastBlockHeight)
}

// OpenSession draws a quorum for req and opens a ValidationSession,
// scheduling its §4.6 deadline finalisation.
func (m *sessionManager) OpenSession(req session.Request, blockHeight uint32) error {
	quorum, err := m.comps.selector.Select(req.TxHash, blockHeight)
	if err != nil {
		return fmt.Errorf("session manager: select quorum: %w", err)
	}
	req.Quorum = quorum
	atomic.StoreUint64(&m.lastBlockHeight, uint64(blockHeight))

	now := time.Now()
	sess := session.NewSession(req, now)

	m.mu.Lock()
	m.sessions[req.TxHash] = sess
	m.quorum[req.TxHash] = quorum
	m.mu.Unlock()

	if err := m.st.PutSession(sess.Snapshot()); err != nil {
		m.logger.Printf("persist opened session %x: %v", req.TxHash, err)
	}

	time.AfterFunc(session.Timeout, func() { m.finalize(req.TxHash) })

	payload, err := json.Marshal(req)
	if err != nil {
		m.logger.Printf("encode challenge payload for %x: %v", req.TxHash, err)
		return nil
	}
	for _, v := range quorum {
		if err := m.comps.router.SendChallenge(v, payload); err != nil {
			m.logger.Printf("send challenge to %s: %v", v.Hex(), err)
		}
	}
	return nil
}

// RespondToChallenge builds, signs and broadcasts this node's
// ValidationResponse to a gossiped Challenge, the §2/§4.4 step this core
// previously only relayed. It is a no-op for a node not named in the
// Challenge's quorum.
func (m *sessionManager) RespondToChallenge(req session.Request) error {
	self := m.comps.signer.Address()
	if !inQuorum(self, req.Quorum) {
		return nil
	}

	onChain, behaviorStats, sufficientData := m.localEvidence(req.Sender, req.BlockHeight)
	computed := m.comps.scorer.ScoreGlobal(onChain, behaviorStats)
	vote := consensus.VoteForClaim(req.SenderSelfReported, computed, false, sufficientData)

	confidence := 0.9
	if !sufficientData {
		confidence = 0.0
	}

	resp := session.Response{
		TxHash:         req.TxHash,
		Validator:      self,
		Computed:       computed,
		Vote:           vote,
		VoteConfidence: confidence,
		HasWoT:         false,
		Timestamp:      time.Now().Unix(),
		Nonce:          req.Nonce,
	}
	digest := resp.Digest()
	resp.Signature = m.comps.signer.Sign(signer.DomainResponse, digest[:])

	payload, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("session manager: encode response: %w", err)
	}
	if err := m.comps.xport.Broadcast(wire.KindResponse, payload, address.Address{}); err != nil {
		return fmt.Errorf("session manager: broadcast response: %w", err)
	}
	return nil
}

// localEvidence derives OnChainMetrics/BehaviorStats for sender from
// whatever this node has observed locally. This core carries no
// chain-sync module, so fields only a chain scan can produce
// (StakeAmount, TxCount, DiversityCount, ...) stay at their zero default
// rather than being fabricated; sufficientData is true only when the
// validator directory has an entry for sender at all.
func (m *sessionManager) localEvidence(sender address.Address, currentHeight uint64) (trust.OnChainMetrics, trust.BehaviorStats, bool) {
	rec, err := m.st.GetValidator(sender)
	if err != nil || rec == nil {
		return trust.OnChainMetrics{}, trust.BehaviorStats{}, false
	}

	var blocksSinceLastTx uint64
	if currentHeight > rec.LastActiveBlock {
		blocksSinceLastTx = currentHeight - rec.LastActiveBlock
	}
	onChain := trust.OnChainMetrics{
		AccountAgeBlocks:  rec.ConnectedBlocks,
		BlocksSinceLastTx: blocksSinceLastTx,
	}

	fraudScore, err := m.comps.tracker.FraudScore(sender, currentHeight)
	if err != nil {
		fraudScore = 1.0
	}
	return onChain, trust.BehaviorStats{FraudScore: fraudScore}, true
}

func inQuorum(addr address.Address, quorum []address.Address) bool {
	for _, q := range quorum {
		if q == addr {
			return true
		}
	}
	return false
}

// HandleResponse appends resp to its session, finalising early once every
// quorum member has answered.
func (m *sessionManager) HandleResponse(resp session.Response) error {
	m.mu.Lock()
	sess, ok := m.sessions[resp.TxHash]
	quorumSize := len(m.quorum[resp.TxHash])
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session manager: unknown session %x", resp.TxHash)
	}

	if err := sess.AddResponse(resp); err != nil {
		return err
	}
	if err := m.st.PutSession(sess.Snapshot()); err != nil {
		m.logger.Printf("persist response for %x: %v", resp.TxHash, err)
	}

	if len(sess.Snapshot().Responses) >= quorumSize {
		m.finalize(resp.TxHash)
	}
	return nil
}

func (m *sessionManager) finalize(txHash [32]byte) {
	m.mu.Lock()
	sess, ok := m.sessions[txHash]
	m.mu.Unlock()
	if !ok {
		return
	}

	snap := sess.Snapshot()
	if snap.State.Terminal() || snap.State == session.StateDisputed {
		return
	}

	verdict := consensus.AggregateWithThresholds(snap.Responses, m.acceptanceThreshold, m.disputeThreshold)

	if !verdict.RequiresDispute {
		if err := sess.Decide(verdict.Consensus); err != nil {
			m.logger.Printf("decide session %x: %v", txHash, err)
		}
		if verdict.Consensus {
			responders := make([]address.Address, 0, len(snap.Responses))
			for _, r := range snap.Responses {
				responders = append(responders, r.Validator)
			}
			if err := m.comps.accountant.RecordFinalised(txHash, responders); err != nil {
				m.logger.Printf("record payout for %x: %v", txHash, err)
			}
		}
		m.persist(sess)
		return
	}

	sess.Dispute()
	m.persist(sess)
	m.routeToDispute(sess.Snapshot())
}

func (m *sessionManager) persist(sess *session.Session) {
	if err := m.st.PutSession(sess.Snapshot()); err != nil {
		m.logger.Printf("persist finalised session: %v", err)
	}
}

// routeToDispute gathers SybilGuard and ClusterDetector evidence and
// submits a DisputeCase to the external arbitration authority (§4.8, §4.9).
func (m *sessionManager) routeToDispute(snap session.Snapshot) {
	reputations := make(map[address.Address]float64, len(snap.Responses))
	for _, r := range snap.Responses {
		rep, err := m.st.ReputationOf(r.Validator)
		if err == nil {
			reputations[r.Validator] = float64(rep)
		}
	}

	alert, err := m.comps.guard.InSessionCheck(snap.Responses, reputations, m.comps.detector.MembershipOf)
	if err != nil {
		m.logger.Printf("sybil check for %x: %v", snap.Request.TxHash, err)
	}
	if alert.RequiresDispute {
		metricSybilAlerts.Inc()
	}

	c := dispute.NewCase(snap, m.comps.detector.Clusters(), alert, time.Now().Unix())
	if err := m.comps.authority.Submit(c); err != nil {
		m.logger.Printf("submit dispute case %x: %v", c.CaseID, err)
	}
}

// RunNetworkRiskSweep evaluates the §4.8 network-wide risk score for every
// cluster ClusterDetector currently knows about and applies the autopenalty
// to any cluster that crosses the threshold. Called periodically from main,
// independent of any single session's dispute routing.
func (m *sessionManager) RunNetworkRiskSweep(currentHeight uint64) {
	for _, c := range m.comps.detector.Clusters() {
		m.mu.Lock()
		firstSeen, ok := m.clusterFirstSeen[c.ID]
		if !ok {
			firstSeen = currentHeight
			m.clusterFirstSeen[c.ID] = firstSeen
		}
		m.mu.Unlock()

		var ageBlocks uint64
		if currentHeight > firstSeen {
			ageBlocks = currentHeight - firstSeen
		}

		reputations := make([]float64, 0, len(c.Members))
		var fraudEvents int
		for _, addr := range c.Members {
			if rep, err := m.st.ReputationOf(addr); err == nil {
				reputations = append(reputations, float64(rep))
			}
			if metrics, err := m.comps.tracker.Get(addr); err == nil {
				fraudEvents += metrics.FraudCount
			}
		}

		inputs := sybil.NetworkRiskInputs{
			ClusterMemberCount: len(c.Members),
			ClusterAgeBlocks:   ageBlocks,
			PatternRegularity:  c.Confidence,
			ReputationStdDev:   stdDev(reputations),
			FraudEventCount:    fraudEvents,
		}
		result := m.comps.guard.NetworkRisk(inputs)
		if !result.Autopenalty {
			continue
		}

		metricSybilAutopenalties.Inc()
		now := time.Now().Unix()
		for _, addr := range sybil.AutopenaltyTargets(result, c.Members) {
			if _, err := m.comps.ledger.RecordAndApplyReasoned(addr, -sybil.AutopenaltyReputationDelta, sybil.FraudReasonSybil, currentHeight, now); err != nil {
				m.logger.Printf("network-risk autopenalty for %s: %v", addr.Hex(), err)
			}
		}
	}
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
