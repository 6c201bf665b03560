// Copyright 2025 Certen Protocol
//
// reputation-node stands up one validator's reputation-consensus core:
// it loads configuration, wires every C1-C13 component against a single
// C13 Store, and serves health/status/metrics/gossip over HTTP -
// structurally mirroring the teacher's root main.go (flags, a health
// struct with a /health endpoint, signal-driven graceful shutdown)
// without its CometBFT/Ethereum/Accumulate-specific wiring.

package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/attestation"
	"github.com/certen-trust/reputation-core/pkg/behavior"
	"github.com/certen-trust/reputation-core/pkg/cluster"
	"github.com/certen-trust/reputation-core/pkg/config"
	"github.com/certen-trust/reputation-core/pkg/dispute"
	"github.com/certen-trust/reputation-core/pkg/fraud"
	"github.com/certen-trust/reputation-core/pkg/gossip"
	"github.com/certen-trust/reputation-core/pkg/kvdb"
	"github.com/certen-trust/reputation-core/pkg/payout"
	"github.com/certen-trust/reputation-core/pkg/quorum"
	"github.com/certen-trust/reputation-core/pkg/session"
	"github.com/certen-trust/reputation-core/pkg/signer"
	"github.com/certen-trust/reputation-core/pkg/store"
	"github.com/certen-trust/reputation-core/pkg/sybil"
	"github.com/certen-trust/reputation-core/pkg/transport"
	"github.com/certen-trust/reputation-core/pkg/trust"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

// HealthStatus tracks component health for the /health endpoint, mirroring
// the teacher's HealthStatus struct with this core's own component set.
type HealthStatus struct {
	mu            sync.RWMutex
	Status        string `json:"status"`
	Store         string `json:"store"`
	AuditMirror   string `json:"audit_mirror"`
	Peers         int    `json:"peers"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	startTime     time.Time
}

func (h *HealthStatus) set(status, storeStatus, mirrorStatus string, peers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Status, h.Store, h.AuditMirror, h.Peers = status, storeStatus, mirrorStatus, peers
}

func (h *HealthStatus) snapshot() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snap := *h
	snap.UptimeSeconds = int64(time.Since(h.startTime).Seconds())
	return snap
}

var healthStatus = &HealthStatus{Status: "starting", startTime: time.Now()}

var (
	metricGossipRelayed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_core_gossip_relayed_total",
		Help: "Gossip messages relayed, by kind.",
	}, []string{"kind"})
	metricGossipDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_core_gossip_dropped_total",
		Help: "Gossip messages dropped, by kind and reason.",
	}, []string{"kind", "reason"})
	metricSybilAlerts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reputation_core_sybil_alerts_total",
		Help: "In-session SybilGuard flags raised.",
	})
	metricSybilAutopenalties = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reputation_core_sybil_autopenalties_total",
		Help: "Network-risk autopenalties applied to cluster members.",
	})
)

func init() {
	prometheus.MustRegister(metricGossipRelayed, metricGossipDropped, metricSybilAlerts, metricSybilAutopenalties)
}

// networkRiskSweepInterval is how often main's background loop evaluates
// SybilGuard's §4.8 network-wide risk score across every known cluster.
const networkRiskSweepInterval = 60 * time.Second

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("starting reputation-core validator node")

	var (
		configPath  = flag.String("config", "./config.yaml", "path to the node's YAML config file")
		validatorID = flag.String("validator-id", "", "hex-encoded validator address override")
		keyPath     = flag.String("key", "./data/ed25519_key.hex", "path to this node's Ed25519 private key")
		showHelp    = flag.Bool("help", false, "show this help message")
	)
	flag.Parse()
	if *showHelp {
		flag.Usage()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("config file unavailable (%v), falling back to defaults", err)
		cfg = config.DefaultConfig()
	}

	priv, err := loadOrGenerateKey(*keyPath)
	if err != nil {
		log.Fatalf("load signing key: %v", err)
	}
	sgn, err := signer.New(priv)
	if err != nil {
		log.Fatalf("construct signer: %v", err)
	}
	if *validatorID != "" {
		log.Printf("CLI flag override: validator-id=%s (informational only - address is key-derived)", *validatorID)
	}
	log.Printf("validator address: %s", sgn.Address().Hex())

	kv, mirror := openStore(cfg)
	st := store.New(kvdb.NewKVAdapter(kv), &store.Config{
		Mirror: mirror,
		Logger: log.New(log.Writer(), "[Store] ", log.LstdFlags),
	})

	xport := transport.New(sgn.Address(), transport.DefaultConfig())
	for _, p := range cfg.Peers {
		addr, err := address.FromHex(p.Address)
		if err != nil {
			log.Printf("skipping malformed peer address %q: %v", p.Address, err)
			continue
		}
		xport.AddPeer(addr, p.Endpoint)
	}

	comps := buildComponents(cfg, st, xport, sgn)
	sm := newSessionManager(st, comps, cfg.AcceptanceThreshold, cfg.DisputeThreshold)

	mux := http.NewServeMux()
	registerHandlers(mux, cfg, st, comps, sm)

	go func() {
		ticker := time.NewTicker(networkRiskSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			sm.RunNetworkRiskSweep(sm.CurrentBlockHeight())
		}
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	metricsServer := &http.Server{Addr: cfg.MetricsAddr, Handler: metricsMux}

	healthStatus.set("ok", "connected", mirrorStatus(mirror), len(cfg.Peers))

	go func() {
		log.Printf("reputation-core API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()
	go func() {
		log.Printf("metrics listening on %s", cfg.MetricsAddr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("metrics server: %v", err)
		}
	}()

	log.Printf("reputation-core node ready")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down reputation-core node")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("http server shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics server shutdown error: %v", err)
	}
	log.Printf("reputation-core node stopped")
}

// components bundles the wired C1-C13 building blocks a request handler
// needs, analogous to the teacher's BatchComponents.
type components struct {
	scorer     *trust.Scorer
	tracker    *behavior.Tracker
	detector   *cluster.Detector
	attestSvc  *attestation.Service
	selector   *quorum.Selector
	guard      *sybil.Guard
	authority  *dispute.Authority
	ledger     *fraud.Ledger
	router     *gossip.Router
	accountant *payout.Accountant
	signer     *signer.Signer
	xport      *transport.HTTPTransport
}

func buildComponents(cfg *config.Config, st *store.Store, xport *transport.HTTPTransport, sgn *signer.Signer) *components {
	trustCfg := trust.DefaultConfig()
	trustCfg.WoTMaxDepth = cfg.WoTMaxDepth
	scorer := trust.NewScorer(trustCfg, nil)

	tracker, err := behavior.NewTracker(st, behavior.DefaultConfig())
	if err != nil {
		log.Fatalf("behavior tracker: %v", err)
	}

	detector := cluster.NewDetector(cluster.DefaultConfig())

	attestCfg := attestation.DefaultConfig()
	attestCfg.MinAttestorReputation = cfg.MinAttestorReputation
	attestCfg.MinAttestorConnectedBlocks = cfg.MinAttestorConnectedBlocks
	attestCfg.EligibilityMinTrust = float64(cfg.EligibilityMinTrust)
	attestCfg.EligibilityMaxVariance = cfg.EligibilityMaxVariance
	attestCfg.EligibilityMinAttestations = cfg.EligibilityMinAttestations
	attestCfg.AttestationCacheBlocks = cfg.AttestationCacheBlocks
	attestSvc, err := attestation.NewService(st, st, attestCfg)
	if err != nil {
		log.Fatalf("attestation service: %v", err)
	}

	selector, err := quorum.NewSelector(st, quorum.DefaultConfig())
	if err != nil {
		log.Fatalf("quorum selector: %v", err)
	}

	sybilCfg := sybil.DefaultConfig()
	guard := sybil.NewGuard(sybilCfg)

	authority, err := dispute.NewAuthority(st, xport, dispute.DefaultConfig())
	if err != nil {
		log.Fatalf("dispute authority: %v", err)
	}

	fraudCfg := fraud.DefaultConfig()
	ledger, err := fraud.NewLedger(st, tracker, fraudCfg)
	if err != nil {
		log.Fatalf("fraud ledger: %v", err)
	}

	gossipCfg := gossip.DefaultConfig()
	gossipCfg.RateLimitWindow = cfg.RateLimitWindow.Duration()
	gossipCfg.RateLimitMax = cfg.RateLimitMax
	router, err := gossip.NewRouter(xport, xport, gossipCfg)
	if err != nil {
		log.Fatalf("gossip router: %v", err)
	}

	accountant, err := payout.NewAccountant(st, payout.DefaultConfig())
	if err != nil {
		log.Fatalf("payout accountant: %v", err)
	}

	// ConsensusAggregator (C7) carries no standing state - it is a set of
	// package functions that sessionManager.finalize calls when a
	// ValidationSession's response window closes, so it has no long-lived
	// component here.

	return &components{
		scorer:     scorer,
		tracker:    tracker,
		detector:   detector,
		attestSvc:  attestSvc,
		selector:   selector,
		guard:      guard,
		authority:  authority,
		ledger:     ledger,
		router:     router,
		accountant: accountant,
		signer:     sgn,
		xport:      xport,
	}
}

func registerHandlers(mux *http.ServeMux, cfg *config.Config, st *store.Store, comps *components, sm *sessionManager) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		snap := healthStatus.snapshot()
		w.Header().Set("Content-Type", "application/json")
		if snap.Status != "ok" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(snap)
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"quorum_size":          cfg.QuorumSize,
			"acceptance_threshold": cfg.AcceptanceThreshold,
			"dispute_threshold":    cfg.DisputeThreshold,
			"peers":                len(cfg.Peers),
		})
	})

	mux.HandleFunc(transport.GossipPath, func(w http.ResponseWriter, r *http.Request) {
		handleGossip(w, r, st, comps, sm)
	})

	// /sessions opens a new ValidationSession for a locally-originated
	// ValidationRequest (§4.6 step 1); blockHeight selects the quorum seed.
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Request     session.Request `json:"request"`
			BlockHeight uint32          `json:"block_height"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := sm.OpenSession(body.Request, body.BlockHeight); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	// /resolutions is the external arbitration authority's callback for a
	// DisputeCase it has ruled on (§4.9's "authority itself is an external
	// collaborator"). A reject resolution that names a fraudster records a
	// FraudLedger entry (§4.10).
	mux.HandleFunc("/resolutions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			CaseID       [32]byte        `json:"case_id"`
			Resolution   dispute.Resolution `json:"resolution"`
			ResolvedAt   int64           `json:"resolved_at"`
			Fraudster    address.Address `json:"fraudster,omitempty"`
			ClaimedFinal int             `json:"claimed_final,omitempty"`
			ActualFinal  int             `json:"actual_final,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := comps.authority.ApplyResolution(body.CaseID, body.Resolution, body.ResolvedAt); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if body.Resolution == dispute.ResolutionReject {
			c, err := comps.authority.Case(body.CaseID)
			if err == nil && c != nil {
				_, _, err := comps.ledger.RecordAndApply(
					c.Session.Request.TxHash, body.Fraudster, body.ClaimedFinal, body.ActualFinal,
					c.Session.Request.BlockHeight, body.ResolvedAt, cfg.SlashFraction)
				if err != nil {
					log.Printf("record fraud for resolved case %x: %v", body.CaseID, err)
				}
			}
		}
		w.WriteHeader(http.StatusOK)
	})

	// /announces ingests a subject's self-reported Announce (§4.4 step 1).
	// If this node is drawn into the attestor set, it independently judges
	// the claim and gossips a signed Attestation; otherwise it takes no
	// further action, matching §4.4 step 2's "only the drawn nodes attest".
	mux.HandleFunc("/announces", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var announce attestation.Announce
		if err := json.NewDecoder(r.Body).Decode(&announce); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		attestors, err := comps.attestSvc.SelectAttestors(announce)
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		if !addressIn(comps.signer.Address(), attestors) {
			w.WriteHeader(http.StatusAccepted)
			return
		}

		a := buildAttestation(comps, st, announce, sm.CurrentBlockHeight())
		if err := comps.attestSvc.RecordAttestation(a); err != nil {
			log.Printf("record local attestation for %s: %v", announce.Subject.Hex(), err)
		}
		payload, err := json.Marshal(a)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := comps.xport.Broadcast(wire.KindAttestation, payload, address.Address{}); err != nil {
			log.Printf("broadcast attestation for %s: %v", announce.Subject.Hex(), err)
		}
		w.WriteHeader(http.StatusAccepted)
	})

	// /payouts/aggregate is the §4.12 block-builder-facing API: given a
	// candidate block's included tx-hashes plus its subsidy and gas-fee
	// total, returns the reward-transaction output every validator
	// independently recomputes to check the block (§6).
	mux.HandleFunc("/payouts/aggregate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			TxHashes    [][32]byte `json:"tx_hashes"`
			Subsidy     int64      `json:"subsidy"`
			GasFeeTotal int64      `json:"gas_fee_total"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out, err := comps.accountant.AggregateBlock(body.TxHashes, body.Subsidy, body.GasFeeTotal)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		type validatorAmount struct {
			Validator address.Address `json:"validator"`
			Amount    int64           `json:"amount"`
		}
		amounts := make([]validatorAmount, 0, len(out.ValidatorAmounts))
		for addr, amt := range out.ValidatorAmounts {
			amounts = append(amounts, validatorAmount{Validator: addr, Amount: amt})
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"miner_amount":      out.MinerAmount,
			"validator_amounts": amounts,
		})
	})
}

// attestorStakeFloor, attestorMinAccountAge, attestorMinCounterparts and
// attestorMinFraudScore are the thresholds an attestor applies to a
// subject's self-reported Announce metrics (§4.4 step 3's "independently
// verifies"); the spec fixes the attestation protocol's shape but leaves
// the per-attestor verification bar to the node.
const (
	attestorStakeFloor       = 100.0
	attestorMinAccountAge    = 1000
	attestorMinCounterparts  = 3
	attestorMinFraudScore    = 0.5
)

// buildAttestation judges announce against the local attestor thresholds
// and TrustScorer's consensus-critical ScoreGlobal, then signs the result.
func buildAttestation(comps *components, st *store.Store, announce attestation.Announce, currentHeight uint64) attestation.Attestation {
	fraudScore, err := comps.tracker.FraudScore(announce.Subject, currentHeight)
	if err != nil {
		fraudScore = 1.0
	}
	score := comps.scorer.ScoreGlobal(announce.Metrics, trust.BehaviorStats{FraudScore: fraudScore})

	self := comps.signer.Address()
	reputation, _ := st.ReputationOf(self)

	a := attestation.Attestation{
		Subject:            announce.Subject,
		Attestor:           self,
		SubjectClaimDigest: attestation.DigestAnnounce(announce),
		StakeOK:            announce.Metrics.StakeAmount >= attestorStakeFloor,
		HistoryOK:          announce.Metrics.AccountAgeBlocks >= attestorMinAccountAge,
		NetworkOK:          announce.Metrics.DistinctCounterparts >= attestorMinCounterparts,
		BehaviorOK:         fraudScore >= attestorMinFraudScore,
		TrustScore:         score,
		Confidence:         1.0,
		AttestorReputation: reputation,
		Timestamp:          time.Now().Unix(),
	}
	if _, err := rand.Read(a.Nonce[:]); err != nil {
		log.Printf("generate attestation nonce: %v", err)
	}
	digest := a.Digest()
	a.Signature = comps.signer.Sign(signer.DomainAttestation, digest[:])
	return a
}

// addressIn reports whether addr appears in list.
func addressIn(addr address.Address, list []address.Address) bool {
	for _, a := range list {
		if a == addr {
			return true
		}
	}
	return false
}

// handleGossip decodes an inbound wire.Envelope and routes it through
// GossipRouter.Ingest. Per-message cryptographic re-verification at this
// boundary is left to each domain package's own acceptance path (none of
// C1-C12 re-derives a canonical signing payload at the transport layer
// either); sigValid here reflects only "sent by a directory-known
// validator", the same membership check GossipRouter's rate limiter keys
// on.
func handleGossip(w http.ResponseWriter, r *http.Request, st *store.Store, comps *components, sm *sessionManager) {
	fromHex := r.Header.Get(transport.HeaderFrom)
	from, err := address.FromHex(fromHex)
	if err != nil {
		http.Error(w, "missing or malformed "+transport.HeaderFrom, http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	env, err := wire.Decode(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	digest, validator, sigValid := classify(env, from, st)

	result, err := comps.router.Ingest(from, env.Kind, digest, validator, env.Payload, sigValid)
	if err != nil {
		log.Printf("gossip ingest error: %v", err)
	}
	switch result {
	case gossip.IngestRelayed:
		metricGossipRelayed.WithLabelValues(env.Kind.String()).Inc()
		if env.Kind == wire.KindResponse {
			var resp session.Response
			if err := json.Unmarshal(env.Payload, &resp); err != nil {
				log.Printf("decode gossiped response: %v", err)
			} else if err := sm.HandleResponse(resp); err != nil {
				log.Printf("handle gossiped response: %v", err)
			}
		}
		if env.Kind == wire.KindChallenge {
			var req session.Request
			if err := json.Unmarshal(env.Payload, &req); err != nil {
				log.Printf("decode gossiped challenge: %v", err)
			} else if err := sm.RespondToChallenge(req); err != nil {
				log.Printf("respond to gossiped challenge: %v", err)
			}
		}
		if env.Kind == wire.KindAttestation {
			var a attestation.Attestation
			if err := json.Unmarshal(env.Payload, &a); err != nil {
				log.Printf("decode gossiped attestation: %v", err)
			} else {
				if err := comps.attestSvc.RecordAttestation(a); err != nil {
					log.Printf("record gossiped attestation for %s: %v", a.Subject.Hex(), err)
				}
				if _, err := comps.attestSvc.ComputeEligibility(a.Subject, sm.CurrentBlockHeight()); err != nil {
					log.Printf("compute eligibility for %s: %v", a.Subject.Hex(), err)
				}
			}
		}
		w.WriteHeader(http.StatusOK)
	case gossip.IngestDuplicate:
		metricGossipDropped.WithLabelValues(env.Kind.String(), "duplicate").Inc()
		w.WriteHeader(http.StatusOK)
	case gossip.IngestRateLimited:
		metricGossipDropped.WithLabelValues(env.Kind.String(), "rate_limited").Inc()
		w.WriteHeader(http.StatusTooManyRequests)
	case gossip.IngestInvalidSignature:
		metricGossipDropped.WithLabelValues(env.Kind.String(), "invalid_signature").Inc()
		w.WriteHeader(http.StatusForbidden)
	}
}

// classify extracts Ingest's digest/validator keys per message kind and
// checks the sender against the validator directory.
func classify(env wire.Envelope, from address.Address, st *store.Store) (digest [32]byte, validator address.Address, sigValid bool) {
	rec, err := st.GetValidator(from)
	sigValid = err == nil && rec != nil

	switch env.Kind {
	case wire.KindAttestation:
		var a attestation.Attestation
		if json.Unmarshal(env.Payload, &a) == nil {
			digest, validator = a.Digest(), a.Attestor
		}
	case wire.KindResponse:
		var resp struct {
			TxHash    [32]byte        `json:"tx_hash"`
			Validator address.Address `json:"validator"`
		}
		if json.Unmarshal(env.Payload, &resp) == nil {
			digest, validator = resp.TxHash, resp.Validator
		}
	case wire.KindDispute:
		var c dispute.Case
		if json.Unmarshal(env.Payload, &c) == nil {
			digest = c.CaseID
		}
	case wire.KindResolution:
		var msg struct {
			CaseID [32]byte `json:"case_id"`
		}
		if json.Unmarshal(env.Payload, &msg) == nil {
			digest = msg.CaseID
		}
	case wire.KindChallenge:
		var req struct {
			TxHash [32]byte `json:"tx_hash"`
		}
		if json.Unmarshal(env.Payload, &req) == nil {
			digest = req.TxHash
		}
	}
	return digest, validator, sigValid
}

func openStore(cfg *config.Config) (dbm.DB, store.AuditMirror) {
	path := cfg.StorePath
	if path == "" {
		log.Printf("no store_path configured, using an in-memory store (data will not survive a restart)")
		return kvdb.NewMemDB(), nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("create store directory %s: %v", dir, err)
	}
	db, err := dbm.NewGoLevelDB(filepath.Base(path), dir)
	if err != nil {
		log.Fatalf("open goleveldb store at %s: %v", path, err)
	}

	var mirror store.AuditMirror
	if cfg.DatabaseURL != "" {
		pm, err := store.NewPostgresMirror(store.DefaultPostgresMirrorConfig(cfg.DatabaseURL))
		if err != nil {
			log.Printf("postgres audit mirror unavailable, continuing without it: %v", err)
		} else {
			mirror = pm
			log.Printf("postgres audit mirror connected")
		}
	}
	return db, mirror
}

func mirrorStatus(m store.AuditMirror) string {
	if m == nil {
		return "disabled"
	}
	return "connected"
}

// loadOrGenerateKey loads an Ed25519 private key from path, generating and
// persisting a new one if none exists yet - matching the teacher's
// loadOrGenerateEd25519Key in spirit (never derive keys from a node-chosen
// identifier).
func loadOrGenerateKey(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err == nil {
		keyBytes, decodeErr := hex.DecodeString(string(raw))
		if decodeErr != nil || len(keyBytes) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("malformed key file %s", path)
		}
		return ed25519.PrivateKey(keyBytes), nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	sgn, genErr := signer.Generate()
	if genErr != nil {
		return nil, genErr
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	priv := sgn.PrivateKeyBytes()
	if err := os.WriteFile(path, []byte(hex.EncodeToString(priv)), 0o600); err != nil {
		return nil, err
	}
	log.Printf("generated new signing key at %s", path)
	return priv, nil
}
