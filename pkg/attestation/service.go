// Copyright 2025 Certen Protocol

package attestation

import (
	"fmt"
	"log"
	"math"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/rngseed"
)

// attestorPoolSize is the fixed attestor draw size of §4.4 step 2.
const attestorPoolSize = 10

// Service is C4 AttestationService.
type Service struct {
	store     Store
	directory Directory
	cfg       *Config
	logger    *log.Logger
}

// NewService builds a Service.
func NewService(store Store, directory Directory, cfg *Config) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if directory == nil {
		return nil, ErrNilDirectory
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[AttestationService] ", log.LstdFlags)
	}
	return &Service{store: store, directory: directory, cfg: cfg, logger: cfg.Logger}, nil
}

// SelectAttestors implements §4.4 step 2: draw 10 nodes meeting the
// reputation/connected-duration bar, deterministically seeded by the
// announce digest so every node reaches the same selection. It returns
// ErrUndersubscribed when fewer than 10 nodes qualify.
func (s *Service) SelectAttestors(announce Announce) ([]address.Address, error) {
	pool, err := s.directory.EligibleAttestors(s.cfg.MinAttestorReputation, s.cfg.MinAttestorConnectedBlocks)
	if err != nil {
		return nil, fmt.Errorf("attestation: list eligible attestors: %w", err)
	}
	address.Sort(pool)
	if len(pool) < attestorPoolSize {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrUndersubscribed, len(pool), attestorPoolSize)
	}

	seed := digestAnnounce(announce)
	draw := rngseed.New(seed).SampleWithoutReplacement(len(pool), attestorPoolSize)

	selected := make([]address.Address, len(draw))
	for i, idx := range draw {
		selected[i] = pool[idx]
	}
	return selected, nil
}

// RecordAttestation persists a freshly received, already signature-verified
// Attestation (signature verification is the gossip layer's job per §4.11).
func (s *Service) RecordAttestation(a Attestation) error {
	if err := s.store.PutAttestation(a); err != nil {
		return fmt.Errorf("attestation: persist attestation for %s: %w", a.Subject.Hex(), err)
	}
	return nil
}

// ComputeEligibility aggregates every currently known attestation for
// subject per §4.4 step 4 and applies the §3 eligibility predicate,
// persisting the fresh CompositeEligibility.
func (s *Service) ComputeEligibility(subject address.Address, currentHeight uint64) (*CompositeEligibility, error) {
	attestations, err := s.store.ListAttestations(subject)
	if err != nil {
		return nil, fmt.Errorf("attestation: list attestations for %s: %w", subject.Hex(), err)
	}
	if len(attestations) == 0 {
		return nil, ErrUnknownSubject
	}

	e := aggregate(subject, attestations, s.cfg)
	e.CachedAtHeight = currentHeight
	if err := s.store.PutEligibility(*e); err != nil {
		return nil, fmt.Errorf("attestation: persist eligibility for %s: %w", subject.Hex(), err)
	}
	return e, nil
}

// GetOrComputeEligibility returns the cached CompositeEligibility for
// subject, recomputing it if stale per §4.4's tolerance policy.
func (s *Service) GetOrComputeEligibility(subject address.Address, currentHeight uint64, currentStake float64, currentTxCount uint64) (*CompositeEligibility, error) {
	cached, err := s.store.GetEligibility(subject)
	if err != nil {
		return nil, fmt.Errorf("attestation: load eligibility for %s: %w", subject.Hex(), err)
	}
	if !cached.isStale(currentHeight, currentStake, currentTxCount, s.cfg.AttestationCacheBlocks) {
		return cached, nil
	}
	e, err := s.ComputeEligibility(subject, currentHeight)
	if err != nil {
		return nil, err
	}
	e.CachedStake = currentStake
	e.CachedTxCount = currentTxCount
	if err := s.store.PutEligibility(*e); err != nil {
		return nil, fmt.Errorf("attestation: persist eligibility for %s: %w", subject.Hex(), err)
	}
	return e, nil
}

// aggregate implements §4.4 step 4 and the §3 eligibility predicate, with
// the thresholds taken from cfg.
func aggregate(subject address.Address, attestations []Attestation, cfg *Config) *CompositeEligibility {
	n := len(attestations)
	var stakeOKCount, historyOKCount, networkOKCount, behaviorOKCount int
	var weightedSum, weightTotal float64
	raw := make([]float64, 0, n)

	for _, a := range attestations {
		if a.StakeOK {
			stakeOKCount++
		}
		if a.HistoryOK {
			historyOKCount++
		}
		if a.NetworkOK {
			networkOKCount++
		}
		if a.BehaviorOK {
			behaviorOKCount++
		}
		weight := float64(a.AttestorReputation) * a.Confidence
		weightedSum += weight * float64(a.TrustScore.Final)
		weightTotal += weight
		raw = append(raw, float64(a.TrustScore.Final))
	}

	avgTrust := 0.0
	if weightTotal > 0 {
		avgTrust = weightedSum / weightTotal
	}

	e := &CompositeEligibility{
		Subject:          subject,
		StakeOK:          agreesAt80Pct(stakeOKCount, n),
		HistoryOK:        agreesAt80Pct(historyOKCount, n),
		NetworkOK:        agreesAt80Pct(networkOKCount, n),
		BehaviorOK:       agreesAt80Pct(behaviorOKCount, n),
		AvgTrust:         avgTrust,
		TrustVariance:    populationStdDev(raw),
		AttestationCount: n,
	}
	e.Eligible = n >= cfg.EligibilityMinAttestations && e.StakeOK && e.HistoryOK && e.NetworkOK && e.BehaviorOK &&
		e.AvgTrust >= cfg.EligibilityMinTrust && e.TrustVariance <= cfg.EligibilityMaxVariance
	return e
}

func agreesAt80Pct(count, total int) bool {
	if total == 0 {
		return false
	}
	return float64(count)/float64(total) >= 0.80
}

func populationStdDev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}
