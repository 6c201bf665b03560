// Copyright 2025 Certen Protocol

package behavior

import (
	"fmt"
	"log"
	"sync"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// Tracker is C2 BehaviorMetrics: atomic fraud-event recording and O(1)
// fraud_score queries per address.
type Tracker struct {
	mu     sync.Mutex
	store  Store
	logger *log.Logger
}

// Config holds Tracker construction options.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Tracker default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logger: log.New(log.Writer(), "[BehaviorMetrics] ", log.LstdFlags),
	}
}

// NewTracker builds a Tracker backed by store.
func NewTracker(store Store, cfg *Config) (*Tracker, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[BehaviorMetrics] ", log.LstdFlags)
	}
	return &Tracker{store: store, logger: cfg.Logger}, nil
}

// RecordFraud appends txHash, increments fraud_count, adds penalty to the
// running total, and updates last_fraud_height - all under the Tracker's
// mutex, one lock shared by every address, so concurrent BehaviorMetrics
// writes never interleave.
func (t *Tracker) RecordFraud(addr address.Address, txHash [32]byte, height uint64, penalty int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	m, err := t.store.GetBehaviorMetrics(addr)
	if err != nil {
		return fmt.Errorf("behavior: load metrics for %s: %w", addr.Hex(), err)
	}
	if m == nil {
		m = &Metrics{}
	}

	m.FraudCount++
	m.LastFraudHeight = height
	m.TotalFraudPenalty += penalty
	m.FraudTxHashes = append(m.FraudTxHashes, txHash)

	if err := t.store.PutBehaviorMetrics(addr, m); err != nil {
		return fmt.Errorf("behavior: persist metrics for %s: %w", addr.Hex(), err)
	}
	t.logger.Printf("recorded fraud for %s: count=%d penalty=%d height=%d", addr.Hex(), m.FraudCount, m.TotalFraudPenalty, height)
	return nil
}

// FraudScore returns the current fraud_score for addr at currentHeight,
// 1.0 (clean) if addr has no recorded metrics.
func (t *Tracker) FraudScore(addr address.Address, currentHeight uint64) (float64, error) {
	m, err := t.store.GetBehaviorMetrics(addr)
	if err != nil {
		return 0, fmt.Errorf("behavior: load metrics for %s: %w", addr.Hex(), err)
	}
	return m.Score(currentHeight), nil
}

// Get returns the raw persisted Metrics for addr, or a zero-value Metrics
// if none exist yet.
func (t *Tracker) Get(addr address.Address) (*Metrics, error) {
	m, err := t.store.GetBehaviorMetrics(addr)
	if err != nil {
		return nil, fmt.Errorf("behavior: load metrics for %s: %w", addr.Hex(), err)
	}
	if m == nil {
		m = &Metrics{}
	}
	return m, nil
}
