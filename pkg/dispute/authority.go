// Copyright 2025 Certen Protocol

package dispute

import (
	"fmt"
	"log"
)

// Authority is C9 DisputeAuthority's in-core half: packaging, submission
// and idempotent resolution of cases ruled on by the external arbitration
// body (§4.9 - "the authority itself is an external collaborator").
type Authority struct {
	store    Store
	gossiper Gossiper
	logger   *log.Logger
}

// Config holds Authority construction options.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Authority default configuration.
func DefaultConfig() *Config {
	return &Config{Logger: log.New(log.Writer(), "[DisputeAuthority] ", log.LstdFlags)}
}

// NewAuthority builds an Authority backed by store and gossiper. gossiper
// may be nil for callers that submit cases without network propagation
// (e.g. tests, or a node running in single-validator mode).
func NewAuthority(store Store, gossiper Gossiper, cfg *Config) (*Authority, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[DisputeAuthority] ", log.LstdFlags)
	}
	return &Authority{store: store, gossiper: gossiper, logger: cfg.Logger}, nil
}

// Submit persists c and gossips it to the network for the external
// authority to observe, per §4.9. Submitting the same case twice is
// rejected: resolution flows through ApplyResolution, not a second Submit.
func (a *Authority) Submit(c Case) error {
	existing, err := a.store.GetCase(c.CaseID)
	if err != nil {
		return fmt.Errorf("dispute: check existing case: %w", err)
	}
	if existing != nil {
		return ErrAlreadySubmitted
	}
	if err := a.store.PutCase(&c); err != nil {
		return fmt.Errorf("dispute: persist case: %w", err)
	}
	if a.gossiper != nil {
		if err := a.gossiper.GossipCase(&c); err != nil {
			return fmt.Errorf("dispute: gossip case: %w", err)
		}
	}
	a.logger.Printf("submitted case %x for session %x", c.CaseID, c.Session.Request.TxHash)
	return nil
}

// ApplyResolution records the external authority's binary verdict for
// caseID. Idempotent: re-applying the same resolution to an already
// resolved case is a no-op, matching §4.9's "consumes its output
// idempotently".
func (a *Authority) ApplyResolution(caseID [32]byte, r Resolution, resolvedAt int64) error {
	c, err := a.store.GetCase(caseID)
	if err != nil {
		return fmt.Errorf("dispute: load case: %w", err)
	}
	if c == nil {
		return ErrUnknownCase
	}
	if c.Resolution != ResolutionPending {
		if c.Resolution == r {
			return nil
		}
		a.logger.Printf("warning: case %x already resolved as %s, ignoring new resolution %s", caseID, c.Resolution, r)
		return nil
	}

	c.Resolution = r
	c.ResolvedAt = resolvedAt
	if err := a.store.PutCase(c); err != nil {
		return fmt.Errorf("dispute: persist resolution: %w", err)
	}
	if a.gossiper != nil {
		if err := a.gossiper.GossipResolution(caseID, r); err != nil {
			return fmt.Errorf("dispute: gossip resolution: %w", err)
		}
	}
	a.logger.Printf("case %x resolved: %s", caseID, r)
	return nil
}

// Case returns the persisted case for caseID, or nil if unknown.
func (a *Authority) Case(caseID [32]byte) (*Case, error) {
	return a.store.GetCase(caseID)
}
