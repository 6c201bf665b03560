package store

import (
	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/behavior"
)

// GetBehaviorMetrics implements behavior.Store (prefix "B").
func (s *Store) GetBehaviorMetrics(addr address.Address) (*behavior.Metrics, error) {
	var m behavior.Metrics
	found, err := s.getJSON(keyWithAddress(prefixBehavior, addr), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

// PutBehaviorMetrics implements behavior.Store (prefix "B").
func (s *Store) PutBehaviorMetrics(addr address.Address, m *behavior.Metrics) error {
	return s.putJSON(keyWithAddress(prefixBehavior, addr), m)
}
