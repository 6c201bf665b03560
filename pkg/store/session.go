package store

import "github.com/certen-trust/reputation-core/pkg/session"

// GetSession implements session.Store (prefix "S").
func (s *Store) GetSession(txHash [32]byte) (*session.Snapshot, error) {
	var snap session.Snapshot
	found, err := s.getJSON(keyWithHash(prefixSession, txHash), &snap)
	if err != nil || !found {
		return nil, err
	}
	return &snap, nil
}

// PutSession implements session.Store (prefix "S").
func (s *Store) PutSession(snap session.Snapshot) error {
	return s.putJSON(keyWithHash(prefixSession, snap.Request.TxHash), snap)
}
