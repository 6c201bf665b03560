package store

import (
	"encoding/binary"
	"fmt"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// GetNonce implements the §4.13 "N" prefix: the last-accepted monotonic
// nonce counter for addr, 0 if none has been recorded yet.
func (s *Store) GetNonce(addr address.Address) (uint64, error) {
	raw, err := s.kv.Get(keyWithAddress(prefixNonce, addr))
	if err != nil {
		return 0, fmt.Errorf("store: get nonce: %w", err)
	}
	if len(raw) != 8 {
		return 0, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

// AdvanceNonce stores next as addr's nonce counter, rejecting any value
// that does not strictly increase the previously recorded one - the
// core's replay-protection invariant for request/response nonces.
func (s *Store) AdvanceNonce(addr address.Address, next uint64) error {
	current, err := s.GetNonce(addr)
	if err != nil {
		return err
	}
	if next <= current {
		return fmt.Errorf("store: nonce %d does not advance past current %d for %s", next, current, addr.Hex())
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], next)
	if err := s.kv.Set(keyWithAddress(prefixNonce, addr), buf[:]); err != nil {
		return fmt.Errorf("store: put nonce: %w", err)
	}
	return nil
}
