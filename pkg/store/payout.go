package store

import "github.com/certen-trust/reputation-core/pkg/payout"

// GetPayoutRecord implements payout.Store (prefix "V").
func (s *Store) GetPayoutRecord(txHash [32]byte) (*payout.Record, error) {
	var r payout.Record
	found, err := s.getJSON(keyWithHash(prefixPayout, txHash), &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// PutPayoutRecord implements payout.Store (prefix "V").
func (s *Store) PutPayoutRecord(r *payout.Record) error {
	return s.putJSON(keyWithHash(prefixPayout, r.TxHash), r)
}
