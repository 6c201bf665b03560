package store

import "github.com/certen-trust/reputation-core/pkg/fraud"

// GetRecord implements fraud.Store (prefix "F").
func (s *Store) GetRecord(txHash [32]byte) (*fraud.Record, error) {
	var r fraud.Record
	found, err := s.getJSON(keyWithHash(prefixFraudRecord, txHash), &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// PutRecord implements fraud.Store (prefix "F"), height-indexed so a
// disconnect can reverse it per §4.10. When a Postgres audit mirror is
// configured, the record is also appended there for off-chain querying.
func (s *Store) PutRecord(r *fraud.Record) error {
	if err := s.putJSONAtHeight(keyWithHash(prefixFraudRecord, r.TxHash), r, r.BlockHeight); err != nil {
		return err
	}
	if s.mirror != nil {
		if err := s.mirror.MirrorFraudRecord(r); err != nil {
			s.logger.Printf("audit mirror write failed for fraud record %x: %v", r.TxHash, err)
		}
	}
	return nil
}

// DeleteRecord implements fraud.Store (prefix "F").
func (s *Store) DeleteRecord(txHash [32]byte) error {
	return s.kv.Delete(keyWithHash(prefixFraudRecord, txHash))
}

// RecordsAtHeight implements fraud.Store by scanning the fraud-record
// table and filtering by height. Fraud events are rare relative to
// sessions, so a full-table scan here is cheap; ReverseHeight (used for
// the bulk of reorg reversal) uses the height index instead.
func (s *Store) RecordsAtHeight(height uint64) ([]fraud.Record, error) {
	var out []fraud.Record
	err := s.kv.Iterate([]byte{prefixFraudRecord}, func(key, value []byte) bool {
		var r fraud.Record
		if err := unmarshalIgnoringErrors(value, &r); err == nil && r.BlockHeight == height {
			out = append(out, r)
		}
		return true
	})
	return out, err
}
