package fraud

import "github.com/certen-trust/reputation-core/pkg/address"

// Store persists FraudRecords under the §4.13 "F" key prefix, keyed by
// tx_hash, with a height index so a reorg can find and reverse everything
// applied at a disconnected height.
type Store interface {
	GetRecord(txHash [32]byte) (*Record, error)
	PutRecord(r *Record) error
	DeleteRecord(txHash [32]byte) error
	RecordsAtHeight(height uint64) ([]Record, error)
}

// BehaviorTracker is the subset of pkg/behavior.Tracker's surface the
// ledger needs to apply a fraud penalty.
type BehaviorTracker interface {
	RecordFraud(addr address.Address, txHash [32]byte, height uint64, penalty int) error
}
