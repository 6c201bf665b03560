// Copyright 2025 Certen Protocol

package fraud

import (
	"fmt"
	"log"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

// Ledger is C10 FraudLedger.
type Ledger struct {
	store    Store
	behavior BehaviorTracker
	tagByte  byte
	logger   *log.Logger
}

// Config holds Ledger construction options.
type Config struct {
	// TagByte is the host chain's data-carrier opcode used to mark fraud
	// records in block data (§4.10).
	TagByte byte
	Logger  *log.Logger
}

// DefaultConfig returns the Ledger default configuration. TagByte defaults
// to 0x6a, Bitcoin-family chains' OP_RETURN - callers targeting a
// different host chain override it.
func DefaultConfig() *Config {
	return &Config{
		TagByte: 0x6a,
		Logger:  log.New(log.Writer(), "[FraudLedger] ", log.LstdFlags),
	}
}

// NewLedger builds a Ledger backed by store and behavior.
func NewLedger(store Store, behavior BehaviorTracker, cfg *Config) (*Ledger, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if behavior == nil {
		return nil, ErrNilBehavior
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[FraudLedger] ", log.LstdFlags)
	}
	return &Ledger{store: store, behavior: behavior, tagByte: cfg.TagByte, logger: cfg.Logger}, nil
}

// RecordAndApply builds the fraud record for a decided-reject verdict,
// applies its reputation penalty via BehaviorMetrics (C2), persists it, and
// returns the tagged block-data output ready for embedding, per §4.10.
func (l *Ledger) RecordAndApply(txHash [32]byte, fraudster address.Address, claimedFinal, actualFinal int, blockHeight uint64, timestamp int64, penaltyFn func(int) (int, float64)) (Record, []byte, error) {
	record := NewRecord(txHash, fraudster, claimedFinal, actualFinal, blockHeight, timestamp, penaltyFn)

	if err := l.apply(record); err != nil {
		return Record{}, nil, err
	}

	tagged, err := wire.EncodeFraudTag(l.tagByte, wire.FraudRecordVersion1, record)
	if err != nil {
		return Record{}, nil, fmt.Errorf("fraud: tag record: %w", err)
	}
	return record, tagged, nil
}

// RecordAndApplyReasoned builds and applies a fraud record carrying a fixed
// reputation penalty and a reason tag rather than one derived from a
// claimed/actual score mismatch - the §4.8 sybil autopenalty's "-50
// reputation + fraud event tagged 'sybil'" action. reputationPenalty is the
// positive magnitude to apply, matching RecordAndApply's convention.
func (l *Ledger) RecordAndApplyReasoned(fraudster address.Address, reputationPenalty int, reason string, blockHeight uint64, timestamp int64) (Record, error) {
	record := Record{
		Fraudster:         fraudster,
		ReputationPenalty: reputationPenalty,
		BlockHeight:       blockHeight,
		Timestamp:         timestamp,
		Reason:            reason,
	}
	if err := l.apply(record); err != nil {
		return Record{}, err
	}
	return record, nil
}

// ScanOutput decodes a single block-data output, and if it carries a fraud
// tag, applies and persists it - the chain-sync path of §4.10. ok is false
// when output carries no fraud tag (the caller should simply skip it).
func (l *Ledger) ScanOutput(output []byte, blockHeight uint64) (ok bool, err error) {
	var record Record
	tagged, _, decodeErr := wire.DecodeFraudTag(output, l.tagByte, &record)
	if !tagged {
		return false, nil
	}
	if decodeErr != nil {
		l.logger.Printf("skipping fraud output at height %d: %v", blockHeight, decodeErr)
		return true, nil
	}
	record.BlockHeight = blockHeight
	if err := l.apply(record); err != nil {
		return true, err
	}
	return true, nil
}

// apply records the reputation penalty and persists the record.
func (l *Ledger) apply(record Record) error {
	if err := l.behavior.RecordFraud(record.Fraudster, record.TxHash, record.BlockHeight, record.ReputationPenalty); err != nil {
		return fmt.Errorf("fraud: apply penalty for %s: %w", record.Fraudster.Hex(), err)
	}
	if err := l.store.PutRecord(&record); err != nil {
		return fmt.Errorf("fraud: persist record: %w", err)
	}
	l.logger.Printf("applied fraud record for %s: delta=%d penalty=%d slash=%.2f height=%d",
		record.Fraudster.Hex(), record.ScoreDelta, record.ReputationPenalty, record.BondSlashFraction, record.BlockHeight)
	return nil
}

// ReverseHeight deletes every fraud record recorded at height, on a reorg
// disconnect, per §4.10's "applications are keyed by block height so a
// disconnect reverses them". BehaviorMetrics has no inverse operation for a
// single penalty, and the store keeps no height-keyed BehaviorMetrics
// snapshots, so the fraud count, penalty total and last fraud height
// already applied to the fraudster's BehaviorMetrics are left unchanged.
func (l *Ledger) ReverseHeight(height uint64) error {
	records, err := l.store.RecordsAtHeight(height)
	if err != nil {
		return fmt.Errorf("fraud: list records at height %d: %w", height, err)
	}
	for _, r := range records {
		if err := l.store.DeleteRecord(r.TxHash); err != nil {
			return fmt.Errorf("fraud: delete record %x: %w", r.TxHash, err)
		}
		l.logger.Printf("reversed fraud record for %s at height %d", r.Fraudster.Hex(), height)
	}
	return nil
}

// Get returns the persisted record for txHash, or nil if none exists.
func (l *Ledger) Get(txHash [32]byte) (*Record, error) {
	return l.store.GetRecord(txHash)
}
