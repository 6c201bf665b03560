// Copyright 2025 Certen Protocol

package payout

import (
	"fmt"
	"log"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// Accountant is C12 PayoutAccountant.
type Accountant struct {
	store  Store
	logger *log.Logger
}

// Config holds Accountant construction options.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Accountant default configuration.
func DefaultConfig() *Config {
	return &Config{Logger: log.New(log.Writer(), "[PayoutAccountant] ", log.LstdFlags)}
}

// NewAccountant builds an Accountant backed by store.
func NewAccountant(store Store, cfg *Config) (*Accountant, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[PayoutAccountant] ", log.LstdFlags)
	}
	return &Accountant{store: store, logger: cfg.Logger}, nil
}

// RecordFinalised persists the responding-validator set for txHash, per
// §4.12. The node calls it when a session is decided accept; nothing in
// the node moves a session on to Finalised before the record is written.
func (a *Accountant) RecordFinalised(txHash [32]byte, validators []address.Address) error {
	ordered := make([]address.Address, len(validators))
	copy(ordered, validators)
	record := &Record{TxHash: txHash, Validators: ordered}
	if err := a.store.PutPayoutRecord(record); err != nil {
		return fmt.Errorf("payout: persist record for %x: %w", txHash, err)
	}
	return nil
}

// AggregateBlock implements §4.12's per-block payout computation: a miner
// line of subsidy + 70% of the block's gas-fee total, and one line per
// distinct validator across every included tx-hash, splitting the
// remaining 30% equally with any integer remainder going to the miner.
// Block validators recompute this independently from the same inputs; any
// divergence invalidates the block.
func (a *Accountant) AggregateBlock(txHashes [][32]byte, subsidy, gasFeeTotal int64) (BlockPayout, error) {
	seen := make(map[address.Address]struct{})
	var validators []address.Address
	for _, txHash := range txHashes {
		record, err := a.store.GetPayoutRecord(txHash)
		if err != nil {
			return BlockPayout{}, fmt.Errorf("payout: load record for %x: %w", txHash, err)
		}
		if record == nil {
			continue
		}
		for _, v := range record.Validators {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			validators = append(validators, v)
		}
	}

	thirty := (gasFeeTotal * 3) / 10
	seventy := gasFeeTotal - thirty

	out := BlockPayout{ValidatorAmounts: make(map[address.Address]int64, len(validators))}
	if len(validators) == 0 {
		out.MinerAmount = subsidy + seventy + thirty
		return out, nil
	}

	share := thirty / int64(len(validators))
	remainder := thirty - share*int64(len(validators))

	for _, v := range validators {
		out.ValidatorAmounts[v] = share
	}
	out.MinerAmount = subsidy + seventy + remainder

	a.logger.Printf("aggregated payout for %d txs: miner=%d validators=%d share=%d", len(txHashes), out.MinerAmount, len(validators), share)
	return out, nil
}
