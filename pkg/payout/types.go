// Copyright 2025 Certen Protocol
//
// PayoutAccountant (C12) persists the responding-validator set for each
// session decided accept and aggregates per-block payout outputs from
// it, per §4.12.

package payout

import "github.com/certen-trust/reputation-core/pkg/address"

// Record is the PayoutRecord of §4.12: the ordered set of validators who
// responded to a finalised-accept transaction.
type Record struct {
	TxHash     [32]byte          `json:"tx_hash"`
	Validators []address.Address `json:"validators"`
}

// BlockPayout is the aggregated per-block payout output of §4.12.
type BlockPayout struct {
	MinerAmount      int64
	ValidatorAmounts map[address.Address]int64
}
