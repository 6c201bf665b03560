// Copyright 2025 Certen Protocol
//
// Store (C13 Persistence) implements the §4.13 key layout atop pkg/kvdb's
// CometBFT-backed KV adapter: prefix-tagged, JSON-valued rows, each written
// on its own as soon as it is put (there is no batching). Rows written with
// putJSONAtHeight (fraud records) are reversible by height on reorg.

package store

import "encoding/binary"

// Key prefixes, exactly the §4.13 table.
const (
	prefixAttestation   = 'A' // attestation-digest -> Attestation
	prefixEligibility   = 'E' // subject-address -> CompositeEligibility
	prefixSession       = 'S' // tx-hash -> ValidationSession snapshot
	prefixDisputeCase   = 'D' // case-id -> DisputeCase
	prefixFraudRecord   = 'F' // tx-hash -> FraudRecord
	prefixBehavior      = 'B' // address -> BehaviorMetrics
	prefixPayout        = 'V' // tx-hash -> ordered Vec<Address>
	prefixNonce         = 'N' // address -> nonce (monotonic)

	// Supplemental prefixes beyond §4.13's table: the validator directory
	// backing QuorumSelector's EligibleSet and AttestationService's
	// Directory is node-local derived state, not itself a spec-named
	// record, but it has to live somewhere for either interface to be
	// servable from disk.
	prefixValidator = 'R' // address -> validatorRecord

	// heightIndex prefix holds a "this key existed as of this height"
	// index entry used purely for reorg reversal; it is a derived index,
	// not a separate value store.
	prefixHeightIndex = 'H'
)

func keyWithAddress(prefix byte, addr [20]byte) []byte {
	out := make([]byte, 0, 1+20)
	out = append(out, prefix)
	out = append(out, addr[:]...)
	return out
}

func keyWithHash(prefix byte, hash [32]byte) []byte {
	out := make([]byte, 0, 1+32)
	out = append(out, prefix)
	out = append(out, hash[:]...)
	return out
}

func heightIndexKey(height uint64, dataKey []byte) []byte {
	out := make([]byte, 0, 1+8+len(dataKey))
	out = append(out, prefixHeightIndex)
	var h [8]byte
	binary.BigEndian.PutUint64(h[:], height)
	out = append(out, h[:]...)
	out = append(out, dataKey...)
	return out
}

func heightIndexPrefix(height uint64) []byte {
	out := make([]byte, 0, 1+8)
	out = append(out, prefixHeightIndex)
	var h [8]byte
	binary.BigEndian.PutUint64(h[:], height)
	out = append(out, h[:]...)
	return out
}
