// Copyright 2025 Certen Protocol
//
// ValidationSession (C6) is the per-transaction state machine that
// collects validator responses and drives them toward a verdict.

package session

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/trust"
)

// Vote is a validator's decision on a ValidationRequest.
type Vote int

const (
	VoteAbstain Vote = iota
	VoteAccept
	VoteReject
)

func (v Vote) String() string {
	switch v {
	case VoteAccept:
		return "accept"
	case VoteReject:
		return "reject"
	default:
		return "abstain"
	}
}

// Request is the gossiped ValidationRequest of §3.
type Request struct {
	TxHash             [32]byte        `json:"tx_hash"`
	BlockHeight        uint64          `json:"block_height"`
	Sender             address.Address `json:"sender"`
	SenderSelfReported trust.Score     `json:"sender_self_reported"`
	Quorum             []address.Address `json:"quorum"`
	Nonce              [32]byte        `json:"nonce"`
	Signature          []byte          `json:"signature"`
}

// Response is the gossiped, persisted ValidationResponse of §3.
type Response struct {
	TxHash         [32]byte        `json:"tx_hash"`
	Validator      address.Address `json:"validator"`
	Computed       trust.Score     `json:"computed"`
	Vote           Vote            `json:"vote"`
	VoteConfidence float64         `json:"vote_confidence"`
	HasWoT         bool            `json:"has_wot"`
	Timestamp      int64           `json:"timestamp"`
	Nonce          [32]byte        `json:"nonce"`
	Signature      []byte          `json:"signature"`
}

// Digest hashes the fields that identify a ValidationResponse, leaving the
// signature itself out - the signature binds over this same digest, matching
// pkg/attestation's and pkg/dispute's digest-over-identifying-fields
// convention.
func (r Response) Digest() [32]byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, r.TxHash[:]...)
	buf = append(buf, r.Validator[:]...)
	buf = append(buf, byte(r.Vote))
	buf = append(buf, r.Nonce[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(r.Timestamp))
	buf = append(buf, ts[:]...)

	digest := crypto.Keccak256(buf)
	var out [32]byte
	copy(out[:], digest)
	return out
}

// State is one of the six ValidationSession states of §4.6.
type State int

const (
	StateOpen State = iota
	StateCollecting
	StateDecidedAccept
	StateDecidedReject
	StateDisputed
	StateFinalised
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateCollecting:
		return "collecting"
	case StateDecidedAccept:
		return "decided_accept"
	case StateDecidedReject:
		return "decided_reject"
	case StateDisputed:
		return "disputed"
	case StateFinalised:
		return "finalised"
	default:
		return "unknown"
	}
}

// Terminal reports whether s allows no further transitions except
// Finalised (itself reachable only from a decided state).
func (s State) Terminal() bool {
	return s == StateFinalised
}
