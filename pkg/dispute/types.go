// Copyright 2025 Certen Protocol
//
// DisputeAuthority (C9) packages a ValidationSession's state for the
// external arbitration body and applies its binary resolution back.

package dispute

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen-trust/reputation-core/pkg/cluster"
	"github.com/certen-trust/reputation-core/pkg/session"
	"github.com/certen-trust/reputation-core/pkg/sybil"
)

// Resolution is the arbitration authority's binary verdict.
type Resolution int

const (
	ResolutionPending Resolution = iota
	ResolutionAccept
	ResolutionReject
)

func (r Resolution) String() string {
	switch r {
	case ResolutionAccept:
		return "accept"
	case ResolutionReject:
		return "reject"
	default:
		return "pending"
	}
}

// Case is the DisputeCase of §4.9: everything the external authority needs
// to rule on a disputed ValidationSession, plus the eventual resolution.
type Case struct {
	CaseID         [32]byte
	Session        session.Snapshot
	ClusterData    []cluster.Cluster
	AlertEvidence  sybil.InSessionResult
	SubmittedAt    int64
	Resolution     Resolution
	ResolvedAt     int64
}

// CaseID derives the content-address of a case from its session's tx_hash
// and nonce plus the case's submission time, matching pkg/attestation's digest-over-identifying-fields
// convention.
func CaseID(txHash, nonce [32]byte, submittedAt int64) [32]byte {
	buf := make([]byte, 0, 72)
	buf = append(buf, txHash[:]...)
	buf = append(buf, nonce[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(submittedAt))
	buf = append(buf, ts[:]...)

	digest := crypto.Keccak256(buf)
	var out [32]byte
	copy(out[:], digest)
	return out
}

// NewCase builds a Case from a disputed session's snapshot, cluster
// evidence and SybilGuard findings.
func NewCase(snap session.Snapshot, clusterData []cluster.Cluster, alert sybil.InSessionResult, submittedAt int64) Case {
	return Case{
		CaseID:        CaseID(snap.Request.TxHash, snap.Request.Nonce, submittedAt),
		Session:       snap,
		ClusterData:   clusterData,
		AlertEvidence: alert,
		SubmittedAt:   submittedAt,
		Resolution:    ResolutionPending,
	}
}
