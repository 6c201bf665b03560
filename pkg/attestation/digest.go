package attestation

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/crypto"
)

// digestAttestation hashes the fields that identify an attestation for
// dedup and persistence keying, leaving the signature itself out (the
// signature binds over this same digest plus the nonce, per §3).
func digestAttestation(a Attestation) [32]byte {
	buf := make([]byte, 0, 128)
	buf = append(buf, a.Subject[:]...)
	buf = append(buf, a.Attestor[:]...)
	buf = append(buf, a.SubjectClaimDigest[:]...)
	buf = append(buf, a.Nonce[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(a.Timestamp))
	buf = append(buf, ts[:]...)

	digest := crypto.Keccak256(buf)
	var out [32]byte
	copy(out[:], digest)
	return out
}

// DigestAnnounce hashes an Announce's subject, nonce and timestamp. Callers
// building an Attestation in response to an Announce use this as the
// Attestation's SubjectClaimDigest. The Announce's Metrics are not part of
// the digest, so two announces differing only in Metrics share it.
func DigestAnnounce(a Announce) [32]byte {
	return digestAnnounce(a)
}

// digestAnnounce hashes an Announce's subject, nonce and timestamp, used as
// the deterministic seed for attestor selection (§4.4 step 2).
func digestAnnounce(a Announce) [32]byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, a.Subject[:]...)
	buf = append(buf, a.Nonce[:]...)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(a.Timestamp))
	buf = append(buf, ts[:]...)

	digest := crypto.Keccak256(buf)
	var out [32]byte
	copy(out[:], digest)
	return out
}
