package attestation

import "github.com/certen-trust/reputation-core/pkg/address"

// Store is the slice of C13 Persistence (key prefixes "A" and "E") this
// package needs.
type Store interface {
	GetAttestation(digest [32]byte) (*Attestation, error)
	PutAttestation(a Attestation) error
	// ListAttestations returns every currently known attestation for
	// subject; the order of the result is not specified.
	ListAttestations(subject address.Address) ([]Attestation, error)

	GetEligibility(subject address.Address) (*CompositeEligibility, error)
	PutEligibility(e CompositeEligibility) error
}

// Directory resolves the candidate attestor pool: nodes that meet the
// §4.4 minimum reputation and connected-duration bar. It is an external
// collaborator (typically backed by the same validator-activity tracking
// QuorumSelector uses).
type Directory interface {
	EligibleAttestors(minReputation int, minConnectedBlocks uint64) ([]address.Address, error)
	ReputationOf(addr address.Address) (int, error)
}
