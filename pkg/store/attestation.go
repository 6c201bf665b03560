package store

import (
	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/attestation"
)

// GetAttestation implements attestation.Store (prefix "A").
func (s *Store) GetAttestation(digest [32]byte) (*attestation.Attestation, error) {
	var a attestation.Attestation
	found, err := s.getJSON(keyWithHash(prefixAttestation, digest), &a)
	if err != nil || !found {
		return nil, err
	}
	return &a, nil
}

// PutAttestation implements attestation.Store (prefix "A").
func (s *Store) PutAttestation(a attestation.Attestation) error {
	return s.putJSON(keyWithHash(prefixAttestation, a.Digest()), a)
}

// ListAttestations implements attestation.Store by scanning every
// attestation row and filtering by subject. This core does not expect the
// attestation table to grow beyond what a single node keeps in its active
// working set (§4.4 caches eligibility precisely to avoid re-scanning it
// often); a larger deployment would add a subject-indexed secondary key.
func (s *Store) ListAttestations(subject address.Address) ([]attestation.Attestation, error) {
	var out []attestation.Attestation
	err := s.kv.Iterate([]byte{prefixAttestation}, func(key, value []byte) bool {
		var a attestation.Attestation
		if err := unmarshalIgnoringErrors(value, &a); err == nil && a.Subject == subject {
			out = append(out, a)
		}
		return true
	})
	return out, err
}

// GetEligibility implements attestation.Store (prefix "E").
func (s *Store) GetEligibility(subject address.Address) (*attestation.CompositeEligibility, error) {
	var e attestation.CompositeEligibility
	found, err := s.getJSON(keyWithAddress(prefixEligibility, subject), &e)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

// PutEligibility implements attestation.Store (prefix "E").
func (s *Store) PutEligibility(e attestation.CompositeEligibility) error {
	return s.putJSON(keyWithAddress(prefixEligibility, e.Subject), e)
}
