// Copyright 2025 Certen Protocol
//
// The validator directory backs attestation.Directory and
// quorum.EligibleSet. It is node-local derived state maintained by chain
// sync (reputation, connected-duration and last-active-height per
// address), not itself one of §4.13's named records.

package store

import "github.com/certen-trust/reputation-core/pkg/address"

// ValidatorRecord is one entry in the node-local validator directory.
type ValidatorRecord struct {
	Address         address.Address `json:"address"`
	PublicKey       []byte          `json:"public_key"` // Ed25519, for gossip-layer signature verification
	Reputation      int             `json:"reputation"`
	ConnectedBlocks uint64          `json:"connected_blocks"`
	LastActiveBlock uint64          `json:"last_active_block"`
}

// UpsertValidator writes or updates a validator's directory entry.
func (s *Store) UpsertValidator(rec ValidatorRecord) error {
	return s.putJSON(keyWithAddress(prefixValidator, rec.Address), rec)
}

// GetValidator returns a validator's directory entry, or nil if unknown.
func (s *Store) GetValidator(addr address.Address) (*ValidatorRecord, error) {
	var rec ValidatorRecord
	found, err := s.getJSON(keyWithAddress(prefixValidator, addr), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// EligibleAttestors implements attestation.Directory: validators meeting
// the §4.4 minimum reputation and connected-duration bar.
func (s *Store) EligibleAttestors(minReputation int, minConnectedBlocks uint64) ([]address.Address, error) {
	var out []address.Address
	err := s.kv.Iterate([]byte{prefixValidator}, func(key, value []byte) bool {
		var rec ValidatorRecord
		if err := unmarshalIgnoringErrors(value, &rec); err == nil &&
			rec.Reputation >= minReputation && rec.ConnectedBlocks >= minConnectedBlocks {
			out = append(out, rec.Address)
		}
		return true
	})
	return out, err
}

// ReputationOf implements attestation.Directory.
func (s *Store) ReputationOf(addr address.Address) (int, error) {
	rec, err := s.GetValidator(addr)
	if err != nil || rec == nil {
		return 0, err
	}
	return rec.Reputation, nil
}

// PublicKeyOf returns addr's registered Ed25519 public key. Returns nil, nil
// for an unknown validator. The node's gossip path does not call it; its
// classify step checks only that the sender has a directory entry.
func (s *Store) PublicKeyOf(addr address.Address) ([]byte, error) {
	rec, err := s.GetValidator(addr)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.PublicKey, nil
}

// EligibleValidators implements quorum.EligibleSet: addresses with a
// cached, eligible CompositeEligibility, active within the given window.
func (s *Store) EligibleValidators(blockHeight uint64, activeWindowBlocks uint64) ([]address.Address, error) {
	var out []address.Address
	err := s.kv.Iterate([]byte{prefixValidator}, func(key, value []byte) bool {
		var rec ValidatorRecord
		if err := unmarshalIgnoringErrors(value, &rec); err != nil {
			return true
		}
		if blockHeight > rec.LastActiveBlock+activeWindowBlocks {
			return true
		}
		elig, err := s.GetEligibility(rec.Address)
		if err != nil || elig == nil || !elig.Eligible {
			return true
		}
		out = append(out, rec.Address)
		return true
	})
	return out, err
}
