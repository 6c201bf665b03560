package store

import "github.com/certen-trust/reputation-core/pkg/dispute"

// GetCase implements dispute.Store (prefix "D").
func (s *Store) GetCase(caseID [32]byte) (*dispute.Case, error) {
	var c dispute.Case
	found, err := s.getJSON(keyWithHash(prefixDisputeCase, caseID), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

// PutCase implements dispute.Store (prefix "D"). A resolved case is also
// mirrored to the optional Postgres audit sink.
func (s *Store) PutCase(c *dispute.Case) error {
	if err := s.putJSON(keyWithHash(prefixDisputeCase, c.CaseID), c); err != nil {
		return err
	}
	if s.mirror != nil && c.Resolution != dispute.ResolutionPending {
		if err := s.mirror.MirrorDisputeResolution(c); err != nil {
			s.logger.Printf("audit mirror write failed for case %x: %v", c.CaseID, err)
		}
	}
	return nil
}
