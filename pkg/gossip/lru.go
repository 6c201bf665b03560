// Copyright 2025 Certen Protocol

package gossip

import "container/list"

// digestSet is a fixed-capacity LRU of [32]byte digests, used for the
// Challenge/Attestation/Dispute/Resolution seen-sets of §4.11.
type digestSet struct {
	capacity int
	order    *list.List
	index    map[[32]byte]*list.Element
}

func newDigestSet(capacity int) *digestSet {
	return &digestSet{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[[32]byte]*list.Element, capacity),
	}
}

// seen reports whether digest has been recorded, and if not, records it,
// evicting the least-recently-seen entry if the set is at capacity.
func (s *digestSet) seen(digest [32]byte) bool {
	if el, ok := s.index[digest]; ok {
		s.order.MoveToFront(el)
		return true
	}
	el := s.order.PushFront(digest)
	s.index[digest] = el
	if s.order.Len() > s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.index, oldest.Value.([32]byte))
		}
	}
	return false
}

// sessionSeenSet is the Response seen-set of §4.11: an LRU of sessions
// (capacity MaxSeenSessions), each tracking which validators' responses
// within that session have already been seen.
type sessionSeenSet struct {
	capacity int
	order    *list.List
	index    map[[32]byte]*list.Element
}

type sessionEntry struct {
	session    [32]byte
	validators map[[20]byte]struct{}
}

func newSessionSeenSet(capacity int) *sessionSeenSet {
	return &sessionSeenSet{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[[32]byte]*list.Element, capacity),
	}
}

// seen reports whether (session, validator) has already been seen, and if
// not, records it. A new session evicts the least-recently-used tracked
// session once the set is at capacity.
func (s *sessionSeenSet) seen(session [32]byte, validator [20]byte) bool {
	el, ok := s.index[session]
	if ok {
		s.order.MoveToFront(el)
		entry := el.Value.(*sessionEntry)
		if _, dup := entry.validators[validator]; dup {
			return true
		}
		entry.validators[validator] = struct{}{}
		return false
	}

	entry := &sessionEntry{session: session, validators: map[[20]byte]struct{}{validator: {}}}
	el = s.order.PushFront(entry)
	s.index[session] = el
	if s.order.Len() > s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.index, oldest.Value.(*sessionEntry).session)
		}
	}
	return false
}
