// Copyright 2025 Certen Protocol

package session

import (
	"sync"
	"time"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// Timeout is the §4.6 Open-to-terminal deadline.
const Timeout = 30 * time.Second

// Session is C6 ValidationSession: the single-writer state machine owning
// one transaction's request/response collection. Exactly one task mutates
// a given Session (§5); Snapshot gives every other observer an immutable
// copy instead of a reference into live state.
type Session struct {
	mu sync.Mutex

	request   Request
	responses []Response
	seen      map[address.Address]struct{}
	state     State
	openedAt  time.Time
	deadline  time.Time
}

// NewSession opens a session for request, per §4.6's initial Open state.
func NewSession(request Request, now time.Time) *Session {
	return &Session{
		request:  request,
		seen:     make(map[address.Address]struct{}, len(request.Quorum)),
		state:    StateOpen,
		openedAt: now,
		deadline: now.Add(Timeout),
	}
}

// Snapshot is an immutable view of a Session for non-owning observers.
type Snapshot struct {
	Request   Request
	Responses []Response
	State     State
	OpenedAt  time.Time
	Deadline  time.Time
}

// Snapshot returns a copy of the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	responses := make([]Response, len(s.responses))
	copy(responses, s.responses)
	return Snapshot{
		Request:   s.request,
		Responses: responses,
		State:     s.state,
		OpenedAt:  s.openedAt,
		Deadline:  s.deadline,
	}
}

// AddResponse validates and appends resp per §4.6's duplicate/replay rule:
// (b) validator is a quorum member, (c) nonce echoes the request nonce,
// (d) the (tx_hash, validator) pair has not been seen. (a) signature
// verification against validator is the gossip layer's responsibility
// (§4.11) and is assumed already satisfied by the time AddResponse is
// called.
func (s *Session) AddResponse(resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() || s.state == StateDisputed {
		return ErrSessionTerminal
	}
	if resp.Nonce != s.request.Nonce {
		return ErrNonceMismatch
	}
	if !inQuorum(resp.Validator, s.request.Quorum) {
		return ErrNotInQuorum
	}
	if _, dup := s.seen[resp.Validator]; dup {
		return ErrDuplicateVote
	}

	s.seen[resp.Validator] = struct{}{}
	s.responses = append(s.responses, resp)
	if s.state == StateOpen {
		s.state = StateCollecting
	}
	return nil
}

// Decide transitions to DecidedAccept or DecidedReject. Callers invoke this
// after ConsensusAggregator (C7) has evaluated the current response set.
func (s *Session) Decide(accept bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return ErrSessionTerminal
	}
	if accept {
		s.state = StateDecidedAccept
	} else {
		s.state = StateDecidedReject
	}
	return nil
}

// Dispute transitions to Disputed: on timeout, an inconclusive verdict, or
// a SybilGuard (C8) coordinated-attack flag.
func (s *Session) Dispute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.state = StateDisputed
}

// Finalise transitions to Finalised once the decided result's embedding
// block connects.
func (s *Session) Finalise() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDecidedAccept && s.state != StateDecidedReject {
		return ErrSessionTerminal
	}
	s.state = StateFinalised
	return nil
}

// CheckTimeout disputes the session if now is past its deadline and it has
// not yet reached a terminal or decided state.
func (s *Session) CheckTimeout(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() || s.state == StateDisputed {
		return
	}
	if s.state == StateDecidedAccept || s.state == StateDecidedReject {
		return
	}
	if now.After(s.deadline) {
		s.state = StateDisputed
	}
}

// NonResponders returns quorum members who have not yet submitted a
// response, the set §4.6 penalises (−1 reputation, abstention increment)
// on timeout.
func (s *Session) NonResponders() []address.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]address.Address, 0, len(s.request.Quorum))
	for _, v := range s.request.Quorum {
		if _, ok := s.seen[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

func inQuorum(addr address.Address, quorum []address.Address) bool {
	for _, q := range quorum {
		if q == addr {
			return true
		}
	}
	return false
}
