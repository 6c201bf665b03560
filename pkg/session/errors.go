package session

import "errors"

var (
	ErrNotInQuorum     = errors.New("session: validator not in request quorum")
	ErrNonceMismatch   = errors.New("session: response nonce does not match request nonce")
	ErrDuplicateVote   = errors.New("session: validator already responded in this session")
	ErrSessionTerminal = errors.New("session: session is already in a terminal state")
)
