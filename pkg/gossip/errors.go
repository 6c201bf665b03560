package gossip

import "errors"

var (
	ErrNilBroadcaster  = errors.New("gossip: nil broadcaster")
	ErrRateLimited     = errors.New("gossip: validator exceeded rolling message rate limit")
	ErrInvalidSignature = errors.New("gossip: invalid signature")
)
