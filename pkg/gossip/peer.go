package gossip

import (
	"github.com/certen-trust/reputation-core/pkg/address"
	"github.com/certen-trust/reputation-core/pkg/wire"
)

// Broadcaster sends an already-encoded message to peers, implemented by
// the node's transport layer.
type Broadcaster interface {
	// Broadcast relays payload of the given kind to every peer other than
	// except (the address the message arrived from, or the zero address
	// for locally-originated messages).
	Broadcast(kind wire.Kind, payload []byte, except address.Address) error

	// SendTo delivers payload directly to a single peer, used for the
	// targeted Challenge send of §4.11.
	SendTo(peer address.Address, kind wire.Kind, payload []byte) error
}

// MisbehaviourStore accumulates per-peer misbehaviour points, consulted by
// the node's peer-scoring/ban policy.
type MisbehaviourStore interface {
	IncrementMisbehaviour(peer address.Address, delta int) error
}
