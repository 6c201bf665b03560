package behavior

import "errors"

var (
	// ErrNilStore is returned by NewTracker when constructed without a backing store.
	ErrNilStore = errors.New("behavior: store cannot be nil")
	// ErrInvalidTxHash reports a tx hash that is not 32 bytes long. RecordFraud
	// takes a fixed [32]byte and never returns it.
	ErrInvalidTxHash = errors.New("behavior: tx hash must be 32 bytes")
)
