package quorum

import "errors"

var (
	ErrNilEligibleSet  = errors.New("quorum: eligible set cannot be nil")
	ErrUndersubscribed = errors.New("quorum: eligible validator set smaller than quorum size")
)
