package attestation

import "errors"

var (
	ErrNilStore          = errors.New("attestation: store cannot be nil")
	ErrNilDirectory      = errors.New("attestation: directory cannot be nil")
	ErrInvalidSignature  = errors.New("attestation: invalid signature")
	ErrUndersubscribed   = errors.New("attestation: fewer than 10 eligible attestors available")
	ErrUnknownSubject    = errors.New("attestation: no attestations recorded for subject")
)
