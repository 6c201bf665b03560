package dispute

import "errors"

var (
	ErrNilStore       = errors.New("dispute: nil store")
	ErrUnknownCase    = errors.New("dispute: unknown case id")
	ErrAlreadySubmitted = errors.New("dispute: case already submitted")
)
