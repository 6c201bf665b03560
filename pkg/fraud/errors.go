package fraud

import "errors"

var (
	ErrNilStore      = errors.New("fraud: nil store")
	ErrNilBehavior   = errors.New("fraud: nil behavior tracker")
	ErrRecordNotFound = errors.New("fraud: record not found for reversal")
)
