package payout

import "errors"

var ErrNilStore = errors.New("payout: nil store")
