package store

import "errors"

var ErrNilKV = errors.New("store: nil underlying KV")
