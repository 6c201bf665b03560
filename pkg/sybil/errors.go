package sybil

import "errors"

var ErrNoResponses = errors.New("sybil: cannot evaluate a session with no responses")
