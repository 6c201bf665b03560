package wire

import "errors"

// ErrUnknownFraudVersion is returned by DecodeFraudTag for a recognised
// FRAUD marker carrying a version this core does not understand. Per §7
// the caller skips the output without failing block validation.
var ErrUnknownFraudVersion = errors.New("wire: unknown fraud record version")
