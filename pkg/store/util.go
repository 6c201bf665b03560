package store

import "encoding/json"

// unmarshalIgnoringErrors decodes raw into out, used by scan helpers that
// would rather skip a malformed row than abort the whole iteration.
func unmarshalIgnoringErrors(raw []byte, out interface{}) error {
	return json.Unmarshal(raw, out)
}
