// Copyright 2025 Certen Protocol
//
// wire implements the on-wire message envelope and the block-embedded
// fraud-record tag from spec §6. Framing (kind, length, payload) is packed
// exactly as specified; payload contents are JSON-encoded, matching the
// teacher's own persistence convention in pkg/ledger/store.go rather than a
// hand-rolled binary field codec - the envelope is what must be
// bit-for-bit stable across nodes, not the payload's internal shape.

package wire

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Kind identifies one of the five gossiped message types.
type Kind uint8

const (
	KindChallenge    Kind = 1
	KindResponse     Kind = 2
	KindAttestation  Kind = 3
	KindDispute      Kind = 4
	KindResolution   Kind = 5
)

func (k Kind) String() string {
	switch k {
	case KindChallenge:
		return "Challenge"
	case KindResponse:
		return "Response"
	case KindAttestation:
		return "Attestation"
	case KindDispute:
		return "Dispute"
	case KindResolution:
		return "Resolution"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// headerSize is len(u8 kind) + len(u32 length).
const headerSize = 1 + 4

// Envelope is Message := u8 kind ‖ u32 length ‖ payload.
type Envelope struct {
	Kind    Kind
	Payload []byte
}

// Encode serialises the envelope to its on-wire form.
func (e Envelope) Encode() []byte {
	out := make([]byte, headerSize+len(e.Payload))
	out[0] = byte(e.Kind)
	binary.BigEndian.PutUint32(out[1:5], uint32(len(e.Payload)))
	copy(out[5:], e.Payload)
	return out
}

// Decode parses an on-wire envelope, validating the declared length against
// the bytes actually present.
func Decode(b []byte) (Envelope, error) {
	if len(b) < headerSize {
		return Envelope{}, fmt.Errorf("wire: message shorter than header (%d bytes)", len(b))
	}
	kind := Kind(b[0])
	length := binary.BigEndian.Uint32(b[1:5])
	rest := b[headerSize:]
	if uint32(len(rest)) != length {
		return Envelope{}, fmt.Errorf("wire: declared length %d does not match payload length %d", length, len(rest))
	}
	payload := make([]byte, len(rest))
	copy(payload, rest)
	return Envelope{Kind: kind, Payload: payload}, nil
}

// EncodeMessage JSON-marshals msg and wraps it in an Envelope of the given kind.
func EncodeMessage(kind Kind, msg interface{}) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s payload: %w", kind, err)
	}
	return Envelope{Kind: kind, Payload: payload}.Encode(), nil
}

// DecodeMessage decodes an on-wire envelope of the expected kind and
// unmarshals its payload into out.
func DecodeMessage(b []byte, expect Kind, out interface{}) error {
	env, err := Decode(b)
	if err != nil {
		return err
	}
	if env.Kind != expect {
		return fmt.Errorf("wire: expected kind %s, got %s", expect, env.Kind)
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return fmt.Errorf("wire: decode %s payload: %w", expect, err)
	}
	return nil
}

// SignatureSize and NonceSize restate the §6 wire constants for callers that
// validate field lengths without importing pkg/signer.
const (
	SignatureSize = 64
	NonceSize     = 32
)

// FraudTagMarker is the 5-byte literal embedded after TAG_BYTE.
var FraudTagMarker = [5]byte{'F', 'R', 'A', 'U', 'D'}

// FraudRecordVersion1 is the only version this core encodes; decoders must
// tolerate and skip higher versions per §7's "unknown version" rule.
const FraudRecordVersion1 = 1

// EncodeFraudTag builds output_script := TAG_BYTE ‖ "FRAUD" ‖ u8 version ‖ payload.
// tagByte is the host chain's data-carrier opcode, supplied by the caller
// since this core does not assume a specific host chain.
func EncodeFraudTag(tagByte byte, version uint8, record interface{}) ([]byte, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("wire: encode fraud record: %w", err)
	}
	out := make([]byte, 0, 1+len(FraudTagMarker)+1+len(payload))
	out = append(out, tagByte)
	out = append(out, FraudTagMarker[:]...)
	out = append(out, version)
	out = append(out, payload...)
	return out, nil
}

// DecodeFraudTag parses a block-embedded fraud record output. If the output
// does not carry the FRAUD marker, ok is false and err is nil - the caller
// should simply skip the output, it is not an error condition. An unknown
// version returns ok=true, version set, but a non-nil ErrUnknownFraudVersion
// so the caller can log and skip per §7.
func DecodeFraudTag(output []byte, tagByte byte, out interface{}) (ok bool, version uint8, err error) {
	minLen := 1 + len(FraudTagMarker) + 1
	if len(output) < minLen || output[0] != tagByte {
		return false, 0, nil
	}
	if string(output[1:1+len(FraudTagMarker)]) != string(FraudTagMarker[:]) {
		return false, 0, nil
	}
	version = output[1+len(FraudTagMarker)]
	payload := output[minLen:]
	if version != FraudRecordVersion1 {
		return true, version, ErrUnknownFraudVersion
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return true, version, fmt.Errorf("wire: decode fraud record: %w", err)
	}
	return true, version, nil
}
