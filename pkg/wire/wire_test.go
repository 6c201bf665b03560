package wire

import "testing"

type testPayload struct {
	Foo string `json:"foo"`
	Bar int    `json:"bar"`
}

func TestEncodeDecodeMessageRoundTrip(t *testing.T) {
	in := testPayload{Foo: "hello", Bar: 42}
	b, err := EncodeMessage(KindResponse, in)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	var out testPayload
	if err := DecodeMessage(b, KindResponse, &out); err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestDecodeMessageWrongKind(t *testing.T) {
	b, _ := EncodeMessage(KindChallenge, testPayload{Foo: "x"})
	var out testPayload
	if err := DecodeMessage(b, KindDispute, &out); err == nil {
		t.Fatalf("expected error decoding under wrong kind")
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	if _, err := Decode([]byte{1, 2, 3}); err == nil {
		t.Fatalf("expected error for truncated header")
	}
}

func TestDecodeRejectsLengthMismatch(t *testing.T) {
	env := Envelope{Kind: KindAttestation, Payload: []byte("abcd")}
	b := env.Encode()
	b = append(b, 0xff) // trailing junk the length field does not account for
	if _, err := Decode(b); err == nil {
		t.Fatalf("expected error for length mismatch")
	}
}

func TestFraudTagRoundTrip(t *testing.T) {
	const tagByte = 0x6a
	record := testPayload{Foo: "fraudster", Bar: 35}

	encoded, err := EncodeFraudTag(tagByte, FraudRecordVersion1, record)
	if err != nil {
		t.Fatalf("EncodeFraudTag: %v", err)
	}

	var out testPayload
	ok, version, err := DecodeFraudTag(encoded, tagByte, &out)
	if err != nil {
		t.Fatalf("DecodeFraudTag: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true for a valid fraud tag")
	}
	if version != FraudRecordVersion1 {
		t.Fatalf("version = %d, want %d", version, FraudRecordVersion1)
	}
	if out != record {
		t.Fatalf("round trip mismatch: got %+v, want %+v", out, record)
	}
}

func TestDecodeFraudTagSkipsNonFraudOutput(t *testing.T) {
	ok, _, err := DecodeFraudTag([]byte{0x6a, 'N', 'O', 'P', 'E', '!', 1}, 0x6a, &testPayload{})
	if err != nil {
		t.Fatalf("expected no error for a non-fraud tagged output, got %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for output missing the FRAUD marker")
	}
}

func TestDecodeFraudTagUnknownVersion(t *testing.T) {
	encoded, _ := EncodeFraudTag(0x6a, FraudRecordVersion1, testPayload{Foo: "x"})
	// Tamper with the version byte.
	versionIdx := 1 + len(FraudTagMarker)
	encoded[versionIdx] = 2

	ok, version, err := DecodeFraudTag(encoded, 0x6a, &testPayload{})
	if !ok {
		t.Fatalf("expected ok=true even for an unknown version")
	}
	if version != 2 {
		t.Fatalf("version = %d, want 2", version)
	}
	if err != ErrUnknownFraudVersion {
		t.Fatalf("err = %v, want ErrUnknownFraudVersion", err)
	}
}
