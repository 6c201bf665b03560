// Copyright 2025 Certen Protocol
//
// Address - the opaque 160-bit identifier shared by every component of the
// reputation-consensus core. Mirrors the byte-array-with-helpers shape of
// go-ethereum's common.Address, since the host chain's canonical hash and
// address conventions are assumed to be EVM-shaped (§6 "Quorum seed").

package address

import (
	"bytes"
	"encoding/hex"
	"errors"
	"sort"
)

// Size is the fixed length of an Address in bytes (160 bits).
const Size = 20

// Address is an opaque 160-bit identifier for a chain participant.
type Address [Size]byte

// ErrInvalidLength is returned when decoding a byte slice of the wrong size.
var ErrInvalidLength = errors.New("address: invalid length")

// FromBytes builds an Address from a byte slice, which must be exactly Size
// bytes long.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, ErrInvalidLength
	}
	copy(a[:], b)
	return a, nil
}

// FromHex parses a hex-encoded address, with or without a leading "0x".
func FromHex(s string) (Address, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, err
	}
	return FromBytes(b)
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the "0x"-prefixed hex encoding of the address.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// IsZero reports whether the address is the all-zero value.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Compare provides a deterministic total order over addresses, used by
// QuorumSelector's "lower-address-first" tie-break and by Persistence's
// sorted iteration over per-address keys.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// Less reports whether a sorts before b.
func (a Address) Less(b Address) bool {
	return a.Compare(b) < 0
}

// Sort sorts a slice of addresses in place, ascending.
func Sort(addrs []Address) {
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Less(addrs[j])
	})
}

// Set is a small helper for deduplicating addresses while preserving the
// ability to iterate in sorted order.
type Set map[Address]struct{}

// NewSet builds a Set from a slice of addresses.
func NewSet(addrs ...Address) Set {
	s := make(Set, len(addrs))
	for _, a := range addrs {
		s[a] = struct{}{}
	}
	return s
}

// Add inserts an address into the set.
func (s Set) Add(a Address) {
	s[a] = struct{}{}
}

// Contains reports whether the address is present.
func (s Set) Contains(a Address) bool {
	_, ok := s[a]
	return ok
}

// Slice returns the set's members as a sorted slice.
func (s Set) Slice() []Address {
	out := make([]Address, 0, len(s))
	for a := range s {
		out = append(out, a)
	}
	Sort(out)
	return out
}
