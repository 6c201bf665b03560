// Copyright 2025 Certen Protocol
//
// Ed25519 signer with domain separation, adapted from the teacher's
// pkg/attestation/strategy/ed25519_strategy.go. §6 fixes the on-wire
// signature size at 64 bytes, which is exactly ed25519.SignatureSize -
// no curve negotiation is needed at this layer.

package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// Domain separation tags, one per gossiped message kind that carries a
// signature (§4.11).
const (
	DomainAttestation = "CERTEN_RC_ATTESTATION_V1"
	DomainResponse    = "CERTEN_RC_RESPONSE_V1"
	DomainRequest     = "CERTEN_RC_REQUEST_V1"
	DomainAnnounce    = "CERTEN_RC_ANNOUNCE_V1"
)

// SignatureSize is the fixed size of a signature on the wire (§6).
const SignatureSize = ed25519.SignatureSize

// NonceSize is the fixed size of a gossip nonce (§6).
const NonceSize = 32

// Signer signs and verifies messages on behalf of a single local identity.
type Signer struct {
	addr       address.Address
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
}

// New wraps an existing Ed25519 private key. The corresponding Address is
// derived by hashing the public key, matching how the host chain derives
// addresses from keys.
func New(priv ed25519.PrivateKey) (*Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("signer: invalid private key size: expected %d, got %d", ed25519.PrivateKeySize, len(priv))
	}
	pub := priv.Public().(ed25519.PublicKey)
	return &Signer{
		addr:       AddressFromPublicKey(pub),
		privateKey: priv,
		publicKey:  pub,
	}, nil
}

// Generate creates a new random key pair and wraps it in a Signer.
func Generate() (*Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("signer: generate key pair: %w", err)
	}
	return &Signer{
		addr:       AddressFromPublicKey(pub),
		privateKey: priv,
		publicKey:  pub,
	}, nil
}

// AddressFromPublicKey derives the 160-bit Address for a public key by
// truncating its SHA-256 digest, mirroring the host chain's
// hash-of-pubkey address derivation.
func AddressFromPublicKey(pub ed25519.PublicKey) address.Address {
	digest := sha256.Sum256(pub)
	var a address.Address
	copy(a[:], digest[len(digest)-address.Size:])
	return a
}

// Address returns this signer's derived address.
func (s *Signer) Address() address.Address {
	return s.addr
}

// PublicKey returns the raw Ed25519 public key.
func (s *Signer) PublicKey() ed25519.PublicKey {
	return s.publicKey
}

// PrivateKeyBytes returns the raw Ed25519 private key, for callers that
// need to persist it (e.g. cmd/reputation-node's key file).
func (s *Signer) PrivateKeyBytes() ed25519.PrivateKey {
	return s.privateKey
}

// Sign signs message under the given domain, returning a 64-byte signature.
func (s *Signer) Sign(domain string, message []byte) []byte {
	return ed25519.Sign(s.privateKey, domainSeparate(domain, message))
}

// Verify checks a signature produced by Sign against an arbitrary public
// key, so any node can verify any other node's gossiped message.
func Verify(pub ed25519.PublicKey, domain string, message, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, domainSeparate(domain, message), sig)
}

func domainSeparate(domain string, message []byte) []byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write(message)
	return h.Sum(nil)
}
