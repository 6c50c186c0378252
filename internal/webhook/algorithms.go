package webhook

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
)

// Algorithm verifies a signature over a finished message with a raw public
// key. Implementations are stateless values; a provider adapter picks its
// algorithm at construction time so the hot path stays branch-free.
type Algorithm interface {
	Name() string
	Verify(publicKey, message, signature []byte) error
}

// Ed25519 verifies raw 64-byte Ed25519 signatures with a 32-byte public key.
type Ed25519 struct{}

func (Ed25519) Name() string { return "ed25519" }

func (Ed25519) Verify(publicKey, message, signature []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("ed25519 public key must be %d bytes, got %d", ed25519.PublicKeySize, len(publicKey))
	}
	// Reject non-canonical S values up front; ed25519.Verify would too,
	// but the explicit check keeps malleable signatures out of the library
	// call entirely.
	if len(signature) != ed25519.SignatureSize || signature[63]&224 != 0 {
		return errors.New("ed25519 signature is malformed")
	}
	if !ed25519.Verify(ed25519.PublicKey(publicKey), message, signature) {
		return errors.New("ed25519 verification failed")
	}
	return nil
}

// ECDSAP256ASN1 verifies ASN.1 DER-encoded ECDSA signatures over the SHA-256
// digest of the message, with a SEC1 uncompressed P-256 public key.
type ECDSAP256ASN1 struct{}

func (ECDSAP256ASN1) Name() string { return "ecdsa-p256-asn1" }

func (ECDSAP256ASN1) Verify(publicKey, message, signature []byte) error {
	pub, err := parseP256PublicKey(publicKey)
	if err != nil {
		return err
	}
	digest := sha256.Sum256(message)
	if !ecdsa.VerifyASN1(pub, digest[:], signature) {
		return errors.New("ecdsa p-256 verification failed")
	}
	return nil
}

// parseP256PublicKey accepts a 65-byte SEC1 uncompressed point. Point
// validation is delegated to crypto/ecdh, which rejects off-curve and
// identity points.
func parseP256PublicKey(raw []byte) (*ecdsa.PublicKey, error) {
	if _, err := ecdh.P256().NewPublicKey(raw); err != nil {
		return nil, fmt.Errorf("invalid p-256 public key: %w", err)
	}
	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(raw[1:33]),
		Y:     new(big.Int).SetBytes(raw[33:65]),
	}, nil
}
