package webhook

import (
	"crypto/hmac"
	"hash"
)

// HMACScheme is the capability interface a symmetric provider adapter
// implements: where the expected signatures come from, how the message to
// sign is built around the body, and what key and hash drive the MAC.
//
// ExpectedSignatures returns every rotation candidate carried by the
// request, already decoded from its wire encoding. It is called before any
// key material is touched, so malformed requests are rejected cheaply.
type HMACScheme interface {
	// Key returns the shared secret the sender signed with
	Key() []byte

	// Hash returns the constructor for the MAC's underlying hash
	Hash() func() hash.Hash

	// ExpectedSignatures extracts and decodes the candidate signature(s)
	// from the request headers
	ExpectedSignatures(req *Request) ([][]byte, error)

	// BodyPrefix returns bytes fed to the MAC before the body, or nil.
	// Providers that sign a composite message (e.g. "v0:<ts>:" + body)
	// build it here; timestamp validation against req.Bounds happens here
	// too, so replayed requests fail before the body is consumed.
	BodyPrefix(req *Request) ([]byte, error)

	// BodySuffix returns bytes fed to the MAC after the body, or nil
	BodySuffix(req *Request) ([]byte, error)
}

// VerifyHMAC streams the request body through the scheme's MAC in a single
// pass, buffering the raw bytes as it goes, and compares the final digest
// against every candidate signature in constant time. It returns the raw
// body on the first match.
//
// All candidates that fail produce the same generic Signature error, so the
// result never reveals which rotation candidate was closest.
func VerifyHMAC(scheme HMACScheme, req *Request) ([]byte, error) {
	// Cheap rejection first: header extraction and decoding happen before
	// any cryptographic work.
	expected, err := scheme.ExpectedSignatures(req)
	if err != nil {
		return nil, err
	}

	prefix, err := scheme.BodyPrefix(req)
	if err != nil {
		return nil, err
	}

	mac := hmac.New(scheme.Hash(), scheme.Key())
	if len(prefix) > 0 {
		mac.Write(prefix)
	}

	raw, err := readBody(req, mac)
	if err != nil {
		return nil, err
	}

	suffix, err := scheme.BodySuffix(req)
	if err != nil {
		return nil, err
	}
	if len(suffix) > 0 {
		mac.Write(suffix)
	}

	digest := mac.Sum(nil)
	for _, candidate := range expected {
		if hmac.Equal(digest, candidate) {
			return raw, nil
		}
	}
	return nil, SignatureError("computed digest does not match any provided signature")
}
