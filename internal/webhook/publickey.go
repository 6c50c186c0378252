package webhook

import (
	"context"
)

// PublicKeyScheme is the capability interface an asymmetric provider adapter
// implements. Unlike the HMAC path there is no incremental state to feed, so
// the verifier materializes the complete body before checking: the built-in
// algorithms require the finished message.
type PublicKeyScheme interface {
	// PublicKey returns the raw verification key. It takes a context
	// because some deployments fetch keys remotely; the built-in providers
	// hold static in-memory keys and never block.
	PublicKey(ctx context.Context) ([]byte, error)

	// ExpectedSignature extracts and decodes the signature from the request
	ExpectedSignature(req *Request) ([]byte, error)

	// MessageToVerify builds the exact signed message from the captured
	// body, e.g. "<timestamp>" + body. Any embedded timestamp is validated
	// against req.Bounds here.
	MessageToVerify(req *Request, body []byte) ([]byte, error)

	// Algorithm returns the signature algorithm to verify with
	Algorithm() Algorithm
}

// VerifyPublicKey captures the request body, reconstructs the signed
// message, and checks it against the scheme's public key. It returns the
// raw body on success.
func VerifyPublicKey(ctx context.Context, scheme PublicKeyScheme, req *Request) ([]byte, error) {
	expected, err := scheme.ExpectedSignature(req)
	if err != nil {
		return nil, err
	}

	key, err := scheme.PublicKey(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := readBody(req, nil)
	if err != nil {
		return nil, err
	}

	message, err := scheme.MessageToVerify(req, raw)
	if err != nil {
		return nil, err
	}

	if err := scheme.Algorithm().Verify(key, message, expected); err != nil {
		return nil, SignatureError(err.Error())
	}
	return raw, nil
}
