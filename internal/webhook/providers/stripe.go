package providers

import (
	"context"
	"encoding/hex"
	"strings"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

const stripeSignatureHeader = "Stripe-Signature"

// Stripe verifies Stripe webhooks. The Stripe-Signature header holds
// comma-separated pairs: one "t=<timestamp>" and one or more
// "v1=<hex signature>" rotation candidates. Each candidate is an
// HMAC-SHA256 of "<timestamp>.<body>"; verification succeeds if any
// candidate matches, which keeps deliveries valid during secret rotation.
//
// https://docs.stripe.com/webhooks#verify-manually
type Stripe struct {
	hmacSHA256
	noSuffix
	secret *secrets.Buffer
}

// NewStripe creates a Stripe adapter with the endpoint's signing secret
func NewStripe(secret []byte) *Stripe {
	return &Stripe{secret: secrets.NewBuffer(secret)}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(s, req)
}

func (s *Stripe) Key() []byte { return s.secret.Bytes() }

func (s *Stripe) ExpectedSignatures(req *webhook.Request) ([][]byte, error) {
	header, err := webhook.RequireHeader(req.Headers, stripeSignatureHeader)
	if err != nil {
		return nil, err
	}

	var candidates [][]byte
	for _, part := range strings.Split(header, ",") {
		value, ok := strings.CutPrefix(strings.TrimSpace(part), "v1=")
		if !ok {
			continue
		}
		sig, err := hex.DecodeString(value)
		if err != nil {
			return nil, webhook.InvalidHeaderError("signature in %s header was not valid hex", stripeSignatureHeader)
		}
		candidates = append(candidates, sig)
	}
	if len(candidates) == 0 {
		return nil, webhook.InvalidHeaderError("did not find a v1 signature in %s header", stripeSignatureHeader)
	}
	return candidates, nil
}

func (s *Stripe) BodyPrefix(req *webhook.Request) ([]byte, error) {
	header, err := webhook.RequireHeader(req.Headers, stripeSignatureHeader)
	if err != nil {
		return nil, err
	}

	var timestamp string
	for _, part := range strings.Split(header, ",") {
		if value, ok := strings.CutPrefix(strings.TrimSpace(part), "t="); ok {
			timestamp = value
			break
		}
	}
	if timestamp == "" {
		return nil, webhook.InvalidHeaderError("did not find a timestamp in %s header", stripeSignatureHeader)
	}
	if _, err := webhook.ValidateTimestamp(timestamp, req.Bounds); err != nil {
		return nil, err
	}
	return []byte(timestamp + "."), nil
}

// Destroy wipes the signing secret
func (s *Stripe) Destroy() { s.secret.Destroy() }
