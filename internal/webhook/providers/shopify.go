package providers

import (
	"context"
	"encoding/base64"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

const shopifySignatureHeader = "X-Shopify-Hmac-Sha256"

// Shopify verifies Shopify webhooks: a base64 HMAC-SHA256 of the raw body
// in the X-Shopify-Hmac-Sha256 header.
//
// https://shopify.dev/docs/apps/build/webhooks/subscribe/https
type Shopify struct {
	hmacSHA256
	rawBody
	secret *secrets.Buffer
}

// NewShopify creates a Shopify adapter with the app's client secret
func NewShopify(secret []byte) *Shopify {
	return &Shopify{secret: secrets.NewBuffer(secret)}
}

func (s *Shopify) Name() string { return "shopify" }

func (s *Shopify) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(s, req)
}

func (s *Shopify) Key() []byte { return s.secret.Bytes() }

func (s *Shopify) ExpectedSignatures(req *webhook.Request) ([][]byte, error) {
	value, err := webhook.RequireHeader(req.Headers, shopifySignatureHeader)
	if err != nil {
		return nil, err
	}
	sig, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, webhook.InvalidHeaderError("%s header was not valid base64", shopifySignatureHeader)
	}
	return [][]byte{sig}, nil
}

// Destroy wipes the webhook secret
func (s *Shopify) Destroy() { s.secret.Destroy() }
