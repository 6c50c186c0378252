package providers

import (
	"context"
	"encoding/hex"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

const (
	githubSignatureHeader = "X-Hub-Signature-256"
	githubSignaturePrefix = "sha256="

	// GitHubDeliveryHeader carries the unique delivery ID GitHub attaches
	// to every webhook; useful as a replay-cache key.
	GitHubDeliveryHeader = "X-GitHub-Delivery"
)

// GitHub verifies GitHub webhooks: a hex HMAC-SHA256 of the raw body in the
// X-Hub-Signature-256 header, prefixed with "sha256=".
//
// https://docs.github.com/en/webhooks/using-webhooks/validating-webhook-deliveries
type GitHub struct {
	hmacSHA256
	rawBody
	secret *secrets.Buffer
}

// NewGitHub creates a GitHub adapter with the shared webhook secret
func NewGitHub(secret []byte) *GitHub {
	return &GitHub{secret: secrets.NewBuffer(secret)}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(g, req)
}

func (g *GitHub) Key() []byte { return g.secret.Bytes() }

func (g *GitHub) ExpectedSignatures(req *webhook.Request) ([][]byte, error) {
	value, err := webhook.RequireHeaderPrefixed(req.Headers, githubSignatureHeader, githubSignaturePrefix)
	if err != nil {
		return nil, err
	}
	sig, err := hex.DecodeString(value)
	if err != nil {
		return nil, webhook.InvalidHeaderError("%s header was not valid hex", githubSignatureHeader)
	}
	return [][]byte{sig}, nil
}

// Destroy wipes the webhook secret
func (g *GitHub) Destroy() { g.secret.Destroy() }
