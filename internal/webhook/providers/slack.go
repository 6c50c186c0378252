package providers

import (
	"context"
	"encoding/hex"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

const (
	slackSignatureHeader = "X-Slack-Signature"
	slackSignaturePrefix = "v0="
	slackTimestampHeader = "X-Slack-Request-Timestamp"
)

// Slack verifies Slack webhooks: a hex HMAC-SHA256 of "v0:<timestamp>:<body>"
// in the X-Slack-Signature header, with the timestamp taken from
// X-Slack-Request-Timestamp and checked against the replay window.
//
// https://docs.slack.dev/authentication/verifying-requests-from-slack
type Slack struct {
	hmacSHA256
	noSuffix
	secret *secrets.Buffer
}

// NewSlack creates a Slack adapter with the app's signing secret
func NewSlack(secret []byte) *Slack {
	return &Slack{secret: secrets.NewBuffer(secret)}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(s, req)
}

func (s *Slack) Key() []byte { return s.secret.Bytes() }

func (s *Slack) ExpectedSignatures(req *webhook.Request) ([][]byte, error) {
	value, err := webhook.RequireHeaderPrefixed(req.Headers, slackSignatureHeader, slackSignaturePrefix)
	if err != nil {
		return nil, err
	}
	sig, err := hex.DecodeString(value)
	if err != nil {
		return nil, webhook.InvalidHeaderError("%s header was not valid hex", slackSignatureHeader)
	}
	return [][]byte{sig}, nil
}

func (s *Slack) BodyPrefix(req *webhook.Request) ([]byte, error) {
	timestamp, err := webhook.RequireHeader(req.Headers, slackTimestampHeader)
	if err != nil {
		return nil, err
	}
	if _, err := webhook.ValidateTimestamp(timestamp, req.Bounds); err != nil {
		return nil, err
	}
	return []byte("v0:" + timestamp + ":"), nil
}

// Destroy wipes the signing secret
func (s *Slack) Destroy() { s.secret.Destroy() }
