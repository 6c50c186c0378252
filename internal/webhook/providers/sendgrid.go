package providers

import (
	"context"
	"encoding/base64"
	"fmt"

	"webhook-verify/internal/webhook"
)

const (
	sendgridSignatureHeader = "X-Twilio-Email-Event-Webhook-Signature"
	sendgridTimestampHeader = "X-Twilio-Email-Event-Webhook-Timestamp"
)

// SendGrid verifies SendGrid event webhooks: a base64 ASN.1 ECDSA P-256
// signature of "<timestamp><body>" in the signature header, with the
// timestamp from the companion header.
//
// https://www.twilio.com/docs/sendgrid/for-developers/tracking-events/getting-started-event-webhook-security-features
type SendGrid struct {
	publicKey []byte
}

// NewSendGrid creates a SendGrid adapter from the base64-encoded
// verification key shown in the SendGrid dashboard (a SEC1 uncompressed
// P-256 point).
func NewSendGrid(publicKeyBase64 string) (*SendGrid, error) {
	key, err := base64.StdEncoding.DecodeString(publicKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("sendgrid public key was not valid base64: %w", err)
	}
	return &SendGrid{publicKey: key}, nil
}

func (s *SendGrid) Name() string { return "sendgrid" }

func (s *SendGrid) Verify(ctx context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyPublicKey(ctx, s, req)
}

func (s *SendGrid) Algorithm() webhook.Algorithm { return webhook.ECDSAP256ASN1{} }

func (s *SendGrid) PublicKey(context.Context) ([]byte, error) {
	return s.publicKey, nil
}

func (s *SendGrid) ExpectedSignature(req *webhook.Request) ([]byte, error) {
	value, err := webhook.RequireHeader(req.Headers, sendgridSignatureHeader)
	if err != nil {
		return nil, err
	}
	sig, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, webhook.InvalidHeaderError("%s header was not valid base64", sendgridSignatureHeader)
	}
	return sig, nil
}

func (s *SendGrid) MessageToVerify(req *webhook.Request, body []byte) ([]byte, error) {
	timestamp, err := webhook.RequireHeader(req.Headers, sendgridTimestampHeader)
	if err != nil {
		return nil, err
	}
	if _, err := webhook.ValidateTimestamp(timestamp, req.Bounds); err != nil {
		return nil, err
	}
	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)
	return message, nil
}
