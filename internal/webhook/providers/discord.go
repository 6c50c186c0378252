package providers

import (
	"context"
	"encoding/hex"
	"fmt"

	"webhook-verify/internal/webhook"
)

const (
	discordSignatureHeader = "X-Signature-Ed25519"
	discordTimestampHeader = "X-Signature-Timestamp"
)

// Discord verifies Discord interaction webhooks: a hex Ed25519 signature of
// "<timestamp><body>" in X-Signature-Ed25519, with the timestamp from
// X-Signature-Timestamp.
//
// https://discord.com/developers/docs/interactions/overview
type Discord struct {
	publicKey []byte
}

// NewDiscord creates a Discord adapter from the application's hex-encoded
// Ed25519 public key, as shown in the developer portal.
func NewDiscord(publicKeyHex string) (*Discord, error) {
	key, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("discord public key was not valid hex: %w", err)
	}
	return &Discord{publicKey: key}, nil
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Verify(ctx context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyPublicKey(ctx, d, req)
}

func (d *Discord) Algorithm() webhook.Algorithm { return webhook.Ed25519{} }

func (d *Discord) PublicKey(context.Context) ([]byte, error) {
	return d.publicKey, nil
}

func (d *Discord) ExpectedSignature(req *webhook.Request) ([]byte, error) {
	value, err := webhook.RequireHeader(req.Headers, discordSignatureHeader)
	if err != nil {
		return nil, err
	}
	sig, err := hex.DecodeString(value)
	if err != nil {
		return nil, webhook.InvalidHeaderError("%s header was not valid hex", discordSignatureHeader)
	}
	return sig, nil
}

func (d *Discord) MessageToVerify(req *webhook.Request, body []byte) ([]byte, error) {
	timestamp, err := webhook.RequireHeader(req.Headers, discordTimestampHeader)
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
