package providers

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

const (
	standardHeaderPrefix = "webhook-"
	standardIDSuffix     = "id"
	standardTimeSuffix   = "timestamp"
	standardSigSuffix    = "signature"
	standardSecretPrefix = "whsec_"

	// StandardIDHeader is the default delivery-ID header; unique per
	// message and reused across retries, so it doubles as a replay key.
	StandardIDHeader = standardHeaderPrefix + standardIDSuffix
)

// Standard verifies Standard Webhooks deliveries (the spec implemented by
// Svix, Resend, Clerk, and others). The <prefix>-signature header carries
// space-delimited "v1,<base64>" rotation candidates, each an HMAC-SHA256 of
// "<id>.<timestamp>.<body>" with the id and timestamp taken from the
// <prefix>-id and <prefix>-timestamp headers.
//
// Header lookup is case-insensitive per common HTTP semantics; the Standard
// Webhooks spec does not state otherwise.
//
// https://github.com/standard-webhooks/standard-webhooks/blob/main/spec/standard-webhooks.md
type Standard struct {
	hmacSHA256
	noSuffix
	secret     *secrets.Buffer
	idHeader   string
	timeHeader string
	sigHeader  string
}

// NewStandard creates an adapter for the default "webhook-" header prefix.
// The secret is the portable "whsec_"-prefixed base64 form; the prefix is
// optional.
func NewStandard(secret string) (*Standard, error) {
	return NewStandardWithPrefix(secret, standardHeaderPrefix)
}

// NewStandardWithPrefix creates an adapter with a custom header prefix
// (include the trailing dash, e.g. "svix-").
func NewStandardWithPrefix(secret, headerPrefix string) (*Standard, error) {
	raw := strings.TrimPrefix(secret, standardSecretPrefix)
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("webhook secret was not valid base64: %w", err)
	}
	s := &Standard{
		secret:     secrets.NewBuffer(key),
		idHeader:   headerPrefix + standardIDSuffix,
		timeHeader: headerPrefix + standardTimeSuffix,
		sigHeader:  headerPrefix + standardSigSuffix,
	}
	for i := range key {
		key[i] = 0
	}
	return s, nil
}

func (s *Standard) Name() string { return "standard-webhooks" }

// IDHeader returns the delivery-ID header name for this adapter's prefix
func (s *Standard) IDHeader() string { return s.idHeader }

func (s *Standard) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(s, req)
}

func (s *Standard) Key() []byte { return s.secret.Bytes() }

// ExpectedSignatures collects every space-delimited "v1," candidate. A
// candidate that fails to decode is a hard error, not a skip.
func (s *Standard) ExpectedSignatures(req *webhook.Request) ([][]byte, error) {
	header, err := webhook.RequireHeader(req.Headers, s.sigHeader)
	if err != nil {
		return nil, err
	}

	var candidates [][]byte
	for _, part := range strings.Fields(header) {
		value, ok := strings.CutPrefix(part, "v1,")
		if !ok {
			continue
		}
		sig, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, webhook.InvalidHeaderError("signature in %s header was not valid base64", s.sigHeader)
		}
		candidates = append(candidates, sig)
	}
	if len(candidates) == 0 {
		return nil, webhook.InvalidHeaderError("did not find a v1 signature in %s header", s.sigHeader)
	}
	return candidates, nil
}

func (s *Standard) BodyPrefix(req *webhook.Request) ([]byte, error) {
	id, err := webhook.RequireHeader(req.Headers, s.idHeader)
	if err != nil {
		return nil, err
	}
	timestamp, err := webhook.RequireHeader(req.Headers, s.timeHeader)
	if err != nil {
		return nil, err
	}
	if _, err := webhook.ValidateTimestamp(timestamp, req.Bounds); err != nil {
		return nil, err
	}
	return []byte(id + "." + timestamp + "."), nil
}

// Destroy wipes the signing key
func (s *Standard) Destroy() { s.secret.Destroy() }
