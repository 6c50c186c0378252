package providers

import (
	"context"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

const svixHeaderPrefix = "svix-"

// SvixIDHeader carries the unique Svix message ID, stable across retries.
const SvixIDHeader = svixHeaderPrefix + standardIDSuffix

// Svix verifies Svix webhooks: the Standard Webhooks scheme under the
// svix-id/svix-timestamp/svix-signature headers, with the signing key
// supplied as raw bytes instead of the portable whsec_ form.
//
// https://docs.svix.com/receiving/verifying-payloads/how-manual
type Svix struct {
	Standard
}

// NewSvix creates a Svix adapter with the endpoint's raw signing key
// (decode any "whsec_" base64 wrapper before passing it in).
func NewSvix(key []byte) *Svix {
	return &Svix{Standard{
		secret:     secrets.NewBuffer(key),
		idHeader:   svixHeaderPrefix + standardIDSuffix,
		timeHeader: svixHeaderPrefix + standardTimeSuffix,
		sigHeader:  svixHeaderPrefix + standardSigSuffix,
	}}
}

// NewSvixFromSecret creates a Svix adapter from the "whsec_"-prefixed
// base64 secret shown in the Svix dashboard.
func NewSvixFromSecret(secret string) (*Svix, error) {
	std, err := NewStandardWithPrefix(secret, svixHeaderPrefix)
	if err != nil {
		return nil, err
	}
	return &Svix{*std}, nil
}

func (s *Svix) Name() string { return "svix" }

func (s *Svix) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(s, req)
}
