// Package providers contains the built-in webhook provider adapters and a
// generic HMAC builder for custom senders. Each adapter is a fixed
// configuration of header names, signature encoding, and message
// construction, verified through the engine in the webhook package.
package providers

import (
	"crypto/sha256"
	"hash"

	"webhook-verify/internal/webhook"
)

// hmacSHA256 supplies the MAC hash every built-in symmetric provider uses.
type hmacSHA256 struct{}

func (hmacSHA256) Hash() func() hash.Hash { return sha256.New }

// rawBody marks providers whose signature covers the body alone.
type rawBody struct{}

func (rawBody) BodyPrefix(*webhook.Request) ([]byte, error) { return nil, nil }
func (rawBody) BodySuffix(*webhook.Request) ([]byte, error) { return nil, nil }

// noSuffix marks providers that prepend to the body but never append.
type noSuffix struct{}

func (noSuffix) BodySuffix(*webhook.Request) ([]byte, error) { return nil, nil }
