package providers

import (
	"context"
	"crypto/sha256"
	"errors"
	"hash"

	"webhook-verify/internal/secrets"
	"webhook-verify/internal/webhook"
)

// SignaturesFunc extracts and decodes the expected signature candidates
// from a request. Returning an error of any kind rejects the request.
type SignaturesFunc func(req *webhook.Request) ([][]byte, error)

// AffixFunc builds bytes attached to the body when computing the signature.
// Implementations that embed a timestamp should validate it against
// req.Bounds for replay prevention.
type AffixFunc func(req *webhook.Request) ([]byte, error)

// GenericHMACConfig configures a custom HMAC webhook for senders without a
// built-in adapter.
type GenericHMACConfig struct {
	// Name identifies the provider in logs and registry keys
	Name string
	// Secret is the shared signing key, already decoded to raw bytes
	Secret []byte
	// Hash overrides the MAC hash; defaults to SHA-256
	Hash func() hash.Hash
	// Signatures extracts the expected signature candidates (required)
	Signatures SignaturesFunc
	// Prefix optionally builds bytes signed before the body
	Prefix AffixFunc
	// Suffix optionally builds bytes signed after the body
	Suffix AffixFunc
}

// GenericHMAC is a fully caller-defined HMAC provider: header extraction,
// decoding, and message construction are supplied as functions.
//
// Example: a sender that puts a hex signature in "Signature-SHA256" and a
// unix timestamp in "Timestamp" appended to the signed message would set
// Signatures to decode the former and Suffix to validate and return the
// latter.
type GenericHMAC struct {
	cfg    GenericHMACConfig
	secret *secrets.Buffer
}

// NewGenericHMAC validates the configuration and copies the secret into a
// zeroizing buffer.
func NewGenericHMAC(cfg GenericHMACConfig) (*GenericHMAC, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("generic hmac webhook requires a secret")
	}
	if cfg.Signatures == nil {
		return nil, errors.New("generic hmac webhook requires a signatures function")
	}
	if cfg.Name == "" {
		cfg.Name = "generic"
	}
	if cfg.Hash == nil {
		cfg.Hash = sha256.New
	}
	g := &GenericHMAC{cfg: cfg, secret: secrets.NewBuffer(cfg.Secret)}
	g.cfg.Secret = nil
	return g, nil
}

func (g *GenericHMAC) Name() string { return g.cfg.Name }

func (g *GenericHMAC) Verify(_ context.Context, req *webhook.Request) ([]byte, error) {
	return webhook.VerifyHMAC(g, req)
}

func (g *GenericHMAC) Key() []byte { return g.secret.Bytes() }

func (g *GenericHMAC) Hash() func() hash.Hash { return g.cfg.Hash }

func (g *GenericHMAC) ExpectedSignatures(req *webhook.Request) ([][]byte, error) {
	sigs, err := g.cfg.Signatures(req)
	if err != nil {
		return nil, err
	}
	if len(sigs) == 0 {
		return nil, webhook.InvalidHeaderError("no signature candidates provided in request")
	}
	return sigs, nil
}

func (g *GenericHMAC) BodyPrefix(req *webhook.Request) ([]byte, error) {
	if g.cfg.Prefix == nil {
		return nil, nil
	}
	return g.cfg.Prefix(req)
}

func (g *GenericHMAC) BodySuffix(req *webhook.Request) ([]byte, error) {
	if g.cfg.Suffix == nil {
		return nil, nil
	}
	return g.cfg.Suffix(req)
}

// Destroy wipes the signing secret
func (g *GenericHMAC) Destroy() { g.secret.Destroy() }
