// Package testutil holds signed webhook fixtures shared across test
// packages. Every signature here was produced against the matching secret
// or key pair; tests derive their tampered variants from these values.
package testutil

import (
	"io"
)

// GitHub fixture: HMAC-SHA256 over the raw body, hex with sha256= prefix
const (
	GitHubSecret    = "test-secret"
	GitHubBody      = `{"action":"opened"}`
	GitHubSignature = "sha256=6e939b5b3d3e8eba83ff81dde0030a8f2190d965e8bec7a17842863e979c4d7d"
	// Same digest with the final hex digit changed
	GitHubSignatureTampered = "sha256=6e939b5b3d3e8eba83ff81dde0030a8f2190d965e8bec7a17842863e979c4d7e"
)

// Slack fixture: HMAC-SHA256 over "v0:<timestamp>:<body>", hex with v0= prefix
const (
	SlackSecret    = "8f742231b10e8888abcd99yyyzzz85a5"
	SlackTimestamp = "1531420618"
	SlackBody      = "token=xyzz0WbapA4vBCDEFasx0q6G&team_id=T1DC2JH3J&team_domain=testteamnow" +
		"&channel_id=G8PSS9T3V&channel_name=foobar&user_id=U2CERLKJA&user_name=roadrunner" +
		"&command=%2Fwebhook-collect&text=&response_url=https%3A%2F%2Fhooks.slack.com%2Fcommands" +
		"%2FT1DC2JH3J%2F397700885554%2F96rGlfmibIGlgcZRskXaIFfN" +
		"&trigger_id=398738663015.47445629121.803a0bc887a14d10d2c447fce8b6703c"
	SlackSignature         = "v0=a2114d57b48eac39b9ad189dd8316235a7b4a8d21a10bd27519666489c69b503"
	SlackSignatureTampered = "v0=a3114d57b48eac39b9ad189dd8316235a7b4a8d21a10bd27519666489c69b503"
)

// Stripe fixture: HMAC-SHA256 over "<timestamp>.<body>"; the header carries
// one stale v1 candidate and one that matches.
const (
	StripeSecret    = "test-secret"
	StripeTimestamp = "1492774577"
	StripeBody      = `{"id":"evt_12345","object":"event"}`
	StripeHeader    = "t=1492774577," +
		"v1=d08311034a9d558256d1ca3700a3a7f9b22f7ec03e52cca53c5632dcea29b8d7," +
		"v1=d08311034a9d558256d1ca3700a3a7f9b22f7ec03e52cca53c5632dcea29b8e7"
)

// Shopify fixture: HMAC-SHA256 over the raw body, base64
const (
	ShopifySecret    = "test-secret"
	ShopifyBody      = "hello shopify"
	ShopifySignature = "l9ww1bSzk5iGBGdGlyeaPPokoYvxPHgk0w4reAA+jLc="
)

// Standard Webhooks fixture: HMAC-SHA256 over "<id>.<timestamp>.<body>"
// keyed by the base64 payload of a whsec_ secret; the header carries one
// stale v1 candidate and one that matches.
const (
	StandardSecret    = "whsec_x9J8mHVs08bY9qRsE3un7nW8"
	StandardID        = "msg_CGEWVFV0jBkqRIfP"
	StandardTimestamp = "1759933695"
	StandardBody      = `{"event_type":"ping","success":true}`
	StandardSignature = "v1,vaXhsxOg6d11zKvCs7dg/PxN9dXETpdbalU1o3J66K4= " +
		"v1,waXhsxOg6d11zKvCs7dg/PxN9dXETpdbalU1o3J66K4="
)

// Discord fixture: Ed25519 over "<timestamp><body>", hex key and signature
const (
	DiscordPublicKey = "25B573092C76A64F7588FDDF76CD7C53774099C163A53A039D314C0EBD323C92"
	DiscordTimestamp = "1759897407"
	DiscordBody      = "hello discord"
	DiscordSignature = "85E8E58CD6B8385F6E8BDB00E614AF8315037B90F97F2E25D340B78A38EDD586" +
		"B048BDD3DA7E89F0CC53FFF2C4D78A42DB1A070A0AE3234A590EF2A49C654106"
)

// SendGrid fixture: ECDSA P-256 ASN.1 over "<timestamp><body>", base64 key
// and signature
const (
	SendGridPublicKey = "BP2InNqs4PwaKQTVLNqebVaY+KApaBF6y2bQhtFLadUpBMLOgkYEwLXML5TkGE80EHJyH3uNd2K2pdRaQbFqFE0="
	SendGridTimestamp = "1759897407"
	SendGridBody      = "hello sendgrid"
	SendGridSignature = "MEQCIC+OAVQZEB8+qlkIM2BbPvSKbpRQZwJe/4emHZoNRKsIAiAtxFtWiNzpMhYkrFROz72r6xLsnTiNigvlg+SWIJrvCw=="
)

// Headers is a simple header map for building verification requests without
// net/http. Lookups are exact-match on the keys as stored.
type Headers map[string]string

// Get returns the stored header value or ""
func (h Headers) Get(name string) string {
	return h[name]
}

// chunkReader yields at most chunk bytes per Read call, forcing callers to
// exercise their streaming paths.
type chunkReader struct {
	data  []byte
	chunk int
}

// ChunkReader wraps data in a reader that returns it in fixed-size pieces
func ChunkReader(data []byte, chunk int) io.Reader {
	if chunk < 1 {
		chunk = 1
	}
	return &chunkReader{data: data, chunk: chunk}
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(r.data) {
		n = len(r.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// ErrReader fails with err after serving its data
type ErrReader struct {
	Data []byte
	Err  error
	done bool
}

func (r *ErrReader) Read(p []byte) (int, error) {
	if !r.done && len(r.Data) > 0 {
		n := copy(p, r.Data)
		r.Data = r.Data[n:]
		return n, nil
	}
	r.done = true
	return 0, r.Err
}
