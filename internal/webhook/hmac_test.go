package webhook

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"hash"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-verify/internal/testutil"
)

// testScheme is a minimal HMAC scheme with every hook overridable
type testScheme struct {
	key        []byte
	hash       func() hash.Hash
	signatures func(*Request) ([][]byte, error)
	prefix     func(*Request) ([]byte, error)
	suffix     func(*Request) ([]byte, error)
}

func (s *testScheme) Key() []byte { return s.key }

func (s *testScheme) Hash() func() hash.Hash {
	if s.hash == nil {
		return sha256.New
	}
	return s.hash
}

func (s *testScheme) ExpectedSignatures(req *Request) ([][]byte, error) {
	return s.signatures(req)
}

func (s *testScheme) BodyPrefix(req *Request) ([]byte, error) {
	if s.prefix == nil {
		return nil, nil
	}
	return s.prefix(req)
}

func (s *testScheme) BodySuffix(req *Request) ([]byte, error) {
	if s.suffix == nil {
		return nil, nil
	}
	return s.suffix(req)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func fixedSignatures(sigs ...[]byte) func(*Request) ([][]byte, error) {
	return func(*Request) ([][]byte, error) { return sigs, nil }
}

func bodyRequest(body string) *Request {
	return &Request{
		Headers:       testutil.Headers{},
		ContentLength: int64(len(body)),
		Body:          strings.NewReader(body),
	}
}

func TestVerifyHMAC(t *testing.T) {
	const (
		body   = `{"action":"opened"}`
		digest = "6e939b5b3d3e8eba83ff81dde0030a8f2190d965e8bec7a17842863e979c4d7d"
	)

	t.Run("matching signature returns raw body", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(mustHex(t, digest)),
		}
		raw, err := VerifyHMAC(scheme, bodyRequest(body))
		require.NoError(t, err)
		assert.Equal(t, []byte(body), raw)
	})

	t.Run("single-byte reads produce the same digest", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(mustHex(t, digest)),
		}
		req := &Request{
			Headers: testutil.Headers{},
			// lie about the length; it is only a buffer hint
			ContentLength: 3,
			Body:          testutil.ChunkReader([]byte(body), 1),
		}
		raw, err := VerifyHMAC(scheme, req)
		require.NoError(t, err)
		assert.Equal(t, []byte(body), raw)
	})

	t.Run("any matching candidate wins", func(t *testing.T) {
		wrong := make([]byte, sha256.Size)
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(wrong, mustHex(t, digest)),
		}
		_, err := VerifyHMAC(scheme, bodyRequest(body))
		assert.NoError(t, err)
	})

	t.Run("no matching candidate is a signature error", func(t *testing.T) {
		tampered := mustHex(t, digest)
		tampered[0] ^= 0x01
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(tampered),
		}
		_, err := VerifyHMAC(scheme, bodyRequest(body))
		assert.True(t, IsKind(err, ErrKindSignature))
	})

	t.Run("wrong key is a signature error", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("other-secret"),
			signatures: fixedSignatures(mustHex(t, digest)),
		}
		_, err := VerifyHMAC(scheme, bodyRequest(body))
		assert.True(t, IsKind(err, ErrKindSignature))
	})

	t.Run("prefix and suffix are both signed", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("affix-secret"),
			signatures: fixedSignatures(mustHex(t, "ebb2971cc6a9fd2c499ed8ab0c1839f4799cf0d77a64a81203f8a8542338fdfa")),
			prefix:     func(*Request) ([]byte, error) { return []byte("pre."), nil },
			suffix:     func(*Request) ([]byte, error) { return []byte(".post"), nil },
		}
		raw, err := VerifyHMAC(scheme, bodyRequest("hello world"))
		require.NoError(t, err)
		assert.Equal(t, []byte("hello world"), raw)
	})

	t.Run("alternate hash functions work", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("affix-secret"),
			hash:       sha1.New,
			signatures: fixedSignatures(mustHex(t, "8292a2903095f45d004931351665be39680bd367")),
		}
		_, err := VerifyHMAC(scheme, bodyRequest("hello world"))
		assert.NoError(t, err)
	})

	t.Run("signature extraction failure precedes all crypto", func(t *testing.T) {
		headerErr := MissingHeaderError("X-Signature")
		scheme := &panicKeyScheme{
			signatures: func(*Request) ([][]byte, error) { return nil, headerErr },
		}
		req := &Request{
			Headers: testutil.Headers{},
			Body:    &panicReader{},
		}
		_, err := VerifyHMAC(scheme, req)
		assert.True(t, IsKind(err, ErrKindMissingHeader))
	})

	t.Run("prefix failure stops before the body is consumed", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(mustHex(t, digest)),
			prefix: func(*Request) ([]byte, error) {
				return nil, TimestampError("timestamp outside window")
			},
		}
		req := &Request{
			Headers: testutil.Headers{},
			Body:    &panicReader{},
		}
		_, err := VerifyHMAC(scheme, req)
		assert.True(t, IsKind(err, ErrKindTimestamp))
	})

	t.Run("body read failure is a read error", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(mustHex(t, digest)),
		}
		cause := errors.New("connection reset by peer")
		req := &Request{
			Headers: testutil.Headers{},
			Body:    &testutil.ErrReader{Data: []byte(body[:5]), Err: cause},
		}
		_, err := VerifyHMAC(scheme, req)
		assert.True(t, IsKind(err, ErrKindRead))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("stateless across repeated requests", func(t *testing.T) {
		scheme := &testScheme{
			key:        []byte("test-secret"),
			signatures: fixedSignatures(mustHex(t, digest)),
		}
		for i := 0; i < 3; i++ {
			raw, err := VerifyHMAC(scheme, bodyRequest(body))
			require.NoError(t, err)
			assert.Equal(t, []byte(body), raw)
		}
	})
}

// panicKeyScheme fails the test if any cryptographic hook runs after header
// extraction has already rejected the request.
type panicKeyScheme struct {
	signatures func(*Request) ([][]byte, error)
}

func (s *panicKeyScheme) Key() []byte { panic("key material touched after rejection") }
func (s *panicKeyScheme) Hash() func() hash.Hash {
	panic("hash constructed after rejection")
}
func (s *panicKeyScheme) ExpectedSignatures(req *Request) ([][]byte, error) {
	return s.signatures(req)
}
func (s *panicKeyScheme) BodyPrefix(*Request) ([]byte, error) { return nil, nil }
func (s *panicKeyScheme) BodySuffix(*Request) ([]byte, error) { return nil, nil }

type panicReader struct{}

func (*panicReader) Read([]byte) (int, error) { panic("body consumed after rejection") }
