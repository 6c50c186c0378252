package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Encryptor decrypts provider secrets that are stored AES-256-GCM encrypted
// (e.g. in environment variables or a config file) instead of in plaintext.
// The 32-byte AES key is derived from the master key with PBKDF2, so the
// master key can be any length. Safe for concurrent use.
type Encryptor struct {
	key []byte
}

// Static salt keeps derivation deterministic across restarts; the master
// key itself is the secret input.
var kdfSalt = []byte("webhook-verify-secrets")

// NewEncryptor derives an AES-256 key from the master key
func NewEncryptor(masterKey string) (*Encryptor, error) {
	if masterKey == "" {
		return nil, errors.New("master key cannot be empty")
	}
	return &Encryptor{
		key: pbkdf2.Key([]byte(masterKey), kdfSalt, 10000, 32, sha256.New),
	}, nil
}

// Encrypt seals plaintext with a fresh random nonce and returns
// base64(nonce || ciphertext). Used by operators to prepare encrypted
// secret values; the service itself only decrypts.
func (e *Encryptor) Encrypt(plaintext []byte) (string, error) {
	gcm, err := e.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt and returns the plaintext in a
// zeroizing buffer. Tampered or wrong-key ciphertexts fail authentication.
func (e *Encryptor) Decrypt(encoded string) (*Buffer, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("encrypted secret is not valid base64: %w", err)
	}

	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, errors.New("encrypted secret too short")
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret: %w", err)
	}

	buf := NewBuffer(plaintext)
	for i := range plaintext {
		plaintext[i] = 0
	}
	return buf, nil
}

func (e *Encryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
