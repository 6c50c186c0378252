// Package secrets handles webhook signing key material: in-memory buffers
// that are wiped when released, and an AES-256-GCM encryptor for secrets
// supplied in encrypted form.
package secrets

// Buffer owns a copy of secret key material and overwrites it before the
// memory is released back to the runtime. Every provider constructor copies
// its secret into a Buffer, so tearing down a registry wipes all keys.
type Buffer struct {
	data      []byte
	destroyed bool
}

// NewBuffer copies b into a new zeroizing buffer
func NewBuffer(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}
}

// FromString copies s into a new zeroizing buffer
func FromString(s string) *Buffer {
	return NewBuffer([]byte(s))
}

// Bytes returns the secret material. The returned slice aliases the buffer
// and becomes all-zero after Destroy; callers must not retain it past the
// buffer's lifetime.
func (b *Buffer) Bytes() []byte {
	if b.destroyed {
		return nil
	}
	return b.data
}

// Len returns the secret length in bytes
func (b *Buffer) Len() int {
	if b.destroyed {
		return 0
	}
	return len(b.data)
}

// Destroy overwrites the secret with zeros. Safe to call more than once.
func (b *Buffer) Destroy() {
	for i := range b.data {
		b.data[i] = 0
	}
	b.destroyed = true
}

// Destroyed reports whether the buffer has been wiped
func (b *Buffer) Destroyed() bool {
	return b.destroyed
}
