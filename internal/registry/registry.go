// Package registry holds the process-wide webhook provider configurations.
// Configurations are registered once at startup and looked up per request;
// entries are immutable after registration, so lookups are safe under
// concurrent traffic.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"webhook-verify/internal/webhook"
)

// DefaultMaxBodySize bounds webhook request bodies when an entry does not
// set its own limit.
const DefaultMaxBodySize = 64 * 1024

// Entry is one registered provider configuration
type Entry struct {
	// Provider performs the verification
	Provider webhook.Provider

	// MaxBodySize is the largest accepted request body in bytes
	// (default 64 KiB)
	MaxBodySize int64

	// Tolerance is the replay window derivation for timestamp-bearing
	// providers (default: 300s past, 15s future)
	Tolerance webhook.Tolerance

	// DeliveryIDHeader, when set, names the header carrying the sender's
	// unique delivery ID, enabling the optional replay cache
	DeliveryIDHeader string
}

// SetDefaults applies default values to the entry
func (e *Entry) SetDefaults() {
	if e.MaxBodySize <= 0 {
		e.MaxBodySize = DefaultMaxBodySize
	}
	if e.Tolerance == (webhook.Tolerance{}) {
		e.Tolerance = webhook.DefaultTolerance()
	}
}

// Key builds a registry key from a provider name and an optional marker.
// The marker distinguishes multiple accounts of the same provider, e.g.
// Key("slack", "account-2") -> "slack#account-2".
func Key(provider, marker string) string {
	if marker == "" {
		return provider
	}
	return provider + "#" + marker
}

// Registry maps keys to provider entries
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// New creates an empty registry
func New() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds a provider configuration under the given key. Registering
// the same key twice is a configuration error.
func (r *Registry) Register(key string, entry Entry) error {
	if entry.Provider == nil {
		return fmt.Errorf("entry for '%s' has no provider", key)
	}
	entry.SetDefaults()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("webhook provider '%s' already registered", key)
	}
	r.entries[key] = &entry
	return nil
}

// Lookup returns the entry for a key, or a NotAttached error when no
// provider was registered under it.
func (r *Registry) Lookup(key string) (*Entry, error) {
	r.mu.RLock()
	entry, exists := r.entries[key]
	r.mu.RUnlock()

	if !exists {
		return nil, webhook.NotAttachedError(key)
	}
	return entry, nil
}

// Keys returns the registered keys in sorted order
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Close wipes the secret material of every registered provider. The
// registry must not be used afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries {
		if d, ok := entry.Provider.(webhook.Destroyer); ok {
			d.Destroy()
		}
	}
	r.entries = make(map[string]*Entry)
}
