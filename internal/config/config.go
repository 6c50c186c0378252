// Package config provides configuration management for the webhook
// verification service. It handles loading configuration from environment
// variables with sensible defaults and validates the configuration to ensure
// the service starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - MAX_BODY_SIZE: Maximum accepted webhook body in bytes (default: 65536)
//   - TIMESTAMP_PAST_TOLERANCE: Seconds a signed timestamp may lag (default: 300)
//   - TIMESTAMP_FUTURE_TOLERANCE: Seconds a signed timestamp may lead (default: 15)
//
// Replay Cache (optional, enabled when REPLAY_CACHE_ENABLED=true):
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//   - REPLAY_WINDOW: How long a delivery ID stays remembered (default: 5m)
//
// Provider Secrets:
//   - GITHUB_WEBHOOK_SECRET, SLACK_WEBHOOK_SECRET, STRIPE_WEBHOOK_SECRET,
//     SHOPIFY_WEBHOOK_SECRET, STANDARD_WEBHOOK_SECRET, SVIX_WEBHOOK_SECRET:
//     shared HMAC secrets; a provider is registered only when its secret is set
//   - DISCORD_PUBLIC_KEY: hex-encoded Ed25519 public key
//   - SENDGRID_PUBLIC_KEY: base64-encoded ECDSA P-256 public key
//
// Secrets at Rest:
//   - SECRETS_MASTER_KEY: when set, any provider secret may instead be
//     supplied through its _ENC variant (e.g. GITHUB_WEBHOOK_SECRET_ENC)
//     holding an AES-256-GCM ciphertext produced by the secrets package
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the webhook verification service.
// All fields correspond to environment variables that can be set to override
// the default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port        string // Server port number
	LogLevel    string // Logging level (debug, info, warn, error)
	MaxBodySize string // Maximum webhook body size in bytes

	// Timestamp tolerance applied to providers that sign a timestamp
	TimestampPastTolerance   string // Seconds behind the wall clock
	TimestampFutureTolerance string // Seconds ahead of the wall clock

	// Replay cache configuration
	ReplayCacheEnabled bool   // Whether duplicate-delivery rejection is enabled
	ReplayWindow       string // How long delivery IDs are remembered (e.g. "5m")
	RedisAddress       string // Redis server address (host:port)
	RedisPassword      string // Redis authentication password
	RedisDB            string // Redis database number (0-15)
	RedisPoolSize      string // Redis connection pool size

	// Provider secrets; empty means the provider is not registered
	GitHubSecret   string // GitHub HMAC secret
	SlackSecret    string // Slack signing secret
	StripeSecret   string // Stripe endpoint secret
	ShopifySecret  string // Shopify shared secret
	StandardSecret string // Standard Webhooks secret (whsec_ base64)
	SvixSecret     string // Svix endpoint secret (whsec_ base64)
	DiscordKey     string // Discord Ed25519 public key (hex)
	SendGridKey    string // SendGrid ECDSA public key (base64)

	// Master key for decrypting _ENC secret variants
	SecretsMasterKey string
}

// Load creates a new Config instance with values loaded from environment
// variables. If an environment variable is not set, the corresponding default
// value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all values are valid.
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MaxBodySize: getEnv("MAX_BODY_SIZE", "65536"),

		TimestampPastTolerance:   getEnv("TIMESTAMP_PAST_TOLERANCE", "300"),
		TimestampFutureTolerance: getEnv("TIMESTAMP_FUTURE_TOLERANCE", "15"),

		ReplayCacheEnabled: getBoolEnv("REPLAY_CACHE_ENABLED", false),
		ReplayWindow:       getEnv("REPLAY_WINDOW", "5m"),
		RedisAddress:       getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnv("REDIS_DB", "0"),
		RedisPoolSize:      getEnv("REDIS_POOL_SIZE", "10"),

		GitHubSecret:   getEnv("GITHUB_WEBHOOK_SECRET", ""),
		SlackSecret:    getEnv("SLACK_WEBHOOK_SECRET", ""),
		StripeSecret:   getEnv("STRIPE_WEBHOOK_SECRET", ""),
		ShopifySecret:  getEnv("SHOPIFY_WEBHOOK_SECRET", ""),
		StandardSecret: getEnv("STANDARD_WEBHOOK_SECRET", ""),
		SvixSecret:     getEnv("SVIX_WEBHOOK_SECRET", ""),
		DiscordKey:     getEnv("DISCORD_PUBLIC_KEY", ""),
		SendGridKey:    getEnv("SENDGRID_PUBLIC_KEY", ""),

		SecretsMasterKey: getEnv("SECRETS_MASTER_KEY", ""),
	}
}

// EncryptedSecret returns the _ENC variant of a provider's secret variable,
// or "" when none is set.
func EncryptedSecret(envVar string) string {
	return os.Getenv(envVar + "_ENC")
}

// getEnv retrieves an environment variable value or returns a default value
// if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a
// default value when unset or unparseable.
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs validation on the configuration to ensure all values are
// well formed before the service starts.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	if size, err := strconv.ParseInt(c.MaxBodySize, 10, 64); err != nil || size < 1 {
		return fmt.Errorf("MAX_BODY_SIZE must be a positive number of bytes")
	}

	if _, err := strconv.ParseUint(c.TimestampPastTolerance, 10, 32); err != nil {
		return fmt.Errorf("TIMESTAMP_PAST_TOLERANCE must be a non-negative number of seconds")
	}
	if _, err := strconv.ParseUint(c.TimestampFutureTolerance, 10, 32); err != nil {
		return fmt.Errorf("TIMESTAMP_FUTURE_TOLERANCE must be a non-negative number of seconds")
	}

	if c.ReplayCacheEnabled {
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required when the replay cache is enabled")
		}
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
		if _, err := time.ParseDuration(c.ReplayWindow); err != nil {
			return fmt.Errorf("REPLAY_WINDOW must be a valid duration (e.g., '5m', '300s')")
		}
	}

	return nil
}

// MaxBodyBytes returns the parsed body size limit. Validate must have
// succeeded first.
func (c *Config) MaxBodyBytes() int64 {
	size, _ := strconv.ParseInt(c.MaxBodySize, 10, 64)
	return size
}

// PastTolerance returns the parsed past timestamp tolerance in seconds
func (c *Config) PastTolerance() uint32 {
	v, _ := strconv.ParseUint(c.TimestampPastTolerance, 10, 32)
	return uint32(v)
}

// FutureTolerance returns the parsed future timestamp tolerance in seconds
func (c *Config) FutureTolerance() uint32 {
	v, _ := strconv.ParseUint(c.TimestampFutureTolerance, 10, 32)
	return uint32(v)
}

// ReplayWindowDuration returns the parsed replay window. Validate must have
// succeeded first.
func (c *Config) ReplayWindowDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReplayWindow)
	return d
}

// RedisDBNumber returns the parsed Redis database number
func (c *Config) RedisDBNumber() int {
	db, _ := strconv.Atoi(c.RedisDB)
	return db
}

// RedisPool returns the parsed Redis pool size
func (c *Config) RedisPool() int {
	size, _ := strconv.Atoi(c.RedisPoolSize)
	return size
}
