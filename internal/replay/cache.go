// Package replay provides a redis-backed guard against duplicate webhook
// deliveries. Timestamp bounds limit how long a captured request stays
// valid; for providers that attach a unique delivery ID, the cache rejects
// exact replays inside that window as well.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Config holds the replay cache settings
type Config struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
	// Window is how long a delivery ID stays remembered. It should cover
	// the timestamp tolerance of the strictest provider using the cache.
	Window time.Duration `json:"window"`
	// KeyPrefix namespaces cache keys in a shared redis
	KeyPrefix string `json:"key_prefix"`
}

// SetDefaults applies default values to the configuration
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = "localhost:6379"
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.Window <= 0 {
		c.Window = 5 * time.Minute
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = "webhook:replay"
	}
}

// Cache tracks delivery IDs that have already been accepted
type Cache struct {
	rdb    *redis.Client
	config *Config
}

// New connects to redis and verifies the connection
func New(config *Config) (*Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("replay cache config is required")
	}
	config.SetDefaults()

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
		PoolSize: config.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{rdb: rdb, config: config}, nil
}

// Seen atomically records a delivery ID and reports whether it was already
// present. The first caller for an ID gets false; every caller inside the
// window after that gets true.
func (c *Cache) Seen(ctx context.Context, provider, deliveryID string) (bool, error) {
	key := fmt.Sprintf("%s:%s:%s", c.config.KeyPrefix, provider, deliveryID)
	stored, err := c.rdb.SetNX(ctx, key, 1, c.config.Window).Result()
	if err != nil {
		return false, fmt.Errorf("replay cache check failed: %w", err)
	}
	return !stored, nil
}

// Health pings the underlying redis connection
func (c *Cache) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Close releases the redis connection
func (c *Cache) Close() error {
	return c.rdb.Close()
}
