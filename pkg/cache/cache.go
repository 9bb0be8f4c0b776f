package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL constants
const (
	TTLDraft    = 24 * time.Hour   // unsent composer drafts
	TTLInstance = 30 * time.Minute // instance markers (counted visits)
	TTLDefault  = 5 * time.Minute
)

// Key prefixes
const (
	PrefixDraft    = "widgets:draft:"
	PrefixInstance = "widgets:instance:"
)

// ErrUnavailable is returned by reads when no Redis client is configured
var ErrUnavailable = errors.New("redis not available")

// ErrMiss is returned when a key does not exist
var ErrMiss = errors.New("cache miss")

// Service is the Redis-backed cache of the embed server. Every write is a no-op
// without a client, so the server runs without Redis.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Drafts of widget instances
	GetDraft(ctx context.Context, instanceID string, dest interface{}) error
	SetDraft(ctx context.Context, instanceID string, draft interface{}) error
	DeleteDraft(ctx context.Context, instanceID string) error

	// ClaimOnce marks key for ttl and reports whether this call set the mark
	ClaimOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates the cache service; client may be nil
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

// Get reads key into dest
func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrUnavailable
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Set stores value as JSON
func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// Drafts
// ========================================

func draftKey(instanceID string) string {
	return PrefixDraft + instanceID
}

func (c *redisCache) GetDraft(ctx context.Context, instanceID string, dest interface{}) error {
	return c.Get(ctx, draftKey(instanceID), dest)
}

func (c *redisCache) SetDraft(ctx context.Context, instanceID string, draft interface{}) error {
	return c.Set(ctx, draftKey(instanceID), draft, TTLDraft)
}

func (c *redisCache) DeleteDraft(ctx context.Context, instanceID string) error {
	return c.Delete(ctx, draftKey(instanceID))
}

// ========================================
// Instance markers
// ========================================

// InstanceKey namespaces a per-instance marker
func InstanceKey(kind, instanceID string) string {
	return PrefixInstance + kind + ":" + instanceID
}

func (c *redisCache) ClaimOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if c.client == nil {
		return false, ErrUnavailable
	}
	if ttl <= 0 {
		ttl = TTLInstance
	}
	return c.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}
