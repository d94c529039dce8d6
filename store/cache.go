package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/redis/go-redis/v9"

	"sportzone-cli/config"
)

const (
	VenueCacheTTL = 10 * time.Minute
	keyPrefix     = "sportzone:"
)

// Cache stores JSON-encodable values under a key with a freshness window.
type Cache interface {
	// Get decodes the cached value into out. found is false when the key is
	// missing; fresh is false when the entry is older than its TTL.
	Get(ctx context.Context, key string, out any) (found bool, fresh bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Data      T         `json:"data"`
}

// fresh treats entries saved without a TTL as never expiring.
func (e cacheEnvelope[T]) fresh(now time.Time) bool {
	return e.ExpiresAt.IsZero() || now.Before(e.ExpiresAt)
}

// FileCache keeps one JSON file per key in the user cache directory.
type FileCache struct {
	dir string
	now func() time.Time
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, now: time.Now}
}

// DefaultFileCache roots the cache in the per-user cache directory.
func DefaultFileCache() (*FileCache, error) {
	path, err := config.CachePath("cache")
	if err != nil {
		return nil, err
	}
	return NewFileCache(path), nil
}

var unsafeKey = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, unsafeKey.ReplaceAllString(key, "_")+".json")
}

func (c *FileCache) Get(_ context.Context, key string, out any) (bool, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, false, nil
		}
		return false, false, err
	}
	var envelope cacheEnvelope[json.RawMessage]
	if err := json.Unmarshal(data, &envelope); err != nil {
		return false, false, err
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return false, false, err
	}
	return true, envelope.fresh(c.now()), nil
}

func (c *FileCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	now := c.now()
	envelope := cacheEnvelope[json.RawMessage]{UpdatedAt: now, Data: data}
	if ttl > 0 {
		envelope.ExpiresAt = now.Add(ttl)
	}
	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return err
	}
	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (c *FileCache) DeletePrefix(_ context.Context, prefix string) error {
	pattern := filepath.Join(c.dir, unsafeKey.ReplaceAllString(prefix, "_")+"*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// RedisCache shares cached listings between machines through Redis. Redis
// expires keys itself, so anything found is fresh.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string, password string, db int) *RedisCache {
	return &RedisCache{client: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string, out any) (bool, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if err := json.Unmarshal(val, out); err != nil {
		return false, false, err
	}
	return true, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, keyPrefix+key).Err()
}

func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Open builds the cache backend named in the config. Redis is checked with a
// ping so a bad address is reported at startup rather than on first use.
func Open(ctx context.Context, cfg config.Config) (Cache, error) {
	if cfg.Cache == config.CacheRedis {
		cache := NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := cache.Ping(ctx); err != nil {
			_ = cache.Close()
			return nil, err
		}
		return cache, nil
	}
	return DefaultFileCache()
}

// Keys used by the client.
const (
	KeyVenues            = "venues"
	KeyVenueSearchPrefix = "venues_search_"
)

func KeyVenueSearch(location string) string {
	return KeyVenueSearchPrefix + location
}
