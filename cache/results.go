package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kknight78/ffmpeg-banner-api/banner"
	"github.com/kknight78/ffmpeg-banner-api/config"

	"github.com/redis/go-redis/v9"
)

// resultKeyPrefix namespaces cache entries in Redis.
const resultKeyPrefix = "overlay:result:"

// ResultCache remembers published overlay URLs so that repeating a job can
// return the existing URL without fetching or rendering anything.
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache creates a Redis-backed result cache and verifies connectivity.
func NewResultCache(cfg config.RedisConfig) (*ResultCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping to verify
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &ResultCache{client: client, ttl: cfg.TTL}, nil
}

// Close closes the underlying Redis client.
func (c *ResultCache) Close() error {
	return c.client.Close()
}

// Lookup returns the published URL stored under key, if any. A missing key is
// a clean miss, not an error.
func (c *ResultCache) Lookup(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, resultKeyPrefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Store records the published URL under key with the configured TTL. Storing
// again resets the TTL so frequently requested jobs stay cached.
func (c *ResultCache) Store(ctx context.Context, key, url string) error {
	return c.client.Set(ctx, resultKeyPrefix+key, url, c.ttl).Err()
}

// jobDigest is the canonical description of an overlay job. The cache key is
// a hash of its JSON encoding, so field order and tags must stay stable.
type jobDigest struct {
	SourceURL       string         `json:"source_url"`
	LabelName       string         `json:"label_name"`
	PlatformTag     string         `json:"platform_tag"`
	DurationSeconds float64        `json:"duration_seconds"`
	Banner          *banner.Config `json:"banner,omitempty"`
}

// Key derives a deterministic cache key from everything that influences a
// job's published output.
func Key(sourceURL, labelName, platformTag string, durationSeconds float64, cfg *banner.Config) string {
	raw, _ := json.Marshal(jobDigest{
		SourceURL:       sourceURL,
		LabelName:       labelName,
		PlatformTag:     platformTag,
		DurationSeconds: durationSeconds,
		Banner:          cfg,
	})
	h := sha256.Sum256(raw)
	return hex.EncodeToString(h[:])
}
