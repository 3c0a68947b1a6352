package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	goredis "github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix    = "leitner:summary:"
	redisGenKeyPrefix = "leitner:summary:gen:"

	// minGenerationTTL keeps a user's generation counter alive well past
	// the lifetime of any summary stored under it.
	minGenerationTTL = 48 * time.Hour
)

// hashClient is the subset of *goredis.Client used by RedisCache.
type hashClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Incr(ctx context.Context, key string) *goredis.IntCmd
	HGet(ctx context.Context, key, field string) *goredis.StringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *goredis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type redisEntry struct {
	Summary    leitner.QueueSummary `json:"summary"`
	Generation Generation           `json:"generation"`
	ExpiresAt  time.Time            `json:"expires_at"`
}

// RedisCache shares summaries between instances. Each user is one hash whose
// fields are variant keys; the hash expires ttl after its last write and each
// field carries its own expiry checked against the injected clock. A separate
// counter key holds the user's generation; entries written under an older
// generation are treated as misses.
type RedisCache struct {
	client hashClient
	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger
	closer io.Closer
}

var _ SummaryCache = (*RedisCache)(nil)

// NewRedisCacheFromURL parses a redis:// URL, pings the server and returns a
// RedisCache using it.
func NewRedisCacheFromURL(url string, ttl time.Duration, clk clock.Clock, logger *slog.Logger) (*RedisCache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	c := NewRedisCache(rdb, ttl, clk, logger)
	c.closer = rdb
	return c, nil
}

// NewRedisCache wraps an existing client.
func NewRedisCache(client hashClient, ttl time.Duration, clk clock.Clock, logger *slog.Logger) *RedisCache {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		clock:  clk,
		logger: logger.With(slog.String("component", "summary_cache"), slog.String("backend", BackendRedis)),
	}
}

func redisKey(userID uuid.UUID) string {
	return redisKeyPrefix + userID.String()
}

func redisGenKey(userID uuid.UUID) string {
	return redisGenKeyPrefix + userID.String()
}

func (c *RedisCache) generation(ctx context.Context, userID uuid.UUID) (Generation, error) {
	n, err := c.client.Get(ctx, redisGenKey(userID)).Uint64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return Generation(n), nil
}

// Get implements SummaryCache.
func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID, key string) (leitner.QueueSummary, Generation, bool, error) {
	gen, err := c.generation(ctx, userID)
	if err != nil {
		return leitner.QueueSummary{}, 0, false, err
	}

	raw, err := c.client.HGet(ctx, redisKey(userID), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return leitner.QueueSummary{}, gen, false, nil
	}
	if err != nil {
		return leitner.QueueSummary{}, gen, false, fmt.Errorf("redis hget: %w", err)
	}

	var entry redisEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("discarding undecodable cache entry",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return leitner.QueueSummary{}, gen, false, nil
	}
	if entry.Generation != gen || !c.clock.Now().Before(entry.ExpiresAt) {
		return leitner.QueueSummary{}, gen, false, nil
	}
	return entry.Summary, gen, true, nil
}

// Set implements SummaryCache. A summary whose generation is already behind
// is dropped; one that loses a race with Invalidate after the check is still
// rejected by Get.
func (c *RedisCache) Set(
	ctx context.Context,
	userID uuid.UUID,
	key string,
	gen Generation,
	summary leitner.QueueSummary,
) error {
	if c.ttl <= 0 {
		return nil
	}

	current, err := c.generation(ctx, userID)
	if err != nil {
		return err
	}
	if current != gen {
		c.logger.Debug("discarding summary loaded before invalidation",
			slog.String("user_id", userID.String()))
		return nil
	}

	raw, err := json.Marshal(redisEntry{Summary: summary, Generation: gen, ExpiresAt: c.clock.Now().Add(c.ttl)})
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	k := redisKey(userID)
	if err := c.client.HSet(ctx, k, key, raw).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	if err := c.client.Expire(ctx, k, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis expire: %w", err)
	}
	return nil
}

// Invalidate implements SummaryCache.
func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	genKey := redisGenKey(userID)
	if err := c.client.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("redis incr generation: %w", err)
	}
	if err := c.client.Expire(ctx, genKey, max(minGenerationTTL, 2*c.ttl)).Err(); err != nil {
		return fmt.Errorf("redis expire generation: %w", err)
	}
	if err := c.client.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	c.logger.Debug("invalidated cached summaries", slog.String("user_id", userID.String()))
	return nil
}

// Close releases the client opened by NewRedisCacheFromURL. Clients passed
// to NewRedisCache are left to their owner.
func (c *RedisCache) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
