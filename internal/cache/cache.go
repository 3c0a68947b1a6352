package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/config"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// ErrUnknownBackend is returned by New for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Generation identifies a user's cache state between two invalidations.
type Generation uint64

// SummaryCache holds queue summaries keyed by user and variant.
//
// Every Invalidate advances the user's generation. Get reports the generation
// it observed and Set records the summary under the generation passed in, so
// a summary loaded before an invalidation is never served after it.
type SummaryCache interface {
	// Get returns the cached summary, the user's current generation and
	// whether the summary was present and fresh.
	Get(ctx context.Context, userID uuid.UUID, key string) (leitner.QueueSummary, Generation, bool, error)

	// Set stores summary for the configured TTL. gen must be the value
	// returned by the Get that preceded the load.
	Set(ctx context.Context, userID uuid.UUID, key string, gen Generation, summary leitner.QueueSummary) error

	// Invalidate drops every entry belonging to userID and advances its
	// generation.
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// SummaryKey builds the variant key for a summary computed at now. The
// calendar day is part of the key so a summary never outlives its day window.
func SummaryKey(deckID *uuid.UUID, now time.Time, loc *time.Location) string {
	deck := "all"
	if deckID != nil {
		deck = deckID.String()
	}
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("%s|%s", deck, now.In(loc).Format(time.DateOnly))
}

// New builds the backend named in cfg.
func New(cfg config.CacheConfig, clk clock.Clock, logger *slog.Logger) (SummaryCache, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryCache(cfg.TTL(), clk, logger), nil
	case BackendRedis:
		return NewRedisCacheFromURL(cfg.RedisURL, cfg.TTL(), clk, logger)
	case BackendNone:
		return NoopCache{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

// NoopCache never stores anything.
type NoopCache struct{}

var _ SummaryCache = NoopCache{}

// Get always misses.
func (NoopCache) Get(context.Context, uuid.UUID, string) (leitner.QueueSummary, Generation, bool, error) {
	return leitner.QueueSummary{}, 0, false, nil
}

// Set discards the summary.
func (NoopCache) Set(context.Context, uuid.UUID, string, Generation, leitner.QueueSummary) error {
	return nil
}

// Invalidate does nothing.
func (NoopCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
