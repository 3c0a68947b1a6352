package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
)

type memoryEntry struct {
	summary   leitner.QueueSummary
	gen       Generation
	expiresAt time.Time
}

// userBucket holds every variant cached for one user.
type userBucket map[string]memoryEntry

// MemoryCache keeps summaries in process memory. Freshness is judged against
// the injected clock; go-cache's own expiry only reclaims memory.
type MemoryCache struct {
	store  *gocache.Cache
	ttl    time.Duration
	clock  clock.Clock
	mu     sync.Mutex
	gens   map[uuid.UUID]Generation
	logger *slog.Logger
}

var _ SummaryCache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache. A non-positive ttl disables storage.
func NewMemoryCache(ttl time.Duration, clk clock.Clock, logger *slog.Logger) *MemoryCache {
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}

	cleanup := 2 * ttl
	if cleanup <= 0 {
		cleanup = time.Minute
	}

	return &MemoryCache{
		store:  gocache.New(ttl, cleanup),
		ttl:    ttl,
		clock:  clk,
		gens:   make(map[uuid.UUID]Generation),
		logger: logger.With(slog.String("component", "summary_cache"), slog.String("backend", BackendMemory)),
	}
}

// Get implements SummaryCache.
func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID, key string) (leitner.QueueSummary, Generation, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.gens[userID]
	raw, ok := c.store.Get(userID.String())
	if !ok {
		return leitner.QueueSummary{}, gen, false, nil
	}
	entry, ok := raw.(userBucket)[key]
	if !ok || entry.gen != gen || !c.clock.Now().Before(entry.expiresAt) {
		return leitner.QueueSummary{}, gen, false, nil
	}
	return entry.summary, gen, true, nil
}

// Set implements SummaryCache.
func (c *MemoryCache) Set(_ context.Context, userID uuid.UUID, key string, gen Generation, summary leitner.QueueSummary) error {
	if c.ttl <= 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gens[userID] {
		c.logger.Debug("discarding summary loaded before invalidation",
			slog.String("user_id", userID.String()))
		return nil
	}

	now := c.clock.Now()
	bucket := userBucket{}
	if raw, ok := c.store.Get(userID.String()); ok {
		for k, e := range raw.(userBucket) {
			if e.gen == gen && now.Before(e.expiresAt) {
				bucket[k] = e
			}
		}
	}
	bucket[key] = memoryEntry{summary: summary, gen: gen, expiresAt: now.Add(c.ttl)}
	c.store.Set(userID.String(), bucket, gocache.DefaultExpiration)
	return nil
}

// Invalidate implements SummaryCache.
func (c *MemoryCache) Invalidate(_ context.Context, userID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[userID]++
	c.store.Delete(userID.String())
	c.logger.Debug("invalidated cached summaries", slog.String("user_id", userID.String()))
	return nil
}

// Len reports how many users currently have cached entries.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
