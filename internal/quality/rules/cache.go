package rules

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"dqengine/internal/quality/metrics"
	"dqengine/internal/quality/models"
)

// DefaultTTL is how long a loaded rule list is served before it is reloaded.
const DefaultTTL = 5 * time.Minute

const defaultLoadTimeout = 5 * time.Second

// Store lists the rule rows configured for a (table, column) pair, ordered by
// insertion (ascending id).
type Store interface {
	ListRules(ctx context.Context, table, column string) ([]models.RuleRecord, error)
}

// invalidator is implemented by stores that keep their own copy of rule rows
// (the Redis tier), so cache invalidation reaches them too.
type invalidator interface {
	Invalidate(ctx context.Context, table, column string) error
}

// Clock returns the current time.
type Clock func() time.Time

type entry struct {
	rules     []models.Rule
	expiresAt time.Time
}

// Cache keeps parsed rule lists per (table, column) and reloads an entry from
// the store once it expires. Population is lazy; there is no background sweep.
//
// Concurrent misses for the same key share one store query. A failed query is
// logged and answered with an empty rule list, and nothing is cached, so the
// next lookup retries the store.
//
// Every invalidation starts a new generation. A load begun in an earlier
// generation still answers its own waiters but is never cached, and lookups
// after the invalidation do not join it.
type Cache struct {
	store       Store
	ttl         time.Duration
	loadTimeout time.Duration
	clock       Clock
	logger      *slog.Logger
	metrics     *metrics.Metrics

	mu      sync.RWMutex
	entries map[string]entry
	gen     uint64
	loads   singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock sets the clock function for testability.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLoadTimeout bounds a single store query.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

// WithLogger sets the logger used for degraded loads.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records hits, misses and load failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// NewCache constructs a rule cache over store.
func NewCache(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		ttl:         DefaultTTL,
		loadTimeout: defaultLoadTimeout,
		clock:       time.Now,
		logger:      slog.Default(),
		entries:     make(map[string]entry),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Key is the cache key of a (table, column) pair.
func Key(table, column string) string {
	return table + ":" + column
}

// Rules returns the rules configured for (table, column). It never fails:
// store errors degrade to an empty list.
func (c *Cache) Rules(ctx context.Context, table, column string) []models.Rule {
	key := Key(table, column)

	c.mu.RLock()
	e, ok := c.entries[key]
	gen := c.gen
	c.mu.RUnlock()
	if ok && c.clock().Before(e.expiresAt) {
		c.metrics.RecordCacheHit()
		return e.rules
	}
	c.metrics.RecordCacheMiss()

	flight := strconv.FormatUint(gen, 10) + "|" + key
	v, _, _ := c.loads.Do(flight, func() (any, error) {
		return c.load(ctx, gen, key, table, column), nil
	})
	return v.([]models.Rule)
}

func (c *Cache) load(ctx context.Context, gen uint64, key, table, column string) []models.Rule {
	// The load is shared by every waiter on this key, so it must not inherit
	// the first caller's cancellation.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
	defer cancel()

	records, err := c.store.ListRules(loadCtx, table, column)
	if err != nil {
		c.metrics.IncrementRuleLoadFailures()
		c.logger.WarnContext(ctx, "failed to load data quality rules",
			"table", table,
			"column", column,
			"error", err,
		)
		return []models.Rule{}
	}

	parsed := ParseAll(ctx, c.logger, records)

	c.mu.Lock()
	if c.gen == gen {
		c.entries[key] = entry{rules: parsed, expiresAt: c.clock().Add(c.ttl)}
	}
	c.mu.Unlock()
	return parsed
}

// Invalidate drops the entry for (table, column) so the next lookup reloads it.
// The shared tier is cleared first so a reload cannot pick up its stale copy.
func (c *Cache) Invalidate(ctx context.Context, table, column string) error {
	var err error
	if inv, ok := c.store.(invalidator); ok {
		err = inv.Invalidate(ctx, table, column)
	}

	c.mu.Lock()
	delete(c.entries, Key(table, column))
	c.gen++
	c.mu.Unlock()
	return err
}

// InvalidateAll drops every in-process entry. Shared tiers expire on their own TTL.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.gen++
	c.mu.Unlock()
}

// Len reports the number of cached entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
