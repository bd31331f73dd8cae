package roles

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/razorzibra-dot/authzkit/pkg/observability"
)

// DefaultCatalogTTL is how long a role snapshot is served before the next
// read triggers a refetch.
const DefaultCatalogTTL = 5 * time.Minute

// CatalogConfig configures a Catalog. The zero value is usable: default TTL,
// real clock, a fresh logger and no metrics.
type CatalogConfig struct {
	// TTL is the snapshot lifetime. Zero means DefaultCatalogTTL.
	TTL time.Duration

	// Clock is the time source, injectable for deterministic TTL tests.
	Clock clockwork.Clock

	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// Catalog is the role catalog cache: an in-memory snapshot of all defined
// roles keyed by normalized name, refreshed from a Provider when older than
// its TTL or after an explicit Invalidate. It exclusively owns the snapshot;
// nothing else mutates it.
type Catalog struct {
	provider Provider
	ttl      time.Duration
	clock    clockwork.Clock
	log      *logrus.Logger
	metrics  *observability.Metrics

	// group collapses concurrent refreshes so a cache miss under load does
	// not fan out into a fetch storm against the backing store.
	group singleflight.Group

	mu          sync.RWMutex
	byName      map[string]Role
	order       []string // normalized names in first-seen order
	lastRefresh time.Time
}

// NewCatalog creates a role catalog cache over the given provider.
func NewCatalog(provider Provider, cfg CatalogConfig) *Catalog {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCatalogTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Catalog{
		provider: provider,
		ttl:      cfg.TTL,
		clock:    cfg.Clock,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Roles returns the cached role snapshot in first-seen order, refetching from
// the provider when the snapshot is missing or stale. A fetch failure is
// logged and degrades to an empty list: an empty result means "no roles
// resolvable right now", not "zero roles exist", and is not cached.
func (c *Catalog) Roles(ctx context.Context) []Role {
	if snapshot, ok := c.freshSnapshot(); ok {
		if c.metrics != nil {
			c.metrics.RoleCacheHits.Inc()
		}
		return snapshot
	}
	if c.metrics != nil {
		c.metrics.RoleCacheMisses.Inc()
	}
	return c.refresh(ctx)
}

// Lookup returns the role record stored under the normalized form of name.
func (c *Catalog) Lookup(ctx context.Context, name string) (Role, bool) {
	normalized := NormalizeName(name)

	c.mu.RLock()
	if c.byName != nil && c.clock.Since(c.lastRefresh) < c.ttl {
		role, ok := c.byName[normalized]
		c.mu.RUnlock()
		if c.metrics != nil {
			c.metrics.RoleCacheHits.Inc()
		}
		return role, ok
	}
	c.mu.RUnlock()

	if c.metrics != nil {
		c.metrics.RoleCacheMisses.Inc()
	}
	for _, role := range c.refresh(ctx) {
		if NormalizeName(role.Name) == normalized {
			return role, true
		}
	}
	return Role{}, false
}

// Invalidate drops the snapshot so the next read refetches, regardless of
// TTL. External code must call this after any role mutation. Safe to call
// concurrently with in-flight reads: a read in progress keeps the snapshot it
// already took.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	c.byName = nil
	c.order = nil
	c.lastRefresh = time.Time{}
	c.mu.Unlock()
}

func (c *Catalog) freshSnapshot() ([]Role, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.byName == nil || c.clock.Since(c.lastRefresh) >= c.ttl {
		return nil, false
	}
	return c.snapshotLocked(), true
}

// snapshotLocked copies the ordered role list; callers must hold at least a
// read lock.
func (c *Catalog) snapshotLocked() []Role {
	out := make([]Role, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.byName[name])
	}
	return out
}

// refresh performs a full fetch and atomically replaces the snapshot.
// Concurrent callers share one in-flight fetch.
func (c *Catalog) refresh(ctx context.Context) []Role {
	result, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		fetched, err := c.provider.FetchAllRoles(ctx)
		if err != nil {
			return nil, err
		}

		byName := make(map[string]Role, len(fetched))
		order := make([]string, 0, len(fetched))
		for _, role := range fetched {
			normalized := NormalizeName(role.Name)
			if normalized == "" {
				continue
			}
			if _, seen := byName[normalized]; !seen {
				order = append(order, normalized)
			}
			byName[normalized] = role
		}

		now := c.clock.Now()
		c.mu.Lock()
		c.byName = byName
		c.order = order
		c.lastRefresh = now
		snapshot := c.snapshotLocked()
		c.mu.Unlock()

		if c.metrics != nil {
			c.metrics.RoleCacheRefreshes.Inc()
			c.metrics.RoleCacheSize.Set(float64(len(order)))
			c.metrics.RoleCacheLastRefresh.Set(float64(now.Unix()))
		}
		return snapshot, nil
	})
	if err != nil {
		if c.metrics != nil {
			c.metrics.RoleCacheFailures.Inc()
		}
		c.log.WithError(err).Warn("Failed to fetch roles from backing store, serving empty role set")
		return []Role{}
	}
	return result.([]Role)
}
