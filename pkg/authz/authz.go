package authz

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/razorzibra-dot/authzkit/pkg/match"
	"github.com/razorzibra-dot/authzkit/pkg/observability"
	"github.com/razorzibra-dot/authzkit/pkg/roles"
)

var tracer = otel.Tracer("authzkit/authz")

const (
	// DefaultCacheSize bounds the decision cache. Decisions are tiny, so the
	// bound exists to cap growth under adversarial token churn, not memory.
	DefaultCacheSize = 4096

	// DefaultCacheTTL is how long a cached decision stays valid. Decisions are
	// pure functions of their inputs, so the TTL only matters when the alias
	// table is hot-reloaded underneath the cache.
	DefaultCacheTTL = time.Minute
)

// Config configures an Authorizer.
type Config struct {
	// CacheSize is the maximum number of cached decisions. Zero means
	// DefaultCacheSize; negative disables the cache.
	CacheSize int

	// CacheTTL is the lifetime of a cached decision. Zero means
	// DefaultCacheTTL.
	CacheTTL time.Duration

	Logger  *logrus.Logger
	Metrics *observability.Metrics
}

// Authorizer is the engine's public surface: permission checks over a held
// token set and role-management authority checks. All answering paths are
// fail-closed booleans; internal faults surface as denials, never as errors.
type Authorizer struct {
	resolver *roles.Resolver
	cache    *lru.LRU[cacheKey, match.Decision]
	log      *logrus.Logger
	metrics  *observability.Metrics
}

type cacheKey struct {
	held      string
	requested string
}

// New creates an Authorizer over the given role resolver. A nil resolver is
// allowed when only permission checks are needed; CanManageRole then resolves
// against the hard-coded hierarchy alone.
func New(resolver *roles.Resolver, cfg Config) *Authorizer {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	var cache *lru.LRU[cacheKey, match.Decision]
	if cfg.CacheSize > 0 {
		cache = lru.NewLRU[cacheKey, match.Decision](cfg.CacheSize, nil, cfg.CacheTTL)
	}

	return &Authorizer{
		resolver: resolver,
		cache:    cache,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// IsGranted reports whether any token in the held set satisfies the requested
// permission. An empty held set denies; an empty requested token denies.
func (a *Authorizer) IsGranted(ctx context.Context, held []string, requested string) bool {
	start := time.Now()

	_, span := tracer.Start(ctx, "authz.IsGranted")
	defer span.End()
	span.SetAttributes(
		attribute.String("authz.requested", requested),
		attribute.Int("authz.held_count", len(held)),
	)

	if requested == "" {
		a.metrics.ObserveCheck(match.OutcomeDenied.String(), false, time.Since(start).Seconds())
		span.SetAttributes(attribute.Bool("authz.granted", false))
		return false
	}

	last := match.Decision{Outcome: match.OutcomeDenied}
	for _, h := range held {
		decision := a.evaluate(h, requested)
		if decision.Granted {
			a.metrics.ObserveCheck(decision.Outcome.String(), true, time.Since(start).Seconds())
			span.SetAttributes(
				attribute.Bool("authz.granted", true),
				attribute.String("authz.outcome", decision.Outcome.String()),
			)
			return true
		}
		last = decision
	}

	a.metrics.ObserveCheck(last.Outcome.String(), false, time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Bool("authz.granted", false),
		attribute.String("authz.outcome", last.Outcome.String()),
	)
	return false
}

// Check evaluates a single held token against a requested one and returns the
// full decision, for callers that log or audit the deciding branch.
func (a *Authorizer) Check(ctx context.Context, held, requested string) match.Decision {
	_, span := tracer.Start(ctx, "authz.Check")
	defer span.End()

	decision := a.evaluate(held, requested)
	span.SetAttributes(
		attribute.Bool("authz.granted", decision.Granted),
		attribute.String("authz.outcome", decision.Outcome.String()),
	)
	return decision
}

func (a *Authorizer) evaluate(held, requested string) match.Decision {
	if a.cache == nil {
		return match.Evaluate(held, requested)
	}

	key := cacheKey{held: held, requested: requested}
	if decision, ok := a.cache.Get(key); ok {
		if a.metrics != nil {
			a.metrics.DecisionCacheHits.Inc()
		}
		return decision
	}
	if a.metrics != nil {
		a.metrics.DecisionCacheMisses.Inc()
	}

	decision := match.Evaluate(held, requested)
	a.cache.Add(key, decision)
	return decision
}

// CanManageRole reports whether a subject holding actingRole may manage a
// subject holding targetRole. Role names are database spellings; each is
// mapped to its canonical form through the resolver before the hierarchy
// comparison, falling back to its own normalized form when the catalog does
// not know it. Equal or unknown ranks deny.
//
// Self-management and any super-admin bypass are upstream policy; this method
// answers only the hierarchy question.
func (a *Authorizer) CanManageRole(ctx context.Context, actingRole, targetRole string) bool {
	_, span := tracer.Start(ctx, "authz.CanManageRole")
	defer span.End()

	acting := roles.NormalizeName(actingRole)
	target := roles.NormalizeName(targetRole)
	if a.resolver != nil {
		acting = a.resolver.MapDatabaseRoleToCanonical(ctx, actingRole, acting)
		target = a.resolver.MapDatabaseRoleToCanonical(ctx, targetRole, target)
	}

	granted := roles.Outranks(acting, target)
	span.SetAttributes(
		attribute.String("authz.acting_role", acting),
		attribute.String("authz.target_role", target),
		attribute.Bool("authz.granted", granted),
	)
	return granted
}

// Resolver returns the role resolver backing CanManageRole, or nil.
func (a *Authorizer) Resolver() *roles.Resolver {
	return a.resolver
}

// InvalidateDecisions drops every cached decision. Call it after an alias
// table reload changes normalization.
func (a *Authorizer) InvalidateDecisions() {
	if a.cache != nil {
		a.cache.Purge()
	}
}
