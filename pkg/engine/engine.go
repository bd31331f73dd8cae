package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/razorzibra-dot/authzkit/pkg/authz"
	"github.com/razorzibra-dot/authzkit/pkg/config"
	"github.com/razorzibra-dot/authzkit/pkg/observability"
	"github.com/razorzibra-dot/authzkit/pkg/roles"
	"github.com/razorzibra-dot/authzkit/pkg/token"
)

// Engine assembles the full authorization stack from configuration: the role
// store, its caches, the resolver, the authorizer, the alias-file watcher and
// observability. Hosts that embed individual components construct them
// directly; Engine is the batteries-included path.
type Engine struct {
	Authorizer *authz.Authorizer
	Resolver   *roles.Resolver
	Catalog    *roles.Catalog
	Metrics    *observability.Metrics

	db            *sql.DB
	redisProvider *roles.RedisProvider
	refresher     *roles.Refresher
	aliasWatcher  *token.Watcher
	tracer        *sdktrace.TracerProvider
	log           *logrus.Logger
}

// New builds an Engine from configuration. A nil registry gets a private one.
// With no Postgres URL configured the catalog serves an empty role list and
// CanManageRole falls back to the hard-coded hierarchy alone.
func New(ctx context.Context, cfg *config.Config, registry *prometheus.Registry) (*Engine, error) {
	log := newLogger(cfg.Observability.LogLevel)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(registry)
	}

	tracer, err := observability.InitTracing(ctx, cfg.Observability.OTel, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	e := &Engine{
		Metrics: metrics,
		tracer:  tracer,
		log:     log,
	}

	provider, err := e.buildProvider(ctx, cfg)
	if err != nil {
		e.Close(ctx)
		return nil, err
	}

	e.Catalog = roles.NewCatalog(provider, roles.CatalogConfig{
		TTL:     cfg.Engine.CatalogTTL,
		Logger:  log,
		Metrics: metrics,
	})
	e.Resolver = roles.NewResolver(e.Catalog, log, metrics)
	e.Authorizer = authz.New(e.Resolver, authz.Config{
		CacheSize: cfg.Engine.DecisionCacheSize,
		CacheTTL:  cfg.Engine.DecisionCacheTTL,
		Logger:    log,
		Metrics:   metrics,
	})

	if cfg.Engine.RefreshSchedule != "" {
		refresher, err := roles.NewRefresher(e.Catalog, cfg.Engine.RefreshSchedule, log)
		if err != nil {
			e.Close(ctx)
			return nil, err
		}
		e.refresher = refresher
		e.refresher.Start()
	}

	if cfg.Engine.AliasFile != "" {
		// An alias reload changes normalization, so decisions memoized
		// against the previous table must go with it.
		watcher, err := token.WatchAliasFile(cfg.Engine.AliasFile, log, e.Authorizer.InvalidateDecisions)
		if err != nil {
			e.Close(ctx)
			return nil, err
		}
		e.aliasWatcher = watcher
	}

	return e, nil
}

func (e *Engine) buildProvider(ctx context.Context, cfg *config.Config) (roles.Provider, error) {
	if cfg.Store.PostgresURL == "" {
		e.log.Info("No role store configured, serving an empty role catalog")
		return roles.ProviderFunc(func(context.Context) ([]roles.Role, error) {
			return nil, nil
		}), nil
	}

	db, err := sql.Open("postgres", cfg.Store.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open role store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to role store: %w", err)
	}
	e.db = db

	if err := roles.RunMigrations(ctx, db, e.log); err != nil {
		return nil, err
	}
	if err := roles.SeedPlatformRoles(ctx, db); err != nil {
		return nil, err
	}

	var provider roles.Provider = roles.NewStore(db)

	if cfg.Store.RedisEnabled {
		redisProvider, err := roles.NewRedisProvider(provider, roles.RedisProviderConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
			TTL:      cfg.Store.SnapshotTTL,
			Logger:   e.log,
		})
		if err != nil {
			return nil, err
		}
		e.redisProvider = redisProvider
		provider = redisProvider
	}

	return provider, nil
}

// InvalidateRoles drops the in-memory catalog snapshot and, when the Redis
// layer is active, the fleet-shared one. Call it after any role mutation.
func (e *Engine) InvalidateRoles(ctx context.Context) error {
	e.Catalog.Invalidate()
	if e.redisProvider != nil {
		if err := e.redisProvider.Invalidate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close stops background work and releases connections.
func (e *Engine) Close(ctx context.Context) error {
	var firstErr error

	if e.refresher != nil {
		e.refresher.Stop()
	}
	if e.aliasWatcher != nil {
		if err := e.aliasWatcher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.redisProvider != nil {
		if err := e.redisProvider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if e.db != nil {
		if err := e.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := observability.ShutdownTracing(ctx, e.tracer, e.log); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	switch strings.ToLower(level) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
