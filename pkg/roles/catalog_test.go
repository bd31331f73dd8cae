package roles

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// countingProvider records how many fetches the catalog performs.
type countingProvider struct {
	mu      sync.Mutex
	fetches int32
	roles   []Role
	err     error
}

func (p *countingProvider) FetchAllRoles(ctx context.Context) ([]Role, error) {
	atomic.AddInt32(&p.fetches, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	out := make([]Role, len(p.roles))
	copy(out, p.roles)
	return out, nil
}

func (p *countingProvider) fetchCount() int32 {
	return atomic.LoadInt32(&p.fetches)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testCatalog(p Provider, clock clockwork.Clock) *Catalog {
	return NewCatalog(p, CatalogConfig{
		TTL:    5 * time.Minute,
		Clock:  clock,
		Logger: quietLogger(),
	})
}

func TestCatalog_CachesWithinTTL(t *testing.T) {
	provider := &countingProvider{roles: []Role{
		{Name: "Admin", IsSystemRole: true},
		{Name: "Agent"},
	}}
	clock := clockwork.NewFakeClock()
	catalog := testCatalog(provider, clock)
	ctx := context.Background()

	first := catalog.Roles(ctx)
	require.Len(t, first, 2)
	require.Equal(t, int32(1), provider.fetchCount())

	clock.Advance(4 * time.Minute)
	second := catalog.Roles(ctx)
	assert.Len(t, second, 2)
	assert.Equal(t, int32(1), provider.fetchCount(), "within TTL the snapshot must be served without refetching")
}

func TestCatalog_RefetchesAfterTTL(t *testing.T) {
	provider := &countingProvider{roles: []Role{{Name: "Admin"}}}
	clock := clockwork.NewFakeClock()
	catalog := testCatalog(provider, clock)
	ctx := context.Background()

	catalog.Roles(ctx)
	clock.Advance(5 * time.Minute)
	catalog.Roles(ctx)

	assert.Equal(t, int32(2), provider.fetchCount())
}

func TestCatalog_InvalidateForcesRefetchWithinTTL(t *testing.T) {
	provider := &countingProvider{roles: []Role{{Name: "Admin"}}}
	clock := clockwork.NewFakeClock()
	catalog := testCatalog(provider, clock)
	ctx := context.Background()

	catalog.Roles(ctx)
	require.Equal(t, int32(1), provider.fetchCount())

	// Still well within the TTL window.
	clock.Advance(time.Second)
	catalog.Invalidate()
	catalog.Roles(ctx)

	assert.Equal(t, int32(2), provider.fetchCount())
}

func TestCatalog_FetchFailureDegradesToEmpty(t *testing.T) {
	provider := &countingProvider{err: errors.New("connection refused")}
	clock := clockwork.NewFakeClock()
	catalog := testCatalog(provider, clock)

	got := catalog.Roles(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	// A failure is not cached: the next read retries the provider.
	catalog.Roles(context.Background())
	assert.Equal(t, int32(2), provider.fetchCount())
}

func TestCatalog_FailureRecovery(t *testing.T) {
	provider := &countingProvider{err: errors.New("down")}
	clock := clockwork.NewFakeClock()
	catalog := testCatalog(provider, clock)
	ctx := context.Background()

	require.Empty(t, catalog.Roles(ctx))

	provider.mu.Lock()
	provider.err = nil
	provider.roles = []Role{{Name: "Manager"}}
	provider.mu.Unlock()

	got := catalog.Roles(ctx)
	require.Len(t, got, 1)
	assert.Equal(t, "Manager", got[0].Name)
}

func TestCatalog_LookupNormalizesNames(t *testing.T) {
	provider := &countingProvider{roles: []Role{
		{Name: "  Admin ", IsSystemRole: true},
	}}
	catalog := testCatalog(provider, clockwork.NewFakeClock())
	ctx := context.Background()

	role, ok := catalog.Lookup(ctx, "ADMIN")
	require.True(t, ok)
	assert.Equal(t, "  Admin ", role.Name, "stored name must be preserved verbatim")

	_, ok = catalog.Lookup(ctx, "admin")
	assert.True(t, ok)
	_, ok = catalog.Lookup(ctx, "missing")
	assert.False(t, ok)
}

func TestCatalog_FirstSeenOrderPreserved(t *testing.T) {
	provider := &countingProvider{roles: []Role{
		{Name: "Super_Admin"},
		{Name: "Admin"},
		{Name: "ADMIN"}, // duplicate after normalization; latest record wins, position stays
		{Name: "Customer", TenantID: strPtr("t1")},
	}}
	catalog := testCatalog(provider, clockwork.NewFakeClock())

	got := catalog.Roles(context.Background())
	require.Len(t, got, 3)
	assert.Equal(t, "Super_Admin", got[0].Name)
	assert.Equal(t, "ADMIN", got[1].Name)
	assert.Equal(t, "Customer", got[2].Name)
}

func TestCatalog_ConcurrentMissesShareOneFetch(t *testing.T) {
	release := make(chan struct{})
	var fetches int32
	provider := ProviderFunc(func(ctx context.Context) ([]Role, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return []Role{{Name: "Admin"}}, nil
	})
	catalog := testCatalog(provider, clockwork.NewFakeClock())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := catalog.Roles(context.Background())
			assert.Len(t, got, 1)
		}()
	}

	// Give the goroutines time to pile up on the in-flight fetch.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "concurrent misses must collapse into one fetch")
}

func TestCatalog_InvalidateSafeDuringReads(t *testing.T) {
	provider := &countingProvider{roles: []Role{{Name: "Admin"}, {Name: "Agent"}}}
	catalog := testCatalog(provider, clockwork.NewFakeClock())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				got := catalog.Roles(ctx)
				// Reads may observe pre- or post-invalidation snapshots but
				// never a partial one.
				assert.True(t, len(got) == 0 || len(got) == 2)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		catalog.Invalidate()
		time.Sleep(time.Millisecond)
	}
	wg.Wait()
}

func TestCatalog_DefaultTTL(t *testing.T) {
	catalog := NewCatalog(&countingProvider{}, CatalogConfig{})
	assert.Equal(t, DefaultCatalogTTL, catalog.ttl)
}
