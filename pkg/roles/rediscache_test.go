package roles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRedisProvider(t *testing.T, next Provider) (*RedisProvider, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	provider, err := NewRedisProvider(next, RedisProviderConfig{
		Addr:   mr.Addr(),
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { provider.Close() })

	return provider, mr
}

func TestRedisProvider_MissFetchesAndStoresSnapshot(t *testing.T) {
	next := &countingProvider{roles: []Role{
		{Name: "Admin", IsSystemRole: true},
		{Name: "Customer", TenantID: strPtr("t1")},
	}}
	provider, mr := testRedisProvider(t, next)
	ctx := context.Background()

	got, err := provider.FetchAllRoles(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int32(1), next.fetchCount())

	// The snapshot landed in Redis with the configured TTL.
	assert.True(t, mr.Exists(snapshotKey))
	assert.InDelta(t, DefaultSnapshotTTL, mr.TTL(snapshotKey), float64(time.Second))
}

func TestRedisProvider_HitSkipsBackingStore(t *testing.T) {
	next := &countingProvider{roles: []Role{{Name: "Admin"}}}
	provider, _ := testRedisProvider(t, next)
	ctx := context.Background()

	_, err := provider.FetchAllRoles(ctx)
	require.NoError(t, err)

	got, err := provider.FetchAllRoles(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Admin", got[0].Name)
	assert.Equal(t, int32(1), next.fetchCount(), "second read must be served from the snapshot")
}

func TestRedisProvider_CorruptSnapshotFallsThrough(t *testing.T) {
	next := &countingProvider{roles: []Role{{Name: "Admin"}}}
	provider, mr := testRedisProvider(t, next)
	ctx := context.Background()

	require.NoError(t, mr.Set(snapshotKey, "not-json"))

	got, err := provider.FetchAllRoles(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(1), next.fetchCount())

	// The corrupt snapshot was replaced with a good one.
	stored, err := mr.Get(snapshotKey)
	require.NoError(t, err)
	assert.Contains(t, stored, "Admin")
}

func TestRedisProvider_Invalidate(t *testing.T) {
	next := &countingProvider{roles: []Role{{Name: "Admin"}}}
	provider, mr := testRedisProvider(t, next)
	ctx := context.Background()

	_, err := provider.FetchAllRoles(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(snapshotKey))

	require.NoError(t, provider.Invalidate(ctx))
	assert.False(t, mr.Exists(snapshotKey))

	_, err = provider.FetchAllRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.fetchCount())
}

func TestRedisProvider_BackingStoreErrorPropagates(t *testing.T) {
	next := &countingProvider{err: errors.New("store down")}
	provider, mr := testRedisProvider(t, next)

	_, err := provider.FetchAllRoles(context.Background())
	require.Error(t, err)
	assert.False(t, mr.Exists(snapshotKey), "a failed fetch must not leave a snapshot behind")
}

func TestNewRedisProvider_UnreachableRedis(t *testing.T) {
	_, err := NewRedisProvider(&countingProvider{}, RedisProviderConfig{
		Addr:   "127.0.0.1:1",
		Logger: quietLogger(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to Redis")
}
