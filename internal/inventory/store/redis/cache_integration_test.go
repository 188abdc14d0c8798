//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeline/internal/inventory/models"
	invredis "lifeline/internal/inventory/store/redis"
	"lifeline/internal/platform/config"
	platformredis "lifeline/internal/platform/redis"
	id "lifeline/pkg/domain"
	"lifeline/pkg/testutil/containers"
)

func newCache(t *testing.T) *invredis.Cache {
	t.Helper()

	container := containers.NewRedisContainer(t)
	client, err := platformredis.New(config.RedisConfig{URL: container.URL})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return invredis.New(client)
}

func TestCacheRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cache := newCache(t)
	ctx := context.Background()

	snapshot := &models.Snapshot{
		BloodGroup:      id.ONegative,
		District:        "kathmandu",
		AvailableDonors: 10,
		SupplyUnits:     20,
		UnitsNeeded:     25,
		Deficit:         5,
		Status:          models.StatusCritical,
		ComputedAt:      time.Now().UTC().Truncate(time.Second),
	}

	miss, err := cache.Get(ctx, "inventory:O_NEGATIVE:kathmandu")
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, cache.Set(ctx, "inventory:O_NEGATIVE:kathmandu", snapshot, time.Minute))

	hit, err := cache.Get(ctx, "inventory:O_NEGATIVE:kathmandu")
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, snapshot.Deficit, hit.Deficit)
	assert.Equal(t, snapshot.Status, hit.Status)
	assert.True(t, snapshot.ComputedAt.Equal(hit.ComputedAt))
}

func TestCacheExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cache := newCache(t)
	ctx := context.Background()

	snapshot := &models.Snapshot{BloodGroup: id.APositive, Status: models.StatusAdequate}
	require.NoError(t, cache.Set(ctx, "inventory:A_POSITIVE:", snapshot, 100*time.Millisecond))

	time.Sleep(200 * time.Millisecond)

	gone, err := cache.Get(ctx, "inventory:A_POSITIVE:")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
