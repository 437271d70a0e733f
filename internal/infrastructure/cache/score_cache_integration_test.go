//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/port"
	"github.com/sanjanarawald/CreditApprovalSystem/internal/infrastructure/cache"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/testutil"
)

func TestRedisScoreCache(t *testing.T) {
	ctx := context.Background()
	client := testutil.StartRedis(ctx, t)
	c := cache.NewRedisScoreCache(client, time.Minute)

	today := civil.Date{Year: 2025, Month: time.March, Day: 10}
	yesterday := today.AddDays(-1)
	snap := port.ScoreSnapshot{Score: 70, SumOfCurrentEMIs: decimal.RequireFromString("4000.50")}

	gen1, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "0.0", gen1)
	gen2, err := c.Generation(ctx, 2)
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, 1, gen1, today)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, 1, gen1, today, snap))
	require.NoError(t, c.Set(ctx, 1, gen1, yesterday, snap))
	require.NoError(t, c.Set(ctx, 2, gen2, today, snap))

	got, ok, err := c.Get(ctx, 1, gen1, today)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 70, got.Score)
	assert.True(t, got.SumOfCurrentEMIs.Equal(snap.SumOfCurrentEMIs))

	ttl, err := client.TTL(ctx, "credit:score:1:0.0:2025-03-10").Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, c.Invalidate(ctx, 1))
	fresh, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "0.1", fresh)
	_, ok, _ = c.Get(ctx, 1, fresh, today)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, 1, fresh, yesterday)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, 2, gen2, today)
	assert.True(t, ok, "other customers keep their entries")

	t.Run("write under a superseded generation is never served", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, 1, gen1, today, snap))

		current, err := c.Generation(ctx, 1)
		require.NoError(t, err)
		_, ok, err := c.Get(ctx, 1, current, today)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	require.NoError(t, c.InvalidateAll(ctx))
	gen2After, err := c.Generation(ctx, 2)
	require.NoError(t, err)
	assert.NotEqual(t, gen2, gen2After)
	_, ok, _ = c.Get(ctx, 2, gen2After, today)
	assert.False(t, ok)

	exists, err := client.Exists(ctx, "credit:score:gen:1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "generation counters survive a flush")
}
