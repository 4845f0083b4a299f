package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
)

func TestNoop_SiempreMiss(t *testing.T) {
	ctx := context.Background()
	c := NoopDashboardCache{}
	require.NoError(t, c.Set(ctx, "t1", &dto.DashboardSummaryDTO{}, time.Minute))

	_, err := c.Get(ctx, "t1")
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
	assert.NoError(t, c.Invalidate(ctx, "t1"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "tienda-erp:dashboard:abc", Key("abc"))
}

// Requiere un Redis real: TEST_REDIS_ADDR=localhost:6379 go test ./internal/infrastructure/cache/...
func TestRedis_SetGetInvalidate(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	c := NewRedisDashboardCache(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })
	require.NoError(t, c.Ping(ctx))

	tenant := "test-" + time.Now().Format("150405.000000")
	_, err := c.Get(ctx, tenant)
	require.ErrorIs(t, err, ports.ErrCacheMiss)

	in := &dto.DashboardSummaryDTO{
		TodaySales:  decimal.RequireFromString("5400.5"),
		TodayOrders: 2,
		TopProducts: []dto.TopProductDTO{{ProductID: "p-1", ProductName: "Bebida", Revenue: decimal.NewFromInt(3000)}},
		GeneratedAt: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Set(ctx, tenant, in, time.Minute))

	got, err := c.Get(ctx, tenant)
	require.NoError(t, err)
	assert.True(t, got.TodaySales.Equal(in.TodaySales))
	assert.Equal(t, 2, got.TodayOrders)
	require.Len(t, got.TopProducts, 1)
	assert.True(t, got.GeneratedAt.Equal(in.GeneratedAt))

	require.NoError(t, c.Invalidate(ctx, tenant))
	_, err = c.Get(ctx, tenant)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}
