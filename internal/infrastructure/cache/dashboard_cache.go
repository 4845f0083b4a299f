// Package cache implementa ports.DashboardCache sobre Redis, con una variante Noop
// para cuando REDIS_ADDR no está configurado.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
)

const keyPrefix = "tienda-erp:dashboard:"

// Key clave Redis del resumen de un tenant.
func Key(tenantID string) string {
	return keyPrefix + tenantID
}

// RedisDashboardCache guarda el resumen serializado en JSON con TTL.
type RedisDashboardCache struct {
	client *redis.Client
}

// NewRedisDashboardCache crea el cliente. No abre conexión hasta el primer comando; usar Ping al arrancar.
func NewRedisDashboardCache(addr, password string, db int) *RedisDashboardCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisDashboardCache{client: client}
}

func (c *RedisDashboardCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisDashboardCache) Close() error {
	return c.client.Close()
}

// Get devuelve ports.ErrCacheMiss si la clave no existe o expiró.
func (c *RedisDashboardCache) Get(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, error) {
	val, err := c.client.Get(ctx, Key(tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	var summary dto.DashboardSummaryDTO
	if err := json.Unmarshal(val, &summary); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &summary, nil
}

func (c *RedisDashboardCache) Set(ctx context.Context, tenantID string, summary *dto.DashboardSummaryDTO, ttl time.Duration) error {
	if summary == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, Key(tenantID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *RedisDashboardCache) Invalidate(ctx context.Context, tenantID string) error {
	if err := c.client.Del(ctx, Key(tenantID)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

// NoopDashboardCache nunca guarda nada: cada Get es un miss.
type NoopDashboardCache struct{}

func (NoopDashboardCache) Get(_ context.Context, _ string) (*dto.DashboardSummaryDTO, error) {
	return nil, ports.ErrCacheMiss
}

func (NoopDashboardCache) Set(_ context.Context, _ string, _ *dto.DashboardSummaryDTO, _ time.Duration) error {
	return nil
}

func (NoopDashboardCache) Invalidate(_ context.Context, _ string) error {
	return nil
}

var (
	_ ports.DashboardCache = (*RedisDashboardCache)(nil)
	_ ports.DashboardCache = NoopDashboardCache{}
)
