package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
)

// ErrCacheMiss la clave no está en caché (no es un fallo del backend).
var ErrCacheMiss = errors.New("cache miss")

// DashboardCache caché del resumen del dashboard por tenant.
// Los errores del backend se registran y se ignoran; el dashboard se recalcula desde la BD.
type DashboardCache interface {
	Get(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, error)
	Set(ctx context.Context, tenantID string, summary *dto.DashboardSummaryDTO, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID string) error
}
