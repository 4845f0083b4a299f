package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard de ventas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// SalesSummary ingresos, costo y cantidad de pedidos válidos en [from, to).
// Excluye pedidos cancelados; COALESCE devuelve cero en períodos sin ventas.
func (r *AnalyticsRepo) SalesSummary(ctx context.Context, tenantID string, from, to time.Time) (repository.SalesSummary, error) {
	const query = `
	SELECT
	    COALESCE(SUM(o.total),      0) AS revenue,
	    COALESCE(SUM(o.cost_total), 0) AS cost,
	    COUNT(*)                       AS orders
	FROM orders o
	WHERE o.tenant_id  = $1
	  AND o.created_at >= $2
	  AND o.created_at <  $3
	  AND o.status     <> 'cancelled'`

	var s repository.SalesSummary
	if err := r.q.QueryRow(ctx, query, tenantID, from, to).Scan(&s.Revenue, &s.Cost, &s.Orders); err != nil {
		return repository.SalesSummary{}, fmt.Errorf("analytics.SalesSummary: %w", err)
	}
	return s, nil
}

// TopProducts devuelve los `limit` productos con mayor ingreso en el período.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	const query = `
	SELECT
	    p.id::text,
	    p.name,
	    SUM(i.quantity)               AS quantity_sold,
	    SUM(i.subtotal)               AS revenue,
	    SUM(i.quantity * i.unit_cost) AS cost
	FROM orders o
	JOIN order_items i ON i.order_id = o.id
	JOIN products    p ON p.id       = i.product_id
	WHERE o.tenant_id  = $1
	  AND o.created_at >= $2
	  AND o.created_at <  $3
	  AND o.status     <> 'cancelled'
	GROUP BY p.id, p.name
	ORDER BY revenue DESC
	LIMIT $4`

	rows, err := r.q.Query(ctx, query, tenantID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	var results []repository.TopProduct
	for rows.Next() {
		var row repository.TopProduct
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.QuantitySold, &row.Revenue, &row.Cost); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
