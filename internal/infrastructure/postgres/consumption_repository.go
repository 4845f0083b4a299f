package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo consumos internos (bajas de stock sin venta).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

const consumptionSelect = `
	SELECT c.id, c.tenant_id, c.product_id, p.name, c.quantity, c.unit_cost, c.total_cost, c.reason, c.date,
		COALESCE(c.created_by::text, ''), c.created_at, c.updated_at
	FROM internal_consumptions c
	JOIN products p ON p.id = c.product_id`

func scanConsumption(row interface{ Scan(...any) error }) (*entity.InternalConsumption, error) {
	var c entity.InternalConsumption
	err := row.Scan(&c.ID, &c.TenantID, &c.ProductID, &c.ProductName, &c.Quantity, &c.UnitCost, &c.TotalCost,
		&c.Reason, &c.Date, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *ConsumptionRepo) Create(ctx context.Context, c *entity.InternalConsumption) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO internal_consumptions (id, tenant_id, product_id, quantity, unit_cost, total_cost, reason, date,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11)`,
		c.ID, c.TenantID, c.ProductID, c.Quantity, c.UnitCost, c.TotalCost, c.Reason, dateOnly(c.Date),
		c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert internal consumption: %w", err)
	}
	return nil
}

func (r *ConsumptionRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.InternalConsumption, error) {
	return r.getOne(ctx, consumptionSelect+` WHERE c.tenant_id = $1 AND c.id = $2`, tenantID, id)
}

// GetForUpdate bloquea solo la fila del consumo (FOR UPDATE OF c); el producto se bloquea aparte.
func (r *ConsumptionRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InternalConsumption, error) {
	return r.getOne(ctx, consumptionSelect+` WHERE c.tenant_id = $1 AND c.id = $2 FOR UPDATE OF c`, tenantID, id)
}

func (r *ConsumptionRepo) getOne(ctx context.Context, query string, args ...any) (*entity.InternalConsumption, error) {
	c, err := scanConsumption(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get internal consumption: %w", err)
	}
	return c, nil
}

func (r *ConsumptionRepo) Update(ctx context.Context, c *entity.InternalConsumption) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE internal_consumptions SET product_id = $3, quantity = $4, unit_cost = $5, total_cost = $6,
			reason = $7, date = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`,
		c.TenantID, c.ID, c.ProductID, c.Quantity, c.UnitCost, c.TotalCost, c.Reason, dateOnly(c.Date), c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update internal consumption: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ConsumptionRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM internal_consumptions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete internal consumption: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ConsumptionRepo) List(ctx context.Context, tenantID string, f repository.ConsumptionFilter) ([]*entity.InternalConsumption, error) {
	query := consumptionSelect + `
		WHERE c.tenant_id = $1
		  AND ($2 = '' OR c.product_id::text = $2)
		  AND ($3::date IS NULL OR c.date >= $3::date)
		  AND ($4::date IS NULL OR c.date <= $4::date)
		ORDER BY c.date DESC, c.created_at DESC LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, tenantID, f.ProductID, f.From, f.To, limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list internal consumptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InternalConsumption
	for rows.Next() {
		c, err := scanConsumption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan internal consumption: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
