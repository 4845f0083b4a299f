package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos de venta.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, tenant_id, customer_id::text, customer_name, status, total, cost_total, notes,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.CustomerName, &o.Status, &o.Total, &o.CostTotal, &o.Notes,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, tenant_id, customer_id, customer_name, status, total, cost_total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10, $11)`,
		o.ID, o.TenantID, o.CustomerID, o.CustomerName, o.Status, o.Total, o.CostTotal, o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) CreateItem(ctx context.Context, it *entity.OrderItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.UnitCost, it.Subtotal)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.unit_price, i.unit_cost, i.subtotal
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY p.name`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice,
			&it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *OrderRepo) List(ctx context.Context, tenantID string, f repository.OrderFilter) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE tenant_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR customer_id::text = $3)
		  AND ($4::timestamptz IS NULL OR created_at >= $4::timestamptz)
		  AND ($5::timestamptz IS NULL OR created_at < $5::timestamptz)
		ORDER BY created_at DESC LIMIT $6 OFFSET $7`,
		tenantID, f.Status, f.CustomerID, f.From, f.To, limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, tenantID, id, status string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, status, at)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
