package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

const purchaseOrderColumns = `id, tenant_id, supplier_id, correlative, number, status, expected_date, total, notes,
	COALESCE(created_by::text, ''), created_at, updated_at`

func scanPurchaseOrder(row interface{ Scan(...any) error }) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	err := row.Scan(&o.ID, &o.TenantID, &o.SupplierID, &o.Correlative, &o.Number, &o.Status, &o.ExpectedDate,
		&o.Total, &o.Notes, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

// LastCorrelative lee el último correlativo del proveedor. El caller debe tener bloqueado el proveedor.
func (r *PurchaseOrderRepo) LastCorrelative(ctx context.Context, tenantID, supplierID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT correlative FROM purchase_orders
		WHERE tenant_id = $1 AND supplier_id = $2
		ORDER BY correlative DESC LIMIT 1`, tenantID, supplierID).Scan(&n)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("last purchase order correlative: %w", err)
	}
	return n, nil
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, tenant_id, supplier_id, correlative, number, status, expected_date, total,
			notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.TenantID, o.SupplierID, o.Correlative, o.Number, o.Status, o.ExpectedDate, o.Total,
		o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) CreateItem(ctx context.Context, it *entity.PurchaseOrderItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_order_items (id, order_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitCost, it.Subtotal)
	if err != nil {
		return fmt.Errorf("insert purchase order item: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, query string, args ...any) (*entity.PurchaseOrder, error) {
	o, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return o, nil
}

func (r *PurchaseOrderRepo) ListItems(ctx context.Context, orderID string) ([]*entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.order_id, i.product_id, p.name, i.quantity, i.unit_cost, i.subtotal
		FROM purchase_order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY p.name`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderItem
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *PurchaseOrderRepo) List(ctx context.Context, tenantID string, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE tenant_id = $1
		  AND ($2 = '' OR supplier_id::text = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, tenantID, f.SupplierID, f.Status, limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *PurchaseOrderRepo) UpdateStatus(ctx context.Context, tenantID, id, status string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE purchase_orders SET status = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, status, at)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
