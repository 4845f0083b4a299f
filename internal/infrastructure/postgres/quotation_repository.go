package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo cotizaciones.
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `id, tenant_id, sequence, number, customer_id::text, customer_name, status, valid_until,
	net_total, tax_rate, tax_total, grand_total, notes, COALESCE(created_by::text, ''), created_at, updated_at`

func scanQuotation(row interface{ Scan(...any) error }) (*entity.Quotation, error) {
	var q entity.Quotation
	err := row.Scan(&q.ID, &q.TenantID, &q.Sequence, &q.Number, &q.CustomerID, &q.CustomerName, &q.Status, &q.ValidUntil,
		&q.NetTotal, &q.TaxRate, &q.TaxTotal, &q.GrandTotal, &q.Notes, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	return &q, err
}

// LastSequence último correlativo del tenant. Se bloquea la fila del tenant para serializar la numeración.
func (r *QuotationRepo) LastSequence(ctx context.Context, tenantID string) (int, error) {
	if _, err := r.q.Exec(ctx, `SELECT 1 FROM tenants WHERE id = $1 FOR UPDATE`, tenantID); err != nil {
		return 0, fmt.Errorf("lock tenant: %w", err)
	}
	var n int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(sequence), 0) FROM quotations WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("last quotation sequence: %w", err)
	}
	return n, nil
}

func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quotations (id, tenant_id, sequence, number, customer_id, customer_name, status, valid_until,
			net_total, tax_rate, tax_total, grand_total, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, '')::uuid, $15, $16)`,
		q.ID, q.TenantID, q.Sequence, q.Number, q.CustomerID, q.CustomerName, q.Status, dateOnly(q.ValidUntil),
		q.NetTotal, q.TaxRate, q.TaxTotal, q.GrandTotal, q.Notes, q.CreatedBy, q.CreatedAt, q.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return nil
}

func (r *QuotationRepo) CreateItem(ctx context.Context, it *entity.QuotationItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO quotation_items (id, quotation_id, product_id, quantity, unit_price, discount_percent, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		it.ID, it.QuotationID, it.ProductID, it.Quantity, it.UnitPrice, it.DiscountPercent, it.Subtotal)
	if err != nil {
		return fmt.Errorf("insert quotation item: %w", err)
	}
	return nil
}

func (r *QuotationRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Quotation, error) {
	q, err := scanQuotation(r.q.QueryRow(ctx, `SELECT `+quotationColumns+` FROM quotations WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return q, nil
}

func (r *QuotationRepo) ListItems(ctx context.Context, quotationID string) ([]*entity.QuotationItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.id, i.quotation_id, i.product_id, p.name, i.quantity, i.unit_price, i.discount_percent, i.subtotal
		FROM quotation_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.quotation_id = $1
		ORDER BY p.name`, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quotation items: %w", err)
	}
	defer rows.Close()
	var list []*entity.QuotationItem
	for rows.Next() {
		var it entity.QuotationItem
		if err := rows.Scan(&it.ID, &it.QuotationID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice,
			&it.DiscountPercent, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quotation item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

func (r *QuotationRepo) List(ctx context.Context, tenantID string, f repository.QuotationFilter) ([]*entity.Quotation, error) {
	rows, err := r.q.Query(ctx, `SELECT `+quotationColumns+` FROM quotations
		WHERE tenant_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY sequence DESC LIMIT $3 OFFSET $4`, tenantID, f.Status, limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

func (r *QuotationRepo) UpdateStatus(ctx context.Context, tenantID, id, status string, at time.Time) error {
	cmd, err := r.q.Exec(ctx, `UPDATE quotations SET status = $3, updated_at = $4 WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, status, at)
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
