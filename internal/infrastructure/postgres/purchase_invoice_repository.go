package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.PurchaseInvoiceRepository = (*PurchaseInvoiceRepo)(nil)

// PurchaseInvoiceRepo facturas de compra y sus líneas de auditoría.
type PurchaseInvoiceRepo struct {
	q Querier
}

// NewPurchaseInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseInvoiceRepository(q Querier) *PurchaseInvoiceRepo {
	return &PurchaseInvoiceRepo{q: q}
}

const purchaseInvoiceColumns = `id, tenant_id, supplier_id, invoice_number, invoice_date, net_total, tax_rate,
	tax_total, grand_total, notes, COALESCE(created_by::text, ''), created_at`

func scanPurchaseInvoice(row interface{ Scan(...any) error }) (*entity.PurchaseInvoice, error) {
	var inv entity.PurchaseInvoice
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.SupplierID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.NetTotal,
		&inv.TaxRate, &inv.TaxTotal, &inv.GrandTotal, &inv.Notes, &inv.CreatedBy, &inv.CreatedAt)
	return &inv, err
}

// Create inserta la cabecera. ErrDuplicate si el número ya existe para el proveedor.
func (r *PurchaseInvoiceRepo) Create(ctx context.Context, inv *entity.PurchaseInvoice) error {
	query := `
		INSERT INTO purchase_invoices (id, tenant_id, supplier_id, invoice_number, invoice_date, net_total, tax_rate,
			tax_total, grand_total, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, '')::uuid, $12)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.TenantID, inv.SupplierID, inv.InvoiceNumber, dateOnly(inv.InvoiceDate), inv.NetTotal, inv.TaxRate,
		inv.TaxTotal, inv.GrandTotal, inv.Notes, inv.CreatedBy, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase invoice: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de auditoría (costo anterior/nuevo y margen).
func (r *PurchaseInvoiceRepo) CreateItem(ctx context.Context, it *entity.PurchaseInvoiceItem) error {
	query := `
		INSERT INTO purchase_invoice_items (id, invoice_id, product_id, quantity, previous_cost, new_cost,
			sale_price, margin, subtotal, product_created)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, it.ProductID, it.Quantity, it.PreviousCost, it.NewCost,
		it.SalePrice, it.Margin, it.Subtotal, it.ProductCreated,
	)
	if err != nil {
		return fmt.Errorf("insert purchase invoice item: %w", err)
	}
	return nil
}

func (r *PurchaseInvoiceRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseInvoice, error) {
	return r.getOne(ctx, `SELECT `+purchaseInvoiceColumns+` FROM purchase_invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *PurchaseInvoiceRepo) GetByNumber(ctx context.Context, tenantID, supplierID, number string) (*entity.PurchaseInvoice, error) {
	return r.getOne(ctx, `SELECT `+purchaseInvoiceColumns+` FROM purchase_invoices
		WHERE tenant_id = $1 AND supplier_id = $2 AND invoice_number = $3`, tenantID, supplierID, number)
}

func (r *PurchaseInvoiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.PurchaseInvoice, error) {
	inv, err := scanPurchaseInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase invoice: %w", err)
	}
	return inv, nil
}

// ListItems devuelve las líneas con el nombre actual del producto.
func (r *PurchaseInvoiceRepo) ListItems(ctx context.Context, invoiceID string) ([]*entity.PurchaseInvoiceItem, error) {
	query := `
		SELECT i.id, i.invoice_id, i.product_id, p.name, i.quantity, i.previous_cost, i.new_cost,
			i.sale_price, i.margin, i.subtotal, i.product_created
		FROM purchase_invoice_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.invoice_id = $1
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoice items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseInvoiceItem
	for rows.Next() {
		var it entity.PurchaseInvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PreviousCost,
			&it.NewCost, &it.SalePrice, &it.Margin, &it.Subtotal, &it.ProductCreated); err != nil {
			return nil, fmt.Errorf("scan purchase invoice item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// List lista facturas del tenant (más recientes primero).
func (r *PurchaseInvoiceRepo) List(ctx context.Context, tenantID string, f repository.PurchaseInvoiceFilter) ([]*entity.PurchaseInvoice, error) {
	query := `SELECT ` + purchaseInvoiceColumns + ` FROM purchase_invoices
		WHERE tenant_id = $1
		  AND ($2 = '' OR supplier_id::text = $2)
		  AND ($3::date IS NULL OR invoice_date >= $3::date)
		  AND ($4::date IS NULL OR invoice_date <= $4::date)
		ORDER BY invoice_date DESC, created_at DESC LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, tenantID, f.SupplierID, f.From, f.To, limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseInvoice
	for rows.Next() {
		inv, err := scanPurchaseInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
