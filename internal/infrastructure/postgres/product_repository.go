package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, sku, name, description, category_id::text, supplier_id::text,
	cost_price, sale_price, stock, min_stock, is_pack, active, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.SKU, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.CostPrice, &p.SalePrice, &p.Stock, &p.MinStock, &p.IsPack, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

// Create persiste un nuevo producto. ErrDuplicate si el SKU ya existe en el tenant.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, sku, name, description, category_id, supplier_id,
			cost_price, sale_price, stock, min_stock, is_pack, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.SKU, p.Name, p.Description, p.CategoryID, p.SupplierID,
		p.CostPrice, p.SalePrice, p.Stock, p.MinStock, p.IsPack, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID dentro del tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

// GetBySKU obtiene un producto por SKU dentro del tenant.
func (r *ProductRepo) GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND sku = $2`, tenantID, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos del tenant con filtros y paginación.
func (r *ProductRepo) List(ctx context.Context, tenantID string, f repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE tenant_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR category_id::text = $3)
		  AND ($4 = '' OR supplier_id::text = $4)
		  AND (NOT $5 OR (stock <= min_stock AND NOT is_pack))
		  AND (NOT $6 OR is_pack)
		ORDER BY name LIMIT $7 OFFSET $8`
	rows, err := r.q.Query(ctx, query, tenantID, f.Search, f.CategoryID, f.SupplierID, f.LowStock, f.OnlyPacks,
		limitOrDefault(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza datos descriptivos y precio de venta. No modifica costo ni stock.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $3, description = $4, category_id = $5, supplier_id = $6,
			sale_price = $7, min_stock = $8, active = $9, updated_at = $10
		WHERE tenant_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.TenantID, p.ID, p.Name, p.Description, p.CategoryID, p.SupplierID,
		p.SalePrice, p.MinStock, p.Active, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePricing sobrescribe costo y precio de venta (registro de factura de compra, packs).
func (r *ProductRepo) UpdatePricing(ctx context.Context, tenantID, id string, cost, salePrice decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET cost_price = $3, sale_price = $4, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, cost, salePrice)
	if err != nil {
		return fmt.Errorf("update product pricing: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCost actualiza solo el costo registrado (orden de compra).
func (r *ProductRepo) UpdateCost(ctx context.Context, tenantID, id string, cost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET cost_price = $3, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, cost)
	if err != nil {
		return fmt.Errorf("update product cost: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddStock suma delta al stock en una sola sentencia; la condición impide dejarlo negativo.
func (r *ProductRepo) AddStock(ctx context.Context, tenantID, id string, delta decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE products SET stock = stock + $3, updated_at = now()
		WHERE tenant_id = $1 AND id = $2 AND stock + $3 >= 0`,
		tenantID, id, delta)
	if err != nil {
		return fmt.Errorf("add stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE tenant_id = $1 AND id = $2)`, tenantID, id).Scan(&exists); err != nil {
			return fmt.Errorf("add stock: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// Delete elimina un producto. ErrConflict si está referenciado por documentos.
func (r *ProductRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
