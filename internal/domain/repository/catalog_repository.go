package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// CategoryRepository puerto de persistencia de categorías.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Category, error)
	GetByName(ctx context.Context, tenantID, name string) (*entity.Category, error)
	List(ctx context.Context, tenantID string) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, tenantID, id string) error
}

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Supplier, error)
	// GetForUpdate bloquea la fila del proveedor (SELECT FOR UPDATE); serializa la numeración de OCs.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Supplier, error)
	GetByName(ctx context.Context, tenantID, name string) (*entity.Supplier, error)
	GetByCode(ctx context.Context, tenantID, code string) (*entity.Supplier, error)
	List(ctx context.Context, tenantID, search string, page Page) ([]*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ProductRepository puerto de persistencia de productos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, tenantID, sku string) (*entity.Product, error)
	List(ctx context.Context, tenantID string, f ProductFilter) ([]*entity.Product, error)
	// Update modifica datos descriptivos; no toca costo ni stock.
	Update(ctx context.Context, p *entity.Product) error
	UpdatePricing(ctx context.Context, tenantID, id string, cost, salePrice decimal.Decimal) error
	UpdateCost(ctx context.Context, tenantID, id string, cost decimal.Decimal) error
	// AddStock suma delta (puede ser negativo). ErrInsufficientStock si el stock quedaría negativo.
	AddStock(ctx context.Context, tenantID, id string, delta decimal.Decimal) error
	// Delete devuelve ErrConflict si el producto está referenciado por documentos.
	Delete(ctx context.Context, tenantID, id string) error
}
