package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest alta/edición de categoría.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CategoryResponse salida de categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SupplierRequest alta/edición de proveedor. Code vacío se deriva del nombre.
type SupplierRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	TaxID       string `json:"tax_id"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

// SupplierResponse salida de proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	TaxID       string    `json:"tax_id"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateProductRequest alta de producto. El stock inicia en 0.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	SupplierID  string          `json:"supplier_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// UpdateProductRequest edición parcial de producto (sin stock).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id"`
	SupplierID  *string          `json:"supplier_id"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Active      *bool            `json:"active"`
}

// ProductListRequest filtros del listado de productos.
type ProductListRequest struct {
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
	SupplierID string `query:"supplier_id"`
	LowStock   bool   `query:"low_stock"`
	PageRequest
}

// ProductResponse salida de producto con margen derivado.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  *string         `json:"category_id"`
	SupplierID  *string         `json:"supplier_id"`
	CostPrice   decimal.Decimal `json:"cost_price"`
	SalePrice   decimal.Decimal `json:"sale_price"`
	Margin      decimal.Decimal `json:"margin"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	IsPack      bool            `json:"is_pack"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SeedResponse resultado de la carga de datos por defecto.
type SeedResponse struct {
	CategoriesCreated int `json:"categories_created"`
	SuppliersCreated  int `json:"suppliers_created"`
	Skipped           int `json:"skipped"`
}
