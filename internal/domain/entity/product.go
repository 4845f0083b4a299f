package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo de un tenant.
// Stock solo cambia vía facturas de compra, consumos internos y pedidos de venta.
type Product struct {
	ID          string
	TenantID    string
	SKU         string // código de barras o código interno, único por tenant
	Name        string
	Description string
	CategoryID  *string
	SupplierID  *string
	CostPrice   decimal.Decimal
	SalePrice   decimal.Decimal
	Stock       decimal.Decimal
	MinStock    decimal.Decimal
	IsPack      bool // producto sintético de una oferta
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LowStock indica si el stock está en o bajo el mínimo. Los packs no tienen stock propio.
func (p *Product) LowStock() bool {
	return !p.IsPack && p.Stock.LessThanOrEqual(p.MinStock)
}
