package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer pack/oferta: producto sintético que agrupa productos existentes a precio combinado.
type Offer struct {
	ID        string
	TenantID  string
	ProductID string // producto pack (IsPack=true)
	Name      string
	PackCost  decimal.Decimal
	ListPrice decimal.Decimal // suma de precios de venta sin descuento
	SalePrice decimal.Decimal
	Margin    decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OfferProduct componente de un pack con su descuento porcentual.
type OfferProduct struct {
	ID              string
	OfferID         string
	ProductID       string
	ProductName     string
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal // precio con descuento * cantidad
}
