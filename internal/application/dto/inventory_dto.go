package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OfferItemInput componente de un pack.
type OfferItemInput struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// OfferRequest alta/edición de oferta. SalePrice nil = precio con descuentos.
type OfferRequest struct {
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	SalePrice *decimal.Decimal `json:"sale_price"`
	Active    *bool            `json:"active"`
	Items     []OfferItemInput `json:"items"`
}

// OfferItemResponse componente con precios calculados.
type OfferItemResponse struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// OfferResponse oferta con sus componentes.
type OfferResponse struct {
	ID        string              `json:"id"`
	ProductID string              `json:"product_id"`
	SKU       string              `json:"sku"`
	Name      string              `json:"name"`
	PackCost  decimal.Decimal     `json:"pack_cost"`
	ListPrice decimal.Decimal     `json:"list_price"`
	SalePrice decimal.Decimal     `json:"sale_price"`
	Margin    decimal.Decimal     `json:"margin"`
	Active    bool                `json:"active"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Items     []OfferItemResponse `json:"items,omitempty"`
}

// ConsumptionRequest alta/edición de consumo interno.
type ConsumptionRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
	Date      string          `json:"date"` // YYYY-MM-DD, vacío = hoy
}

// ConsumptionResponse salida de consumo interno.
type ConsumptionResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Reason      string          `json:"reason"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ConsumptionListRequest filtros del listado.
type ConsumptionListRequest struct {
	ProductID string `query:"product_id"`
	From      string `query:"from"`
	To        string `query:"to"`
	PageRequest
}

// ReplenishmentSuggestionDTO producto bajo stock mínimo con la cantidad sugerida a pedir.
type ReplenishmentSuggestionDTO struct {
	Priority            int             `json:"priority"`
	ProductID           string          `json:"product_id"`
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	SupplierID          *string         `json:"supplier_id"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	MinStock            decimal.Decimal `json:"min_stock"`
	IdealStock          decimal.Decimal `json:"ideal_stock"`
	SuggestedOrderQty   decimal.Decimal `json:"suggested_order_qty"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days decimal.Decimal `json:"units_sold_last_90_days"`
}
