package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest alta/edición de cliente.
type CustomerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CustomerResponse salida de cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// QuotationItemInput línea a cotizar. UnitPrice 0 = precio de venta del producto.
type QuotationItemInput struct {
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// CreateQuotationRequest body para POST /api/quotations.
type CreateQuotationRequest struct {
	CustomerID   string               `json:"customer_id"`
	CustomerName string               `json:"customer_name"`
	ValidDays    int                  `json:"valid_days"`
	Notes        string               `json:"notes"`
	Items        []QuotationItemInput `json:"items"`
}

// QuotationItemResponse línea cotizada.
type QuotationItemResponse struct {
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// QuotationResponse cotización con sus líneas.
type QuotationResponse struct {
	ID           string                  `json:"id"`
	Number       string                  `json:"number"`
	CustomerID   *string                 `json:"customer_id"`
	CustomerName string                  `json:"customer_name"`
	Status       string                  `json:"status"`
	ValidUntil   string                  `json:"valid_until"`
	NetTotal     decimal.Decimal         `json:"net_total"`
	TaxRate      decimal.Decimal         `json:"tax_rate"`
	TaxTotal     decimal.Decimal         `json:"tax_total"`
	GrandTotal   decimal.Decimal         `json:"grand_total"`
	Notes        string                  `json:"notes"`
	CreatedAt    time.Time               `json:"created_at"`
	Items        []QuotationItemResponse `json:"items,omitempty"`
}

// OrderItemInput línea de pedido. UnitPrice 0 = precio de venta del producto.
type OrderItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	Notes        string           `json:"notes"`
	Items        []OrderItemInput `json:"items"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   *string             `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Status       string              `json:"status"`
	Total        decimal.Decimal     `json:"total"`
	Margin       decimal.Decimal     `json:"margin"`
	Notes        string              `json:"notes"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Items        []OrderItemResponse `json:"items,omitempty"`
}

// OrderListRequest filtros del listado de pedidos.
type OrderListRequest struct {
	Status     string `query:"status"`
	CustomerID string `query:"customer_id"`
	From       string `query:"from"`
	To         string `query:"to"`
	PageRequest
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayMargin   decimal.Decimal `json:"today_margin"`
	TodayOrders   int             `json:"today_orders"`
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyMargin decimal.Decimal `json:"monthly_margin"`
	MonthlyOrders int             `json:"monthly_orders"`
	AverageTicket decimal.Decimal `json:"average_ticket"` // ventas del mes / pedidos del mes

	TopProducts  []TopProductDTO   `json:"top_products"`
	RecentOrders []OrderResponse   `json:"recent_orders"`
	LowStock     []ProductResponse `json:"low_stock"`

	GeneratedAt time.Time `json:"generated_at"`
}

// TopProductDTO producto destacado del mes.
type TopProductDTO struct {
	ProductID        string          `json:"product_id"`
	ProductName      string          `json:"product_name"`
	QuantitySold     decimal.Decimal `json:"quantity_sold"`
	Revenue          decimal.Decimal `json:"revenue"`
	MarginPercentage decimal.Decimal `json:"margin_percentage"`
}

// QuotationListRequest filtros del listado de cotizaciones.
type QuotationListRequest struct {
	Status string `query:"status"`
	PageRequest
}

// MarginsReportRequest período del reporte de márgenes (YYYY-MM-DD). Vacío = mes en curso.
type MarginsReportRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
	TopN int    `query:"top_n"`
}

// ProductRankingDTO producto en el ranking de ingresos con su análisis Pareto.
type ProductRankingDTO struct {
	Rank                 int             `json:"rank"`
	ProductID            string          `json:"product_id"`
	ProductName          string          `json:"product_name"`
	QuantitySold         decimal.Decimal `json:"quantity_sold"`
	Revenue              decimal.Decimal `json:"revenue"`
	Cost                 decimal.Decimal `json:"cost"`
	GrossProfit          decimal.Decimal `json:"gross_profit"`
	MarginPct            decimal.Decimal `json:"margin_pct"`
	RevenuePct           decimal.Decimal `json:"revenue_pct"`
	CumulativeRevenuePct decimal.Decimal `json:"cumulative_revenue_pct"`
	IsTopPareto          bool            `json:"is_top_pareto"`
}

// MarginsReportDTO respuesta de GET /api/reports/margins.
type MarginsReportDTO struct {
	From             string              `json:"from"`
	To               string              `json:"to"`
	TotalRevenue     decimal.Decimal     `json:"total_revenue"`
	TotalCost        decimal.Decimal     `json:"total_cost"`
	TotalMargin      decimal.Decimal     `json:"total_margin"`
	OverallMarginPct decimal.Decimal     `json:"overall_margin_pct"`
	OrderCount       int                 `json:"order_count"`
	Ranking          []ProductRankingDTO `json:"ranking"`
	ParetoProducts   []ProductRankingDTO `json:"pareto_products"`
}
