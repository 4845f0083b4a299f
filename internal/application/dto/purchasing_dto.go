package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseInvoiceItemInput línea de factura de compra.
// Referencia un producto existente (ProductID) o un SKU; si el SKU no existe se crea el producto con Name.
type PurchaseInvoiceItemInput struct {
	ProductID  string          `json:"product_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	CategoryID string          `json:"category_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	SalePrice  decimal.Decimal `json:"sale_price"` // 0 = conservar precio actual
}

// RegisterPurchaseInvoiceRequest body para POST /api/purchase-invoices.
type RegisterPurchaseInvoiceRequest struct {
	SupplierID    string                     `json:"supplier_id"`
	InvoiceNumber string                     `json:"invoice_number"`
	InvoiceDate   string                     `json:"invoice_date"` // YYYY-MM-DD, vacío = hoy
	Notes         string                     `json:"notes"`
	Items         []PurchaseInvoiceItemInput `json:"items"`
}

// PurchaseInvoiceItemResponse línea auditada.
type PurchaseInvoiceItemResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	PreviousCost   decimal.Decimal `json:"previous_cost"`
	NewCost        decimal.Decimal `json:"new_cost"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	Margin         decimal.Decimal `json:"margin"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ProductCreated bool            `json:"product_created"`
}

// PurchaseInvoiceResponse factura de compra con sus líneas.
type PurchaseInvoiceResponse struct {
	ID            string                        `json:"id"`
	SupplierID    string                        `json:"supplier_id"`
	InvoiceNumber string                        `json:"invoice_number"`
	InvoiceDate   string                        `json:"invoice_date"`
	NetTotal      decimal.Decimal               `json:"net_total"`
	TaxRate       decimal.Decimal               `json:"tax_rate"`
	TaxTotal      decimal.Decimal               `json:"tax_total"`
	GrandTotal    decimal.Decimal               `json:"grand_total"`
	Notes         string                        `json:"notes"`
	CreatedAt     time.Time                     `json:"created_at"`
	Items         []PurchaseInvoiceItemResponse `json:"items,omitempty"`
}

// PurchaseInvoiceListRequest filtros del listado.
type PurchaseInvoiceListRequest struct {
	SupplierID string `query:"supplier_id"`
	From       string `query:"from"`
	To         string `query:"to"`
	PageRequest
}

// PurchaseOrderItemInput línea de orden de compra.
type PurchaseOrderItemInput struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// RegisterPurchaseOrderRequest body para POST /api/purchase-orders.
type RegisterPurchaseOrderRequest struct {
	SupplierID   string                   `json:"supplier_id"`
	ExpectedDate string                   `json:"expected_date"`
	Notes        string                   `json:"notes"`
	Items        []PurchaseOrderItemInput `json:"items"`
}

// PurchaseOrderItemResponse línea de OC.
type PurchaseOrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	Number       string                      `json:"number"`
	SupplierID   string                      `json:"supplier_id"`
	SupplierName string                      `json:"supplier_name,omitempty"`
	Status       string                      `json:"status"`
	ExpectedDate string                      `json:"expected_date,omitempty"`
	Total        decimal.Decimal             `json:"total"`
	Notes        string                      `json:"notes"`
	CreatedAt    time.Time                   `json:"created_at"`
	Items        []PurchaseOrderItemResponse `json:"items,omitempty"`
}

// PurchaseOrderListRequest filtros del listado.
type PurchaseOrderListRequest struct {
	SupplierID string `query:"supplier_id"`
	Status     string `query:"status"`
	PageRequest
}
