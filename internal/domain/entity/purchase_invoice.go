package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseInvoice factura de proveedor registrada al recibir mercadería.
// Al registrarla suma stock y sobrescribe costo/precio de venta de cada producto.
type PurchaseInvoice struct {
	ID            string
	TenantID      string
	SupplierID    string
	InvoiceNumber string // único por proveedor
	InvoiceDate   time.Time
	NetTotal      decimal.Decimal
	TaxRate       decimal.Decimal // porcentaje
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}

// PurchaseInvoiceItem fila de auditoría por línea: costo anterior, costo nuevo y margen resultante.
type PurchaseInvoiceItem struct {
	ID             string
	InvoiceID      string
	ProductID      string
	ProductName    string
	Quantity       decimal.Decimal
	PreviousCost   decimal.Decimal
	NewCost        decimal.Decimal
	SalePrice      decimal.Decimal
	Margin         decimal.Decimal // (sale - cost) / sale * 100
	Subtotal       decimal.Decimal
	ProductCreated bool
}
