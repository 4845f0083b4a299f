package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de cotización.
const (
	QuotationDraft    = "draft"
	QuotationSent     = "sent"
	QuotationAccepted = "accepted"
	QuotationRejected = "rejected"
	QuotationExpired  = "expired"
)

var quotationTransitions = map[string][]string{
	QuotationDraft: {QuotationSent, QuotationRejected, QuotationExpired},
	QuotationSent:  {QuotationAccepted, QuotationRejected, QuotationExpired},
}

// CanTransitionQuotation valida el cambio de estado de una cotización.
func CanTransitionQuotation(from, to string) bool {
	return contains(quotationTransitions[from], to)
}

// QuotationNumber número visible de la cotización.
func QuotationNumber(n int) string {
	return fmt.Sprintf("COT-%d", n)
}

// Quotation cotización a cliente. No afecta stock.
type Quotation struct {
	ID           string
	TenantID     string
	Sequence     int
	Number       string
	CustomerID   *string
	CustomerName string
	Status       string
	ValidUntil   time.Time
	NetTotal     decimal.Decimal
	TaxRate      decimal.Decimal
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// QuotationItem línea cotizada.
type QuotationItem struct {
	ID              string
	QuotationID     string
	ProductID       string
	ProductName     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	Subtotal        decimal.Decimal
}
