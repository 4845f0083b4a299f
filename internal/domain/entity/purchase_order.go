package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden de compra.
const (
	PurchaseOrderPending   = "pending"
	PurchaseOrderApproved  = "approved"
	PurchaseOrderReceived  = "received"
	PurchaseOrderCancelled = "cancelled"
)

var purchaseOrderTransitions = map[string][]string{
	PurchaseOrderPending:  {PurchaseOrderApproved, PurchaseOrderCancelled},
	PurchaseOrderApproved: {PurchaseOrderReceived, PurchaseOrderCancelled},
}

// CanTransitionPurchaseOrder valida el cambio de estado de una orden de compra.
func CanTransitionPurchaseOrder(from, to string) bool {
	return contains(purchaseOrderTransitions[from], to)
}

// PurchaseOrder compromiso de compra previo a la recepción. No afecta stock.
type PurchaseOrder struct {
	ID           string
	TenantID     string
	SupplierID   string
	Correlative  int
	Number       string // OC-{supplier}-{correlative}
	Status       string
	ExpectedDate *time.Time
	Total        decimal.Decimal
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PurchaseOrderNumber arma el número visible de la orden.
func PurchaseOrderNumber(supplierCode string, correlative int) string {
	return fmt.Sprintf("OC-%s-%d", supplierCode, correlative)
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
