package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente de ventas.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Estados de pedido de venta.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

var orderTransitions = map[string][]string{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered},
}

// CanTransitionOrder valida el cambio de estado de un pedido.
func CanTransitionOrder(from, to string) bool {
	return contains(orderTransitions[from], to)
}

// Order pedido de venta. Descuenta stock al crearse y lo repone al cancelarse.
type Order struct {
	ID           string
	TenantID     string
	CustomerID   *string
	CustomerName string
	Status       string
	Total        decimal.Decimal
	CostTotal    decimal.Decimal
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem línea de pedido; UnitCost congela el costo al momento de la venta.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
}
