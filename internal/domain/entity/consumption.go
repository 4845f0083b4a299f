package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InternalConsumption consumo interno (merma/uso propio): baja de stock no asociada a una venta.
type InternalConsumption struct {
	ID          string
	TenantID    string
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	Reason      string
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
