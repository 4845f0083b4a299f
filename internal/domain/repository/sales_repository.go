package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// CustomerRepository puerto de persistencia de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, c *entity.Customer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Customer, error)
	List(ctx context.Context, tenantID, search string, page Page) ([]*entity.Customer, error)
	Update(ctx context.Context, c *entity.Customer) error
	Delete(ctx context.Context, tenantID, id string) error
}

// QuotationRepository puerto de persistencia de cotizaciones.
type QuotationRepository interface {
	LastSequence(ctx context.Context, tenantID string) (int, error)
	Create(ctx context.Context, q *entity.Quotation) error
	CreateItem(ctx context.Context, item *entity.QuotationItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Quotation, error)
	ListItems(ctx context.Context, quotationID string) ([]*entity.QuotationItem, error)
	List(ctx context.Context, tenantID string, f QuotationFilter) ([]*entity.Quotation, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string, at time.Time) error
}

// OrderRepository puerto de persistencia de pedidos de venta.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	CreateItem(ctx context.Context, item *entity.OrderItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Order, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.OrderItem, error)
	List(ctx context.Context, tenantID string, f OrderFilter) ([]*entity.Order, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string, at time.Time) error
}

// SalesSummary agregado de ventas válidas (excluye pedidos cancelados) de un período.
type SalesSummary struct {
	Revenue decimal.Decimal
	Cost    decimal.Decimal
	Orders  int
}

// TopProduct producto más vendido de un período.
type TopProduct struct {
	ProductID    string
	ProductName  string
	QuantitySold decimal.Decimal
	Revenue      decimal.Decimal
	Cost         decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard de ventas.
type AnalyticsRepository interface {
	SalesSummary(ctx context.Context, tenantID string, from, to time.Time) (SalesSummary, error)
	TopProducts(ctx context.Context, tenantID string, from, to time.Time, limit int) ([]TopProduct, error)
}
