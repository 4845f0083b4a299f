package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// PurchaseInvoiceRepository puerto de persistencia de facturas de compra.
type PurchaseInvoiceRepository interface {
	Create(ctx context.Context, inv *entity.PurchaseInvoice) error
	CreateItem(ctx context.Context, item *entity.PurchaseInvoiceItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseInvoice, error)
	GetByNumber(ctx context.Context, tenantID, supplierID, number string) (*entity.PurchaseInvoice, error)
	ListItems(ctx context.Context, invoiceID string) ([]*entity.PurchaseInvoiceItem, error)
	List(ctx context.Context, tenantID string, f PurchaseInvoiceFilter) ([]*entity.PurchaseInvoice, error)
}

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	// LastCorrelative último correlativo del proveedor (0 si no hay órdenes).
	LastCorrelative(ctx context.Context, tenantID, supplierID string) (int, error)
	Create(ctx context.Context, o *entity.PurchaseOrder) error
	CreateItem(ctx context.Context, item *entity.PurchaseOrderItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error)
	ListItems(ctx context.Context, orderID string) ([]*entity.PurchaseOrderItem, error)
	List(ctx context.Context, tenantID string, f PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string, at time.Time) error
}
