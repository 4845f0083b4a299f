package ports

import (
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// PurchaseOrderDocument datos necesarios para imprimir una orden de compra.
type PurchaseOrderDocument struct {
	Tenant   *entity.Tenant
	Supplier *entity.Supplier
	Order    *entity.PurchaseOrder
	Items    []*entity.PurchaseOrderItem
}

// PurchaseOrderRenderer genera el PDF de una orden de compra.
type PurchaseOrderRenderer interface {
	RenderPurchaseOrder(doc PurchaseOrderDocument) ([]byte, error)
}

// ProductExporter genera la planilla (XLSX) del catálogo con stock y valorización.
type ProductExporter interface {
	ExportProducts(tenantName string, products []*entity.Product) ([]byte, error)
}
