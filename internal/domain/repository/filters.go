package repository

import "time"

// Page paginación común de los listados.
type Page struct {
	Limit  int
	Offset int
}

// ProductFilter filtros para el listado de productos.
type ProductFilter struct {
	Search     string // coincide con nombre o SKU (ILIKE)
	CategoryID string
	SupplierID string
	LowStock   bool // stock <= min_stock
	OnlyPacks  bool
	Page
}

// PurchaseInvoiceFilter filtros de facturas de compra.
type PurchaseInvoiceFilter struct {
	SupplierID string
	From, To   *time.Time
	Page
}

// PurchaseOrderFilter filtros de órdenes de compra.
type PurchaseOrderFilter struct {
	SupplierID string
	Status     string
	Page
}

// ConsumptionFilter filtros de consumos internos.
type ConsumptionFilter struct {
	ProductID string
	From, To  *time.Time
	Page
}

// QuotationFilter filtros de cotizaciones.
type QuotationFilter struct {
	Status string
	Page
}

// OrderFilter filtros de pedidos de venta.
type OrderFilter struct {
	Status     string
	CustomerID string
	From, To   *time.Time
	Page
}

// ScheduleFilter rango (inclusive) de fechas de la planificación.
type ScheduleFilter struct {
	EmployeeID string
	From, To   time.Time
}
