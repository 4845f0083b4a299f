package repository

import "context"

// TxRepositories repositorios atados a una misma transacción de BD.
type TxRepositories struct {
	Products         ProductRepository
	Suppliers        SupplierRepository
	PurchaseInvoices PurchaseInvoiceRepository
	PurchaseOrders   PurchaseOrderRepository
	Offers           OfferRepository
	Consumptions     ConsumptionRepository
	Quotations       QuotationRepository
	Orders           OrderRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepositories) error) error
}
