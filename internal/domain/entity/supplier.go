package entity

import "time"

// Supplier proveedor de mercadería. Code es único por tenant y forma parte
// del número de las órdenes de compra (OC-{Code}-{n}).
type Supplier struct {
	ID          string
	TenantID    string
	Code        string
	Name        string
	TaxID       string
	ContactName string
	Email       string
	Phone       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
