package entity

import "time"

// Tenant representa una tienda/negocio aislado que comparte el esquema (scoping por tenant_id).
type Tenant struct {
	ID        string
	Name      string
	TaxID     string // RUT/NIT del negocio
	Email     string
	Phone     string
	Address   string
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Estados de tenant.
const (
	TenantActive    = "active"
	TenantSuspended = "suspended"
)

// Módulos contratables (deben coincidir con el CHECK de tenant_modules).
const (
	ModuleInventory  = "inventory"
	ModulePurchasing = "purchasing"
	ModuleSales      = "sales"
	ModuleScheduling = "scheduling"
)

// AllModules módulos activados al crear un tenant.
var AllModules = []string{ModuleInventory, ModulePurchasing, ModuleSales, ModuleScheduling}

// TenantModule activación de un módulo en un tenant.
type TenantModule struct {
	TenantID   string
	ModuleName string
	IsActive   bool
	ExpiresAt  *time.Time // nil = sin vencimiento
	CreatedAt  time.Time
}
