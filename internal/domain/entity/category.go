package entity

import "time"

// Category agrupa productos del catálogo. Nombre único por tenant.
type Category struct {
	ID          string
	TenantID    string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
