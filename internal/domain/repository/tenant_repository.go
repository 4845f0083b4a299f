package repository

import (
	"context"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// TenantRepository puerto de persistencia de tenants y sus módulos.
type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	List(ctx context.Context, page Page) ([]*entity.Tenant, error)
	ActivateModules(ctx context.Context, tenantID string, modules []string) error
	HasActiveModule(ctx context.Context, tenantID, module string) (bool, error)
}

// UserRepository puerto de persistencia de usuarios. El email es único global.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.User, error)
}
