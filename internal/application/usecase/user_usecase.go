package usecase

import (
	"context"

	"github.com/jhoicas/tienda-erp/internal/application/auth"
	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// UserUseCase consultas de usuarios del tenant.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Me devuelve el usuario autenticado; un usuario de otro tenant se informa como no encontrado.
func (uc *UserUseCase) Me(ctx context.Context, tenantID, userID string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return auth.ToUserResponse(user), nil
}

// List usuarios del tenant.
func (uc *UserUseCase) List(ctx context.Context, tenantID string) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}
