package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-erp/internal/application/auth"
	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// TenantUseCase alta y consulta de tenants (tiendas).
type TenantUseCase struct {
	repo     repository.TenantRepository
	userRepo repository.UserRepository
	auth     *auth.AuthUseCase
}

// NewTenantUseCase construye el caso de uso.
func NewTenantUseCase(repo repository.TenantRepository, userRepo repository.UserRepository, authUC *auth.AuthUseCase) *TenantUseCase {
	return &TenantUseCase{repo: repo, userRepo: userRepo, auth: authUC}
}

// Create crea el tenant con todos los módulos activos y su usuario administrador.
// El email del admin se valida antes de escribir para no dejar tenants huérfanos.
func (uc *TenantUseCase) Create(ctx context.Context, in dto.CreateTenantRequest) (*dto.CreateTenantResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.AdminEmail) == "" || in.AdminPassword == "" {
		return nil, fmt.Errorf("%w: email y password del administrador requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(in.AdminEmail))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := time.Now()
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      name,
		TaxID:     strings.TrimSpace(in.TaxID),
		Email:     strings.TrimSpace(in.Email),
		Phone:     in.Phone,
		Address:   in.Address,
		Status:    entity.TenantActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, tenant); err != nil {
		return nil, err
	}
	if err := uc.repo.ActivateModules(ctx, tenant.ID, entity.AllModules); err != nil {
		return nil, fmt.Errorf("tenant: activar módulos: %w", err)
	}
	admin, err := uc.auth.RegisterUser(ctx, dto.RegisterRequest{
		TenantID: tenant.ID,
		Email:    in.AdminEmail,
		Password: in.AdminPassword,
		Name:     in.AdminName,
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}
	resp := toTenantResponse(tenant)
	resp.Modules = append([]string(nil), entity.AllModules...)
	return &dto.CreateTenantResponse{Tenant: *resp, Admin: *admin}, nil
}

// GetByID obtiene un tenant con sus módulos activos.
func (uc *TenantUseCase) GetByID(ctx context.Context, id string) (*dto.TenantResponse, error) {
	tenant, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	resp := toTenantResponse(tenant)
	for _, m := range entity.AllModules {
		ok, err := uc.repo.HasActiveModule(ctx, tenant.ID, m)
		if err != nil {
			return nil, err
		}
		if ok {
			resp.Modules = append(resp.Modules, m)
		}
	}
	return resp, nil
}

// List lista tenants con paginación.
func (uc *TenantUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.TenantListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TenantResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toTenantResponse(t))
	}
	return &dto.TenantListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toTenantResponse(t *entity.Tenant) *dto.TenantResponse {
	return &dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		TaxID:     t.TaxID,
		Email:     t.Email,
		Phone:     t.Phone,
		Address:   t.Address,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}
