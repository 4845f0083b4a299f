package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/textutil"
)

// SupplierUseCase CRUD de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra un proveedor. Si no se indica código se deriva del nombre
// y, si ya existe, se le agrega un sufijo numérico.
func (uc *SupplierUseCase) Create(ctx context.Context, tenantID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByName(ctx, tenantID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	code, err := uc.resolveCode(ctx, tenantID, in.Code, name, "")
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Supplier{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		Code:        code,
		Name:        name,
		TaxID:       strings.TrimSpace(in.TaxID),
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return ToSupplierResponse(s), nil
}

// resolveCode normaliza el código explícito o genera uno libre a partir del nombre.
func (uc *SupplierUseCase) resolveCode(ctx context.Context, tenantID, code, name, selfID string) (string, error) {
	explicit := code != ""
	if explicit {
		code = textutil.Code(code)
	} else {
		code = textutil.Code(name)
	}
	if code == "" {
		return "", fmt.Errorf("%w: no se pudo derivar un código para %q", domain.ErrInvalidInput, name)
	}
	base := code
	for n := 2; ; n++ {
		other, err := uc.repo.GetByCode(ctx, tenantID, code)
		if err != nil {
			return "", err
		}
		if other == nil || other.ID == selfID {
			return code, nil
		}
		if explicit {
			return "", fmt.Errorf("%w: código %s en uso", domain.ErrDuplicate, code)
		}
		suffix := fmt.Sprintf("%d", n)
		if len(base)+len(suffix) > textutil.MaxCodeLength {
			base = base[:textutil.MaxCodeLength-len(suffix)]
		}
		code = base + suffix
	}
}

func (uc *SupplierUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return ToSupplierResponse(s), nil
}

func (uc *SupplierUseCase) List(ctx context.Context, tenantID, search string, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, tenantID, strings.TrimSpace(search), repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *ToSupplierResponse(s))
	}
	return out, nil
}

// Update edita el proveedor. Cambiar el código no renumera las órdenes ya emitidas.
func (uc *SupplierUseCase) Update(ctx context.Context, tenantID, id string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if in.Code != "" {
		code, err := uc.resolveCode(ctx, tenantID, in.Code, name, s.ID)
		if err != nil {
			return nil, err
		}
		s.Code = code
	}
	s.Name = name
	s.TaxID = strings.TrimSpace(in.TaxID)
	s.ContactName = strings.TrimSpace(in.ContactName)
	s.Email = strings.TrimSpace(in.Email)
	s.Phone = strings.TrimSpace(in.Phone)
	s.Address = strings.TrimSpace(in.Address)
	s.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return ToSupplierResponse(s), nil
}

// Delete devuelve ErrConflict si el proveedor tiene facturas u órdenes.
func (uc *SupplierUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

// ToSupplierResponse mapea la entidad a su DTO.
func ToSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		TaxID:       s.TaxID,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		CreatedAt:   s.CreatedAt,
	}
}
