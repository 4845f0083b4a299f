// Package scheduling planificación del personal: empleados, turnos y asignaciones por día.
package scheduling

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
)

// EmployeeUseCase CRUD de empleados. El documento es único por tenant.
type EmployeeUseCase struct {
	repo repository.EmployeeRepository
}

// NewEmployeeUseCase construye el caso de uso.
func NewEmployeeUseCase(repo repository.EmployeeRepository) *EmployeeUseCase {
	return &EmployeeUseCase{repo: repo}
}

func (uc *EmployeeUseCase) Create(ctx context.Context, tenantID string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	name := strings.TrimSpace(in.Name)
	doc := strings.TrimSpace(in.DocumentID)
	if name == "" || doc == "" {
		return nil, fmt.Errorf("%w: nombre y documento requeridos", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByDocument(ctx, tenantID, doc)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: documento %s ya registrado", domain.ErrDuplicate, doc)
	}
	now := time.Now()
	e := &entity.Employee{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		Name:       name,
		DocumentID: doc,
		Position:   strings.TrimSpace(in.Position),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Active:     in.Active == nil || *in.Active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

func (uc *EmployeeUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

func (uc *EmployeeUseCase) List(ctx context.Context, tenantID string, onlyActive bool) ([]dto.EmployeeResponse, error) {
	list, err := uc.repo.List(ctx, tenantID, onlyActive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toEmployeeResponse(e))
	}
	return out, nil
}

// Update edición parcial: los campos vacíos conservan el valor actual.
func (uc *EmployeeUseCase) Update(ctx context.Context, tenantID, id string, in dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	e, err := uc.get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		e.Name = v
	}
	if v := strings.TrimSpace(in.DocumentID); v != "" && v != e.DocumentID {
		other, err := uc.repo.GetByDocument(ctx, tenantID, v)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, fmt.Errorf("%w: documento %s ya registrado", domain.ErrDuplicate, v)
		}
		e.DocumentID = v
	}
	if in.Position != "" {
		e.Position = strings.TrimSpace(in.Position)
	}
	if in.Email != "" {
		e.Email = strings.TrimSpace(in.Email)
	}
	if in.Phone != "" {
		e.Phone = strings.TrimSpace(in.Phone)
	}
	if in.Active != nil {
		e.Active = *in.Active
	}
	e.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return toEmployeeResponse(e), nil
}

// Delete elimina el empleado junto con su planificación.
func (uc *EmployeeUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

func (uc *EmployeeUseCase) get(ctx context.Context, tenantID, id string) (*entity.Employee, error) {
	e, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func toEmployeeResponse(e *entity.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		DocumentID: e.DocumentID,
		Position:   e.Position,
		Email:      e.Email,
		Phone:      e.Phone,
		Active:     e.Active,
		CreatedAt:  e.CreatedAt,
	}
}
