package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// EmployeeRepository puerto de persistencia de empleados.
type EmployeeRepository interface {
	Create(ctx context.Context, e *entity.Employee) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Employee, error)
	GetByDocument(ctx context.Context, tenantID, documentID string) (*entity.Employee, error)
	List(ctx context.Context, tenantID string, onlyActive bool) ([]*entity.Employee, error)
	Update(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ShiftRepository puerto de persistencia de turnos.
type ShiftRepository interface {
	Create(ctx context.Context, s *entity.Shift) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Shift, error)
	List(ctx context.Context, tenantID string) ([]*entity.Shift, error)
	Update(ctx context.Context, s *entity.Shift) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ScheduleRepository puerto de persistencia de la planificación de turnos.
type ScheduleRepository interface {
	Create(ctx context.Context, s *entity.Schedule) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Schedule, error)
	GetByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time) (*entity.Schedule, error)
	List(ctx context.Context, tenantID string, f ScheduleFilter) ([]*entity.Schedule, error)
	Delete(ctx context.Context, tenantID, id string) error
}
