package scheduling

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const maxRangeDays = 62

// ScheduleUseCase asigna turnos a empleados: una asignación por empleado y día.
type ScheduleUseCase struct {
	repo         repository.ScheduleRepository
	employeeRepo repository.EmployeeRepository
	shiftRepo    repository.ShiftRepository
	log          *logger.Logger
}

// NewScheduleUseCase construye el caso de uso.
func NewScheduleUseCase(
	repo repository.ScheduleRepository,
	employeeRepo repository.EmployeeRepository,
	shiftRepo repository.ShiftRepository,
	log *logger.Logger,
) *ScheduleUseCase {
	return &ScheduleUseCase{repo: repo, employeeRepo: employeeRepo, shiftRepo: shiftRepo, log: log.Component("schedule")}
}

// Assign programa al empleado en el turno para la fecha. Empleados inactivos no se programan.
func (uc *ScheduleUseCase) Assign(ctx context.Context, tenantID string, in dto.ScheduleRequest) (*dto.ScheduleResponse, error) {
	if in.EmployeeID == "" || in.ShiftID == "" || in.Date == "" {
		return nil, fmt.Errorf("%w: empleado, turno y fecha requeridos", domain.ErrInvalidInput)
	}
	date, err := dto.ParseDate(in.Date, time.Time{})
	if err != nil {
		return nil, err
	}
	emp, err := uc.employeeRepo.GetByID(ctx, tenantID, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: empleado %s no existe", domain.ErrInvalidInput, in.EmployeeID)
	}
	if !emp.Active {
		return nil, fmt.Errorf("%w: %s está inactivo", domain.ErrInvalidInput, emp.Name)
	}
	shift, err := uc.shiftRepo.GetByID(ctx, tenantID, in.ShiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, fmt.Errorf("%w: turno %s no existe", domain.ErrInvalidInput, in.ShiftID)
	}
	existing, err := uc.repo.GetByEmployeeAndDate(ctx, tenantID, emp.ID, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s ya tiene turno el %s", domain.ErrDuplicate, emp.Name, dto.FormatDate(date))
	}

	sc := &entity.Schedule{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		EmployeeID: emp.ID,
		ShiftID:    shift.ID,
		Date:       date,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  time.Now(),
	}
	// el índice único (employee_id, date) cubre la carrera entre la consulta y el insert
	if err := uc.repo.Create(ctx, sc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("employee_id", emp.ID).Str("date", dto.FormatDate(date)).Msg("turno asignado")
	return toScheduleResponse(sc, emp, shift), nil
}

// List planificación del rango [from, to] con horas por empleado y semana.
// Sin fechas devuelve la semana en curso (lunes a domingo).
func (uc *ScheduleUseCase) List(ctx context.Context, tenantID string, in dto.ScheduleListRequest) (*dto.ScheduleListResponse, error) {
	monday := weekStart(time.Now())
	from, err := dto.ParseDate(in.From, monday)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(in.To, from.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: el rango no puede superar %d días", domain.ErrInvalidInput, maxRangeDays)
	}

	list, err := uc.repo.List(ctx, tenantID, repository.ScheduleFilter{EmployeeID: in.EmployeeID, From: from, To: to})
	if err != nil {
		return nil, err
	}
	employees, err := uc.employeeRepo.List(ctx, tenantID, false)
	if err != nil {
		return nil, err
	}
	shifts, err := uc.shiftRepo.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	empByID := make(map[string]*entity.Employee, len(employees))
	for _, e := range employees {
		empByID[e.ID] = e
	}
	shiftByID := make(map[string]*entity.Shift, len(shifts))
	for _, s := range shifts {
		shiftByID[s.ID] = s
	}

	out := &dto.ScheduleListResponse{
		From:      dto.FormatDate(from),
		To:        dto.FormatDate(to),
		Schedules: make([]dto.ScheduleResponse, 0, len(list)),
		Totals:    []dto.EmployeeHoursDTO{},
	}
	type weekKey struct{ week, employeeID string }
	totals := map[weekKey]*dto.EmployeeHoursDTO{}
	for _, sc := range list {
		emp, shift := empByID[sc.EmployeeID], shiftByID[sc.ShiftID]
		if emp == nil || shift == nil {
			continue
		}
		out.Schedules = append(out.Schedules, *toScheduleResponse(sc, emp, shift))
		key := weekKey{week: dto.FormatDate(weekStart(sc.Date)), employeeID: emp.ID}
		t, ok := totals[key]
		if !ok {
			t = &dto.EmployeeHoursDTO{WeekStart: key.week, EmployeeID: emp.ID, EmployeeName: emp.Name, Hours: decimal.Zero}
			totals[key] = t
		}
		t.Shifts++
		t.Hours = t.Hours.Add(shiftHours(shift))
	}
	for _, t := range totals {
		out.Totals = append(out.Totals, *t)
	}
	sort.Slice(out.Totals, func(i, j int) bool {
		a, b := out.Totals[i], out.Totals[j]
		if a.WeekStart != b.WeekStart {
			return a.WeekStart < b.WeekStart
		}
		return a.EmployeeName < b.EmployeeName
	})
	return out, nil
}

func (uc *ScheduleUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

// weekStart lunes 00:00 (UTC) de la semana de t.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func toScheduleResponse(sc *entity.Schedule, emp *entity.Employee, shift *entity.Shift) *dto.ScheduleResponse {
	return &dto.ScheduleResponse{
		ID:           sc.ID,
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		ShiftID:      shift.ID,
		ShiftName:    shift.Name,
		Date:         dto.FormatDate(sc.Date),
		StartTime:    shift.StartTime,
		EndTime:      shift.EndTime,
		Notes:        sc.Notes,
	}
}
