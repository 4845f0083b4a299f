package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.ScheduleRepository = (*ScheduleRepo)(nil)

// ScheduleRepo planificación de turnos (una asignación por empleado y fecha).
type ScheduleRepo struct {
	q Querier
}

func NewScheduleRepository(q Querier) *ScheduleRepo {
	return &ScheduleRepo{q: q}
}

const scheduleColumns = `id, tenant_id, employee_id, shift_id, date, notes, created_at`

func scanSchedule(row interface{ Scan(...any) error }) (*entity.Schedule, error) {
	var s entity.Schedule
	err := row.Scan(&s.ID, &s.TenantID, &s.EmployeeID, &s.ShiftID, &s.Date, &s.Notes, &s.CreatedAt)
	return &s, err
}

// Create ErrDuplicate si el empleado ya tiene turno ese día.
func (r *ScheduleRepo) Create(ctx context.Context, s *entity.Schedule) error {
	_, err := r.q.Exec(ctx, `INSERT INTO schedules (`+scheduleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.TenantID, s.EmployeeID, s.ShiftID, dateOnly(s.Date), s.Notes, s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

func (r *ScheduleRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *ScheduleRepo) GetByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time) (*entity.Schedule, error) {
	return r.getOne(ctx, `SELECT `+scheduleColumns+` FROM schedules WHERE tenant_id = $1 AND employee_id = $2 AND date = $3`,
		tenantID, employeeID, dateOnly(date))
}

func (r *ScheduleRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Schedule, error) {
	s, err := scanSchedule(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return s, nil
}

func (r *ScheduleRepo) List(ctx context.Context, tenantID string, f repository.ScheduleFilter) ([]*entity.Schedule, error) {
	rows, err := r.q.Query(ctx, `SELECT `+scheduleColumns+` FROM schedules
		WHERE tenant_id = $1 AND date BETWEEN $2 AND $3 AND ($4 = '' OR employee_id::text = $4)
		ORDER BY date, employee_id`, tenantID, dateOnly(f.From), dateOnly(f.To), f.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()
	var list []*entity.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *ScheduleRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM schedules WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
