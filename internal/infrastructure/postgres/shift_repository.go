package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.ShiftRepository = (*ShiftRepo)(nil)

// ShiftRepo turnos de trabajo.
type ShiftRepo struct {
	q Querier
}

func NewShiftRepository(q Querier) *ShiftRepo {
	return &ShiftRepo{q: q}
}

const shiftColumns = `id, tenant_id, name, start_time, end_time, created_at, updated_at`

func scanShift(row interface{ Scan(...any) error }) (*entity.Shift, error) {
	var s entity.Shift
	err := row.Scan(&s.ID, &s.TenantID, &s.Name, &s.StartTime, &s.EndTime, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *ShiftRepo) Create(ctx context.Context, s *entity.Shift) error {
	_, err := r.q.Exec(ctx, `INSERT INTO shifts (`+shiftColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.TenantID, s.Name, s.StartTime, s.EndTime, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert shift: %w", err)
	}
	return nil
}

func (r *ShiftRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Shift, error) {
	s, err := scanShift(r.q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shift: %w", err)
	}
	return s, nil
}

func (r *ShiftRepo) List(ctx context.Context, tenantID string) ([]*entity.Shift, error) {
	rows, err := r.q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE tenant_id = $1 ORDER BY start_time, name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *ShiftRepo) Update(ctx context.Context, s *entity.Shift) error {
	cmd, err := r.q.Exec(ctx, `UPDATE shifts SET name = $3, start_time = $4, end_time = $5, updated_at = $6
		WHERE tenant_id = $1 AND id = $2`, s.TenantID, s.ID, s.Name, s.StartTime, s.EndTime, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update shift: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete ErrConflict si el turno está asignado en la planificación.
func (r *ShiftRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM shifts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete shift: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
