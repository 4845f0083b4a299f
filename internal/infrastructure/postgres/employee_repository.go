package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// EmployeeRepo empleados de la tienda.
type EmployeeRepo struct {
	q Querier
}

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(q Querier) *EmployeeRepo {
	return &EmployeeRepo{q: q}
}

const employeeColumns = `id, tenant_id, name, document_id, position, email, phone, active, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*entity.Employee, error) {
	var e entity.Employee
	err := row.Scan(&e.ID, &e.TenantID, &e.Name, &e.DocumentID, &e.Position, &e.Email, &e.Phone, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *EmployeeRepo) Create(ctx context.Context, e *entity.Employee) error {
	_, err := r.q.Exec(ctx, `INSERT INTO employees (`+employeeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.TenantID, e.Name, e.DocumentID, e.Position, e.Email, e.Phone, e.Active, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

func (r *EmployeeRepo) GetByDocument(ctx context.Context, tenantID, documentID string) (*entity.Employee, error) {
	return r.getOne(ctx, `SELECT `+employeeColumns+` FROM employees WHERE tenant_id = $1 AND document_id = $2`, tenantID, documentID)
}

func (r *EmployeeRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Employee, error) {
	e, err := scanEmployee(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (r *EmployeeRepo) List(ctx context.Context, tenantID string, onlyActive bool) ([]*entity.Employee, error) {
	rows, err := r.q.Query(ctx, `SELECT `+employeeColumns+` FROM employees
		WHERE tenant_id = $1 AND (NOT $2 OR active) ORDER BY name`, tenantID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()
	var list []*entity.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EmployeeRepo) Update(ctx context.Context, e *entity.Employee) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE employees SET name = $3, document_id = $4, position = $5, email = $6, phone = $7, active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`,
		e.TenantID, e.ID, e.Name, e.DocumentID, e.Position, e.Email, e.Phone, e.Active, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el empleado y su planificación (ON DELETE CASCADE).
func (r *EmployeeRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM employees WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
