package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para tenants.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, name, tax_id, email, phone, address, status, created_at, updated_at`

// Create persiste un nuevo tenant.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `INSERT INTO tenants (` + tenantColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.TaxID, t.Email, t.Phone, t.Address, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID. (nil, nil) si no existe.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	var t entity.Tenant
	err := r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id).Scan(
		&t.ID, &t.Name, &t.TaxID, &t.Email, &t.Phone, &t.Address, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &t, nil
}

// List devuelve tenants con paginación.
func (r *TenantRepo) List(ctx context.Context, page repository.Page) ([]*entity.Tenant, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limitOrDefault(page.Limit), page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var list []*entity.Tenant
	for rows.Next() {
		var t entity.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.TaxID, &t.Email, &t.Phone, &t.Address, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ActivateModules activa (o reactiva) los módulos indicados para el tenant.
func (r *TenantRepo) ActivateModules(ctx context.Context, tenantID string, modules []string) error {
	const query = `
		INSERT INTO tenant_modules (tenant_id, module_name, is_active, created_at)
		VALUES ($1, $2, true, now())
		ON CONFLICT (tenant_id, module_name) DO UPDATE SET is_active = true, expires_at = NULL`
	for _, m := range modules {
		if _, err := r.q.Exec(ctx, query, tenantID, m); err != nil {
			return fmt.Errorf("activate module %s: %w", m, err)
		}
	}
	return nil
}

// HasActiveModule informa si el tenant tiene el módulo activo y sin vencer.
func (r *TenantRepo) HasActiveModule(ctx context.Context, tenantID, module string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM tenant_modules
			 WHERE tenant_id   = $1
			   AND module_name = $2
			   AND is_active   = true
			   AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	if err := r.q.QueryRow(ctx, query, tenantID, module).Scan(&active); err != nil {
		return false, fmt.Errorf("check module %s: %w", module, err)
	}
	return active, nil
}
