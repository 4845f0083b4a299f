package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo proveedores (usable con pool o tx).
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, tenant_id, code, name, tax_id, contact_name, email, phone, address, created_at, updated_at`

func scanSupplier(row interface{ Scan(...any) error }) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.TenantID, &s.Code, &s.Name, &s.TaxID, &s.ContactName, &s.Email, &s.Phone, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

// Create persiste un proveedor. ErrDuplicate si el código o nombre ya existe en el tenant.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO suppliers (`+supplierColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.TenantID, s.Code, s.Name, s.TaxID, s.ContactName, s.Email, s.Phone, s.Address, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetForUpdate bloquea la fila del proveedor hasta el fin de la transacción.
func (r *SupplierRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *SupplierRepo) GetByName(ctx context.Context, tenantID, name string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 AND lower(name) = lower($2)`, tenantID, name)
}

func (r *SupplierRepo) GetByCode(ctx context.Context, tenantID, code string) (*entity.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE tenant_id = $1 AND code = $2`, tenantID, code)
}

func (r *SupplierRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// List lista proveedores; search filtra por nombre, código o NIT.
func (r *SupplierRepo) List(ctx context.Context, tenantID, search string, page repository.Page) ([]*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers
		WHERE tenant_id = $1
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR code ILIKE '%' || $2 || '%' OR tax_id = $2)
		ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, tenantID, search, limitOrDefault(page.Limit), page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET code = $3, name = $4, tax_id = $5, contact_name = $6, email = $7, phone = $8, address = $9, updated_at = $10
		WHERE tenant_id = $1 AND id = $2`,
		s.TenantID, s.ID, s.Code, s.Name, s.TaxID, s.ContactName, s.Email, s.Phone, s.Address, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el proveedor. ErrConflict si tiene facturas u órdenes de compra.
func (r *SupplierRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
