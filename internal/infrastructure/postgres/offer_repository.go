package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

var _ repository.OfferRepository = (*OfferRepo)(nil)

// OfferRepo ofertas/packs y sus componentes (offer_products).
type OfferRepo struct {
	q Querier
}

// NewOfferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOfferRepository(q Querier) *OfferRepo {
	return &OfferRepo{q: q}
}

const offerColumns = `id, tenant_id, product_id, name, pack_cost, list_price, sale_price, margin, active, created_at, updated_at`

func scanOffer(row interface{ Scan(...any) error }) (*entity.Offer, error) {
	var o entity.Offer
	err := row.Scan(&o.ID, &o.TenantID, &o.ProductID, &o.Name, &o.PackCost, &o.ListPrice, &o.SalePrice, &o.Margin,
		&o.Active, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *OfferRepo) Create(ctx context.Context, o *entity.Offer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO offers (`+offerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.TenantID, o.ProductID, o.Name, o.PackCost, o.ListPrice, o.SalePrice, o.Margin, o.Active, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// Update reescribe la cabecera con los totales recalculados.
func (r *OfferRepo) Update(ctx context.Context, o *entity.Offer) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE offers SET name = $3, pack_cost = $4, list_price = $5, sale_price = $6, margin = $7, active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`,
		o.TenantID, o.ID, o.Name, o.PackCost, o.ListPrice, o.SalePrice, o.Margin, o.Active, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OfferRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Offer, error) {
	o, err := scanOffer(r.q.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer: %w", err)
	}
	return o, nil
}

func (r *OfferRepo) GetByProductID(ctx context.Context, tenantID, productID string) (*entity.Offer, error) {
	o, err := scanOffer(r.q.QueryRow(ctx,
		`SELECT `+offerColumns+` FROM offers WHERE tenant_id = $1 AND product_id = $2`, tenantID, productID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get offer by product: %w", err)
	}
	return o, nil
}

func (r *OfferRepo) List(ctx context.Context, tenantID string, page repository.Page) ([]*entity.Offer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+offerColumns+` FROM offers WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`,
		tenantID, limitOrDefault(page.Limit), page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Delete elimina la cabecera; los componentes caen por ON DELETE CASCADE.
func (r *OfferRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM offers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OfferRepo) CreateItem(ctx context.Context, it *entity.OfferProduct) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO offer_products (id, offer_id, product_id, quantity, unit_cost, unit_price, discount_percent, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID, it.OfferID, it.ProductID, it.Quantity, it.UnitCost, it.UnitPrice, it.DiscountPercent, it.LineTotal)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert offer product: %w", err)
	}
	return nil
}

// DeleteItems borra todos los componentes (la edición los reinserta).
func (r *OfferRepo) DeleteItems(ctx context.Context, offerID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM offer_products WHERE offer_id = $1`, offerID); err != nil {
		return fmt.Errorf("delete offer products: %w", err)
	}
	return nil
}

func (r *OfferRepo) ListItems(ctx context.Context, offerID string) ([]*entity.OfferProduct, error) {
	rows, err := r.q.Query(ctx, `
		SELECT op.id, op.offer_id, op.product_id, p.name, op.quantity, op.unit_cost, op.unit_price,
			op.discount_percent, op.line_total
		FROM offer_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.offer_id = $1
		ORDER BY p.name`, offerID)
	if err != nil {
		return nil, fmt.Errorf("list offer products: %w", err)
	}
	defer rows.Close()
	var list []*entity.OfferProduct
	for rows.Next() {
		var it entity.OfferProduct
		if err := rows.Scan(&it.ID, &it.OfferID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitCost,
			&it.UnitPrice, &it.DiscountPercent, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan offer product: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
