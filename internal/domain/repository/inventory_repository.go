package repository

import (
	"context"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

// OfferRepository puerto de persistencia de ofertas/packs y sus componentes.
type OfferRepository interface {
	Create(ctx context.Context, o *entity.Offer) error
	Update(ctx context.Context, o *entity.Offer) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Offer, error)
	// GetByProductID oferta cuyo producto pack es productID (nil si no es un pack).
	GetByProductID(ctx context.Context, tenantID, productID string) (*entity.Offer, error)
	List(ctx context.Context, tenantID string, page Page) ([]*entity.Offer, error)
	Delete(ctx context.Context, tenantID, id string) error
	CreateItem(ctx context.Context, item *entity.OfferProduct) error
	DeleteItems(ctx context.Context, offerID string) error
	ListItems(ctx context.Context, offerID string) ([]*entity.OfferProduct, error)
}

// ConsumptionRepository puerto de persistencia de consumos internos.
type ConsumptionRepository interface {
	Create(ctx context.Context, c *entity.InternalConsumption) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.InternalConsumption, error)
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InternalConsumption, error)
	Update(ctx context.Context, c *entity.InternalConsumption) error
	Delete(ctx context.Context, tenantID, id string) error
	List(ctx context.Context, tenantID string, f ConsumptionFilter) ([]*entity.InternalConsumption, error)
}
