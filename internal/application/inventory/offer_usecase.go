// Package inventory agrupa los casos de uso que mueven o componen stock fuera de compras y ventas:
// ofertas/packs, consumos internos y sugerencias de reposición.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/pricing"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

// OfferUseCase ofertas/packs. Cada oferta tiene un producto pack (is_pack, stock 0) que la representa en ventas.
type OfferUseCase struct {
	txRunner    repository.TxRunner
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	log         *logger.Logger
}

// NewOfferUseCase construye el caso de uso.
func NewOfferUseCase(txRunner repository.TxRunner, offerRepo repository.OfferRepository, productRepo repository.ProductRepository, log *logger.Logger) *OfferUseCase {
	return &OfferUseCase{txRunner: txRunner, offerRepo: offerRepo, productRepo: productRepo, log: log.Component("offer")}
}

// pack componentes resueltos y precios calculados.
type pack struct {
	items   []*entity.OfferProduct
	pricing pricing.PackPricing
}

// Create crea el producto pack, la oferta y sus componentes en una transacción.
func (uc *OfferUseCase) Create(ctx context.Context, tenantID string, in dto.OfferRequest) (*dto.OfferResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y nombre requeridos", domain.ErrInvalidInput)
	}
	if err := validateItems(in.Items, in.SalePrice); err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		offer   *entity.Offer
		product *entity.Product
		built   *pack
	)
	err := uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		existing, err := r.Products.GetBySKU(ctx, tenantID, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: sku %s en uso", domain.ErrDuplicate, sku)
		}
		if built, err = resolvePack(ctx, r, tenantID, in.Items); err != nil {
			return err
		}
		sale := salePriceOf(in.SalePrice, built.pricing)
		product = &entity.Product{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			SKU:       sku,
			Name:      name,
			CostPrice: built.pricing.Cost,
			SalePrice: sale,
			Stock:     decimal.Zero,
			MinStock:  decimal.Zero,
			IsPack:    true,
			Active:    in.Active == nil || *in.Active,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		offer = &entity.Offer{
			ID:        uuid.New().String(),
			TenantID:  tenantID,
			ProductID: product.ID,
			Name:      name,
			PackCost:  built.pricing.Cost,
			ListPrice: built.pricing.ListPrice,
			SalePrice: sale,
			Margin:    pricing.Margin(sale, built.pricing.Cost),
			Active:    product.Active,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Offers.Create(ctx, offer); err != nil {
			return err
		}
		return insertItems(ctx, r, offer.ID, built.items)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("offer_id", offer.ID).Str("sku", sku).Msg("oferta creada")
	return toOfferResponse(offer, product.SKU, built.items), nil
}

// Update recalcula precios y reemplaza los componentes (borra y reinserta). El SKU del pack no cambia.
func (uc *OfferUseCase) Update(ctx context.Context, tenantID, id string, in dto.OfferRequest) (*dto.OfferResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := validateItems(in.Items, in.SalePrice); err != nil {
		return nil, err
	}

	var (
		offer   *entity.Offer
		product *entity.Product
		built   *pack
	)
	err := uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		var err error
		if offer, err = r.Offers.GetByID(ctx, tenantID, id); err != nil {
			return err
		}
		if offer == nil {
			return domain.ErrNotFound
		}
		if product, err = r.Products.GetForUpdate(ctx, tenantID, offer.ProductID); err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("oferta %s sin producto pack", offer.ID)
		}
		if built, err = resolvePack(ctx, r, tenantID, in.Items); err != nil {
			return err
		}
		sale := salePriceOf(in.SalePrice, built.pricing)
		now := time.Now()

		offer.Name = name
		offer.PackCost = built.pricing.Cost
		offer.ListPrice = built.pricing.ListPrice
		offer.SalePrice = sale
		offer.Margin = pricing.Margin(sale, built.pricing.Cost)
		if in.Active != nil {
			offer.Active = *in.Active
		}
		offer.UpdatedAt = now
		if err := r.Offers.Update(ctx, offer); err != nil {
			return err
		}
		if err := r.Offers.DeleteItems(ctx, offer.ID); err != nil {
			return err
		}
		if err := insertItems(ctx, r, offer.ID, built.items); err != nil {
			return err
		}

		product.Name = name
		product.Active = offer.Active
		product.SalePrice = sale
		product.UpdatedAt = now
		if err := r.Products.Update(ctx, product); err != nil {
			return err
		}
		return r.Products.UpdatePricing(ctx, tenantID, product.ID, built.pricing.Cost, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("offer_id", offer.ID).Int("items", len(built.items)).Msg("oferta actualizada")
	return toOfferResponse(offer, product.SKU, built.items), nil
}

// Delete elimina componentes, oferta y producto pack. ErrConflict si el pack ya fue vendido o cotizado.
func (uc *OfferUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		offer, err := r.Offers.GetByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if offer == nil {
			return domain.ErrNotFound
		}
		if err := r.Offers.Delete(ctx, tenantID, offer.ID); err != nil {
			return err
		}
		return r.Products.Delete(ctx, tenantID, offer.ProductID)
	})
}

// GetByID oferta con sus componentes.
func (uc *OfferUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.OfferResponse, error) {
	offer, err := uc.offerRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.offerRepo.ListItems(ctx, offer.ID)
	if err != nil {
		return nil, err
	}
	return toOfferResponse(offer, uc.skuOf(ctx, tenantID, offer.ProductID), items), nil
}

// List ofertas del tenant (sin componentes).
func (uc *OfferUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) ([]dto.OfferResponse, error) {
	page.Normalize()
	list, err := uc.offerRepo.List(ctx, tenantID, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OfferResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOfferResponse(o, uc.skuOf(ctx, tenantID, o.ProductID), nil))
	}
	return out, nil
}

func (uc *OfferUseCase) skuOf(ctx context.Context, tenantID, productID string) string {
	p, err := uc.productRepo.GetByID(ctx, tenantID, productID)
	if err != nil || p == nil {
		return ""
	}
	return p.SKU
}

func validateItems(items []dto.OfferItemInput, salePrice *decimal.Decimal) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: la oferta no tiene productos", domain.ErrInvalidInput)
	}
	if salePrice != nil && salePrice.IsNegative() {
		return fmt.Errorf("%w: precio de venta negativo", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		n := i + 1
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: componente %d requiere producto y cantidad > 0", domain.ErrInvalidInput, n)
		}
		if !pricing.ValidDiscount(it.DiscountPercent) {
			return fmt.Errorf("%w: componente %d descuento fuera de 0..100", domain.ErrInvalidInput, n)
		}
		if seen[it.ProductID] {
			return fmt.Errorf("%w: producto %s repetido en la oferta", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = true
	}
	return nil
}

// resolvePack carga los componentes (no pueden ser packs) y calcula costo y precios.
func resolvePack(ctx context.Context, r repository.TxRepositories, tenantID string, items []dto.OfferItemInput) (*pack, error) {
	out := &pack{}
	components := make([]pricing.PackComponent, 0, len(items))
	for _, it := range items {
		p, err := r.Products.GetByID(ctx, tenantID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, it.ProductID)
		}
		if p.IsPack {
			return nil, fmt.Errorf("%w: %s es un pack y no puede formar parte de otro", domain.ErrInvalidInput, p.Name)
		}
		c := pricing.PackComponent{
			Quantity:        it.Quantity,
			UnitCost:        p.CostPrice,
			UnitPrice:       p.SalePrice,
			DiscountPercent: it.DiscountPercent,
		}
		components = append(components, c)
		out.items = append(out.items, &entity.OfferProduct{
			ID:              uuid.New().String(),
			ProductID:       p.ID,
			ProductName:     p.Name,
			Quantity:        it.Quantity,
			UnitCost:        p.CostPrice,
			UnitPrice:       p.SalePrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       c.LineTotal(),
		})
	}
	out.pricing = pricing.PricePack(components)
	return out, nil
}

func insertItems(ctx context.Context, r repository.TxRepositories, offerID string, items []*entity.OfferProduct) error {
	for _, it := range items {
		it.OfferID = offerID
		if err := r.Offers.CreateItem(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func salePriceOf(explicit *decimal.Decimal, p pricing.PackPricing) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	return p.DiscountedPrice
}

func toOfferResponse(o *entity.Offer, sku string, items []*entity.OfferProduct) *dto.OfferResponse {
	resp := &dto.OfferResponse{
		ID:        o.ID,
		ProductID: o.ProductID,
		SKU:       sku,
		Name:      o.Name,
		PackCost:  o.PackCost,
		ListPrice: o.ListPrice,
		SalePrice: o.SalePrice,
		Margin:    o.Margin,
		Active:    o.Active,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OfferItemResponse{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			LineTotal:       it.LineTotal,
		})
	}
	return resp
}
