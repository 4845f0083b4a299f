package testutil

import (
	"context"
	"sort"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// Offers repositorio de ofertas/packs.
func (s *Store) Offers() repository.OfferRepository { return &offerRepo{s} }

type offerRepo struct{ s *Store }

func (r *offerRepo) Create(_ context.Context, o *entity.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.offers.put(o.ID, *o)
	return nil
}

func (r *offerRepo) Update(_ context.Context, o *entity.Offer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.offers.get(o.ID)
	if !ok || cur.TenantID != o.TenantID {
		return domain.ErrNotFound
	}
	r.s.d.offers.put(o.ID, *o)
	return nil
}

func (r *offerRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.offers.get(id)
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return &o, nil
}

func (r *offerRepo) GetByProductID(_ context.Context, tenantID, productID string) (*entity.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.d.offers.all() {
		if o.TenantID == tenantID && o.ProductID == productID {
			return &o, nil
		}
	}
	return nil, nil
}

func (r *offerRepo) List(_ context.Context, tenantID string, p repository.Page) ([]*entity.Offer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Offer
	for _, o := range r.s.d.offers.all() {
		if o.TenantID == tenantID {
			out = append(out, &o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, p), nil
}

func (r *offerRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.offers.get(id)
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	r.s.deleteOfferItems(id)
	r.s.d.offers.del(id)
	return nil
}

func (r *offerRepo) CreateItem(_ context.Context, it *entity.OfferProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("offers.CreateItem"); err != nil {
		return err
	}
	for _, x := range r.s.d.offerItems.all() {
		if x.OfferID == it.OfferID && x.ProductID == it.ProductID {
			return domain.ErrDuplicate
		}
	}
	r.s.d.offerItems.put(it.ID, *it)
	return nil
}

func (r *offerRepo) DeleteItems(_ context.Context, offerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deleteOfferItems(offerID)
	return nil
}

func (s *Store) deleteOfferItems(offerID string) {
	for _, it := range s.d.offerItems.all() {
		if it.OfferID == offerID {
			s.d.offerItems.del(it.ID)
		}
	}
}

func (r *offerRepo) ListItems(_ context.Context, offerID string) ([]*entity.OfferProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OfferProduct
	for _, it := range r.s.d.offerItems.all() {
		if it.OfferID == offerID {
			it.ProductName = r.s.productName(it.ProductID)
			out = append(out, &it)
		}
	}
	return out, nil
}

// Consumptions repositorio de consumos internos.
func (s *Store) Consumptions() repository.ConsumptionRepository { return &consumptionRepo{s} }

type consumptionRepo struct{ s *Store }

func (r *consumptionRepo) Create(_ context.Context, c *entity.InternalConsumption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("consumptions.Create"); err != nil {
		return err
	}
	r.s.d.consumptions.put(c.ID, *c)
	return nil
}

func (r *consumptionRepo) GetByID(_ context.Context, tenantID, id string) (*entity.InternalConsumption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.consumptions.get(id)
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	c.ProductName = r.s.productName(c.ProductID)
	return &c, nil
}

func (r *consumptionRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.InternalConsumption, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *consumptionRepo) Update(_ context.Context, c *entity.InternalConsumption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.consumptions.get(c.ID)
	if !ok || cur.TenantID != c.TenantID {
		return domain.ErrNotFound
	}
	r.s.d.consumptions.put(c.ID, *c)
	return nil
}

func (r *consumptionRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.consumptions.get(id)
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	r.s.d.consumptions.del(id)
	return nil
}

func (r *consumptionRepo) List(_ context.Context, tenantID string, f repository.ConsumptionFilter) ([]*entity.InternalConsumption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InternalConsumption
	for _, c := range r.s.d.consumptions.all() {
		if c.TenantID != tenantID || (f.ProductID != "" && c.ProductID != f.ProductID) || !inRange(c.Date, f.From, f.To) {
			continue
		}
		c.ProductName = r.s.productName(c.ProductID)
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return page(out, f.Page), nil
}
