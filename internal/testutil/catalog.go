package testutil

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// Categories repositorio de categorías.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s} }

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.d.categories.all() {
		if x.TenantID == c.TenantID && strings.EqualFold(x.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.categories.put(c.ID, *c)
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.categories.get(id)
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(_ context.Context, tenantID, name string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.d.categories.all() {
		if c.TenantID == tenantID && strings.EqualFold(c.Name, name) {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) List(_ context.Context, tenantID string) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("categories.List"); err != nil {
		return nil, err
	}
	var out []*entity.Category
	for _, c := range r.s.d.categories.all() {
		if c.TenantID == tenantID {
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.categories.get(c.ID)
	if !ok || cur.TenantID != c.TenantID {
		return domain.ErrNotFound
	}
	for _, x := range r.s.d.categories.all() {
		if x.ID != c.ID && x.TenantID == c.TenantID && strings.EqualFold(x.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.categories.put(c.ID, *c)
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.categories.get(id)
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	r.s.d.categories.del(id)
	for _, p := range r.s.d.products.all() {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
			r.s.d.products.put(p.ID, p)
		}
	}
	return nil
}

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() repository.SupplierRepository { return &supplierRepo{s} }

type supplierRepo struct{ s *Store }

func (r *supplierRepo) unique(sup *entity.Supplier) error {
	for _, x := range r.s.d.suppliers.all() {
		if x.ID == sup.ID || x.TenantID != sup.TenantID {
			continue
		}
		if x.Code == sup.Code || strings.EqualFold(x.Name, sup.Name) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *supplierRepo) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.unique(sup); err != nil {
		return err
	}
	r.s.d.suppliers.put(sup.ID, *sup)
	return nil
}

func (r *supplierRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.d.suppliers.get(id)
	if !ok || sup.TenantID != tenantID {
		return nil, nil
	}
	return &sup, nil
}

func (r *supplierRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Supplier, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *supplierRepo) find(tenantID string, match func(entity.Supplier) bool) *entity.Supplier {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sup := range r.s.d.suppliers.all() {
		if sup.TenantID == tenantID && match(sup) {
			return &sup
		}
	}
	return nil
}

func (r *supplierRepo) GetByName(_ context.Context, tenantID, name string) (*entity.Supplier, error) {
	return r.find(tenantID, func(x entity.Supplier) bool { return strings.EqualFold(x.Name, name) }), nil
}

func (r *supplierRepo) GetByCode(_ context.Context, tenantID, code string) (*entity.Supplier, error) {
	return r.find(tenantID, func(x entity.Supplier) bool { return x.Code == code }), nil
}

func (r *supplierRepo) List(_ context.Context, tenantID, search string, p repository.Page) ([]*entity.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search = strings.ToLower(search)
	var out []*entity.Supplier
	for _, sup := range r.s.d.suppliers.all() {
		if sup.TenantID != tenantID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(sup.Name), search) &&
			!strings.Contains(strings.ToLower(sup.Code), search) && sup.TaxID != search {
			continue
		}
		out = append(out, &sup)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, p), nil
}

func (r *supplierRepo) Update(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.suppliers.get(sup.ID)
	if !ok || cur.TenantID != sup.TenantID {
		return domain.ErrNotFound
	}
	if err := r.unique(sup); err != nil {
		return err
	}
	r.s.d.suppliers.put(sup.ID, *sup)
	return nil
}

func (r *supplierRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sup, ok := r.s.d.suppliers.get(id)
	if !ok || sup.TenantID != tenantID {
		return domain.ErrNotFound
	}
	for _, inv := range r.s.d.invoices.all() {
		if inv.SupplierID == id {
			return domain.ErrConflict
		}
	}
	for _, o := range r.s.d.purchaseOrders.all() {
		if o.SupplierID == id {
			return domain.ErrConflict
		}
	}
	r.s.d.suppliers.del(id)
	for _, p := range r.s.d.products.all() {
		if p.SupplierID != nil && *p.SupplierID == id {
			p.SupplierID = nil
			r.s.d.products.put(p.ID, p)
		}
	}
	return nil
}

// Products repositorio de productos.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s} }

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("products.Create"); err != nil {
		return err
	}
	for _, x := range r.s.d.products.all() {
		if x.TenantID == p.TenantID && x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.d.products.put(p.ID, *p)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.products.get(id)
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *productRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.d.products.all() {
		if p.TenantID == tenantID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *productRepo) List(_ context.Context, tenantID string, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Product
	for _, p := range r.s.d.products.all() {
		if p.TenantID != tenantID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.SupplierID != "" && (p.SupplierID == nil || *p.SupplierID != f.SupplierID) {
			continue
		}
		if f.LowStock && !p.LowStock() {
			continue
		}
		if f.OnlyPacks && !p.IsPack {
			continue
		}
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Page), nil
}

func (r *productRepo) modify(tenantID, id string, fn func(p *entity.Product) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.products.get(id)
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if err := fn(&p); err != nil {
		return err
	}
	r.s.d.products.put(id, p)
	return nil
}

func (r *productRepo) Update(_ context.Context, in *entity.Product) error {
	return r.modify(in.TenantID, in.ID, func(p *entity.Product) error {
		p.Name, p.Description = in.Name, in.Description
		p.CategoryID, p.SupplierID = in.CategoryID, in.SupplierID
		p.SalePrice, p.MinStock, p.Active = in.SalePrice, in.MinStock, in.Active
		p.UpdatedAt = in.UpdatedAt
		return nil
	})
}

func (r *productRepo) UpdatePricing(_ context.Context, tenantID, id string, cost, salePrice decimal.Decimal) error {
	return r.modify(tenantID, id, func(p *entity.Product) error {
		p.CostPrice, p.SalePrice = cost, salePrice
		return nil
	})
}

func (r *productRepo) UpdateCost(_ context.Context, tenantID, id string, cost decimal.Decimal) error {
	return r.modify(tenantID, id, func(p *entity.Product) error {
		p.CostPrice = cost
		return nil
	})
}

func (r *productRepo) AddStock(_ context.Context, tenantID, id string, delta decimal.Decimal) error {
	if err := r.check("products.AddStock"); err != nil {
		return err
	}
	return r.modify(tenantID, id, func(p *entity.Product) error {
		next := p.Stock.Add(delta)
		if next.IsNegative() {
			return domain.ErrInsufficientStock
		}
		p.Stock = next
		return nil
	})
}

func (r *productRepo) check(op string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.failure(op)
}

func (r *productRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.d.products.get(id)
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if r.s.productReferenced(id) {
		return domain.ErrConflict
	}
	r.s.d.products.del(id)
	return nil
}

// productReferenced equivale a las FKs hacia products; requiere s.mu tomado.
func (s *Store) productReferenced(id string) bool {
	for _, it := range s.d.invoiceItems.all() {
		if it.ProductID == id {
			return true
		}
	}
	for _, it := range s.d.purchaseOrderIts.all() {
		if it.ProductID == id {
			return true
		}
	}
	for _, it := range s.d.offerItems.all() {
		if it.ProductID == id {
			return true
		}
	}
	for _, o := range s.d.offers.all() {
		if o.ProductID == id {
			return true
		}
	}
	for _, c := range s.d.consumptions.all() {
		if c.ProductID == id {
			return true
		}
	}
	for _, it := range s.d.quotationItems.all() {
		if it.ProductID == id {
			return true
		}
	}
	for _, it := range s.d.orderItems.all() {
		if it.ProductID == id {
			return true
		}
	}
	return false
}

// productName nombre actual del producto; requiere s.mu tomado.
func (s *Store) productName(id string) string {
	p, _ := s.d.products.get(id)
	return p.Name
}
