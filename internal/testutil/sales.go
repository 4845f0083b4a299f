package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// Customers repositorio de clientes.
func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{s} }

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.customers.put(c.ID, *c)
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.customers.get(id)
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return &c, nil
}

func (r *customerRepo) List(_ context.Context, tenantID, search string, p repository.Page) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search = strings.ToLower(search)
	var out []*entity.Customer
	for _, c := range r.s.d.customers.all() {
		if c.TenantID != tenantID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && c.TaxID != search {
			continue
		}
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, p), nil
}

func (r *customerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.customers.get(c.ID)
	if !ok || cur.TenantID != c.TenantID {
		return domain.ErrNotFound
	}
	r.s.d.customers.put(c.ID, *c)
	return nil
}

func (r *customerRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.d.customers.get(id)
	if !ok || c.TenantID != tenantID {
		return domain.ErrNotFound
	}
	r.s.d.customers.del(id)
	return nil
}

// Quotations repositorio de cotizaciones.
func (s *Store) Quotations() repository.QuotationRepository { return &quotationRepo{s} }

type quotationRepo struct{ s *Store }

func (r *quotationRepo) LastSequence(_ context.Context, tenantID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := 0
	for _, q := range r.s.d.quotations.all() {
		if q.TenantID == tenantID && q.Sequence > last {
			last = q.Sequence
		}
	}
	return last, nil
}

func (r *quotationRepo) Create(_ context.Context, q *entity.Quotation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.d.quotations.all() {
		if x.TenantID == q.TenantID && x.Sequence == q.Sequence {
			return domain.ErrDuplicate
		}
	}
	r.s.d.quotations.put(q.ID, *q)
	return nil
}

func (r *quotationRepo) CreateItem(_ context.Context, it *entity.QuotationItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.quotationItems.put(it.ID, *it)
	return nil
}

func (r *quotationRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Quotation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.d.quotations.get(id)
	if !ok || q.TenantID != tenantID {
		return nil, nil
	}
	return &q, nil
}

func (r *quotationRepo) ListItems(_ context.Context, quotationID string) ([]*entity.QuotationItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.QuotationItem
	for _, it := range r.s.d.quotationItems.all() {
		if it.QuotationID == quotationID {
			it.ProductName = r.s.productName(it.ProductID)
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *quotationRepo) List(_ context.Context, tenantID string, f repository.QuotationFilter) ([]*entity.Quotation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Quotation
	for _, q := range r.s.d.quotations.all() {
		if q.TenantID == tenantID && (f.Status == "" || q.Status == f.Status) {
			out = append(out, &q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence > out[j].Sequence })
	return page(out, f.Page), nil
}

func (r *quotationRepo) UpdateStatus(_ context.Context, tenantID, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.d.quotations.get(id)
	if !ok || q.TenantID != tenantID {
		return domain.ErrNotFound
	}
	q.Status, q.UpdatedAt = status, at
	r.s.d.quotations.put(id, q)
	return nil
}

// Orders repositorio de pedidos de venta.
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{s} }

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.orders.put(o.ID, *o)
	return nil
}

func (r *orderRepo) CreateItem(_ context.Context, it *entity.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("orders.CreateItem"); err != nil {
		return err
	}
	r.s.d.orderItems.put(it.ID, *it)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.orders.get(id)
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Order, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *orderRepo) ListItems(_ context.Context, orderID string) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderItem
	for _, it := range r.s.d.orderItems.all() {
		if it.OrderID == orderID {
			it.ProductName = r.s.productName(it.ProductID)
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *orderRepo) List(_ context.Context, tenantID string, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.s.d.orders.all() {
		if o.TenantID != tenantID || (f.Status != "" && o.Status != f.Status) {
			continue
		}
		if f.CustomerID != "" && (o.CustomerID == nil || *o.CustomerID != f.CustomerID) {
			continue
		}
		if (f.From != nil && o.CreatedAt.Before(*f.From)) || (f.To != nil && !o.CreatedAt.Before(*f.To)) {
			continue
		}
		out = append(out, &o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, f.Page), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, tenantID, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.orders.get(id)
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	o.Status, o.UpdatedAt = status, at
	r.s.d.orders.put(id, o)
	return nil
}

// Analytics agregados de ventas calculados sobre los pedidos en memoria.
func (s *Store) Analytics() repository.AnalyticsRepository { return &analyticsRepo{s} }

type analyticsRepo struct{ s *Store }

func (r *analyticsRepo) validOrders(tenantID string, from, to time.Time) []entity.Order {
	var out []entity.Order
	for _, o := range r.s.d.orders.all() {
		if o.TenantID == tenantID && o.Status != entity.OrderCancelled &&
			!o.CreatedAt.Before(from) && o.CreatedAt.Before(to) {
			out = append(out, o)
		}
	}
	return out
}

func (r *analyticsRepo) SalesSummary(_ context.Context, tenantID string, from, to time.Time) (repository.SalesSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := repository.SalesSummary{Revenue: decimal.Zero, Cost: decimal.Zero}
	for _, o := range r.validOrders(tenantID, from, to) {
		sum.Revenue = sum.Revenue.Add(o.Total)
		sum.Cost = sum.Cost.Add(o.CostTotal)
		sum.Orders++
	}
	return sum, nil
}

func (r *analyticsRepo) TopProducts(_ context.Context, tenantID string, from, to time.Time, limit int) ([]repository.TopProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	valid := map[string]bool{}
	for _, o := range r.validOrders(tenantID, from, to) {
		valid[o.ID] = true
	}
	byProduct := map[string]*repository.TopProduct{}
	var ids []string
	for _, it := range r.s.d.orderItems.all() {
		if !valid[it.OrderID] {
			continue
		}
		tp, ok := byProduct[it.ProductID]
		if !ok {
			tp = &repository.TopProduct{ProductID: it.ProductID, ProductName: r.s.productName(it.ProductID)}
			byProduct[it.ProductID] = tp
			ids = append(ids, it.ProductID)
		}
		tp.QuantitySold = tp.QuantitySold.Add(it.Quantity)
		tp.Revenue = tp.Revenue.Add(it.Subtotal)
		tp.Cost = tp.Cost.Add(it.Quantity.Mul(it.UnitCost))
	}
	out := make([]repository.TopProduct, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byProduct[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
