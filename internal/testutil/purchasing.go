package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// PurchaseInvoices repositorio de facturas de compra.
func (s *Store) PurchaseInvoices() repository.PurchaseInvoiceRepository { return &invoiceRepo{s} }

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.PurchaseInvoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.d.invoices.all() {
		if x.TenantID == inv.TenantID && x.SupplierID == inv.SupplierID && x.InvoiceNumber == inv.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.d.invoices.put(inv.ID, *inv)
	return nil
}

func (r *invoiceRepo) CreateItem(_ context.Context, it *entity.PurchaseInvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("purchaseInvoices.CreateItem"); err != nil {
		return err
	}
	r.s.d.invoiceItems.put(it.ID, *it)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.d.invoices.get(id)
	if !ok || inv.TenantID != tenantID {
		return nil, nil
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByNumber(_ context.Context, tenantID, supplierID, number string) (*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.d.invoices.all() {
		if inv.TenantID == tenantID && inv.SupplierID == supplierID && inv.InvoiceNumber == number {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) ListItems(_ context.Context, invoiceID string) ([]*entity.PurchaseInvoiceItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseInvoiceItem
	for _, it := range r.s.d.invoiceItems.all() {
		if it.InvoiceID == invoiceID {
			it.ProductName = r.s.productName(it.ProductID)
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *invoiceRepo) List(_ context.Context, tenantID string, f repository.PurchaseInvoiceFilter) ([]*entity.PurchaseInvoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseInvoice
	for _, inv := range r.s.d.invoices.all() {
		if inv.TenantID != tenantID || (f.SupplierID != "" && inv.SupplierID != f.SupplierID) {
			continue
		}
		if !inRange(inv.InvoiceDate, f.From, f.To) {
			continue
		}
		out = append(out, &inv)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].InvoiceDate.After(out[j].InvoiceDate) })
	return page(out, f.Page), nil
}

// inRange compara por fecha (inclusive en ambos extremos).
func inRange(t time.Time, from, to *time.Time) bool {
	d := t.Format("2006-01-02")
	if from != nil && d < from.Format("2006-01-02") {
		return false
	}
	if to != nil && d > to.Format("2006-01-02") {
		return false
	}
	return true
}

// PurchaseOrders repositorio de órdenes de compra.
func (s *Store) PurchaseOrders() repository.PurchaseOrderRepository { return &purchaseOrderRepo{s} }

type purchaseOrderRepo struct{ s *Store }

func (r *purchaseOrderRepo) LastCorrelative(_ context.Context, tenantID, supplierID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := 0
	for _, o := range r.s.d.purchaseOrders.all() {
		if o.TenantID == tenantID && o.SupplierID == supplierID && o.Correlative > last {
			last = o.Correlative
		}
	}
	return last, nil
}

func (r *purchaseOrderRepo) Create(_ context.Context, o *entity.PurchaseOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.d.purchaseOrders.all() {
		if x.TenantID == o.TenantID && x.SupplierID == o.SupplierID && x.Correlative == o.Correlative {
			return domain.ErrDuplicate
		}
	}
	r.s.d.purchaseOrders.put(o.ID, *o)
	return nil
}

func (r *purchaseOrderRepo) CreateItem(_ context.Context, it *entity.PurchaseOrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("purchaseOrders.CreateItem"); err != nil {
		return err
	}
	r.s.d.purchaseOrderIts.put(it.ID, *it)
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.purchaseOrders.get(id)
	if !ok || o.TenantID != tenantID {
		return nil, nil
	}
	return &o, nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *purchaseOrderRepo) ListItems(_ context.Context, orderID string) ([]*entity.PurchaseOrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrderItem
	for _, it := range r.s.d.purchaseOrderIts.all() {
		if it.OrderID == orderID {
			it.ProductName = r.s.productName(it.ProductID)
			out = append(out, &it)
		}
	}
	return out, nil
}

func (r *purchaseOrderRepo) List(_ context.Context, tenantID string, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.PurchaseOrder
	for _, o := range r.s.d.purchaseOrders.all() {
		if o.TenantID != tenantID || (f.SupplierID != "" && o.SupplierID != f.SupplierID) || (f.Status != "" && o.Status != f.Status) {
			continue
		}
		out = append(out, &o)
	}
	reverse(out)
	return page(out, f.Page), nil
}

func (r *purchaseOrderRepo) UpdateStatus(_ context.Context, tenantID, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.d.purchaseOrders.get(id)
	if !ok || o.TenantID != tenantID {
		return domain.ErrNotFound
	}
	o.Status, o.UpdatedAt = status, at
	r.s.d.purchaseOrders.put(id, o)
	return nil
}

// reverse deja primero lo más reciente (orden de inserción invertido).
func reverse[T any](list []T) {
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
}
