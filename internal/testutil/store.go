// Package testutil implementa los puertos de repositorio en memoria para los tests de casos de uso.
// TxRunner toma una copia de los datos y la restaura si el callback falla, igual que un Rollback.
package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

// table filas indexadas por ID conservando el orden de inserción.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[string]T{}}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) del(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) all() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) clone() *table[T] {
	c := &table[T]{rows: make(map[string]T, len(t.rows)), order: append([]string(nil), t.order...)}
	for k, v := range t.rows {
		c.rows[k] = v
	}
	return c
}

type data struct {
	tenants          *table[entity.Tenant]
	modules          *table[entity.TenantModule]
	users            *table[entity.User]
	categories       *table[entity.Category]
	suppliers        *table[entity.Supplier]
	products         *table[entity.Product]
	invoices         *table[entity.PurchaseInvoice]
	invoiceItems     *table[entity.PurchaseInvoiceItem]
	purchaseOrders   *table[entity.PurchaseOrder]
	purchaseOrderIts *table[entity.PurchaseOrderItem]
	offers           *table[entity.Offer]
	offerItems       *table[entity.OfferProduct]
	consumptions     *table[entity.InternalConsumption]
	customers        *table[entity.Customer]
	quotations       *table[entity.Quotation]
	quotationItems   *table[entity.QuotationItem]
	orders           *table[entity.Order]
	orderItems       *table[entity.OrderItem]
	employees        *table[entity.Employee]
	shifts           *table[entity.Shift]
	schedules        *table[entity.Schedule]
}

func newData() *data {
	return &data{
		tenants:          newTable[entity.Tenant](),
		modules:          newTable[entity.TenantModule](),
		users:            newTable[entity.User](),
		categories:       newTable[entity.Category](),
		suppliers:        newTable[entity.Supplier](),
		products:         newTable[entity.Product](),
		invoices:         newTable[entity.PurchaseInvoice](),
		invoiceItems:     newTable[entity.PurchaseInvoiceItem](),
		purchaseOrders:   newTable[entity.PurchaseOrder](),
		purchaseOrderIts: newTable[entity.PurchaseOrderItem](),
		offers:           newTable[entity.Offer](),
		offerItems:       newTable[entity.OfferProduct](),
		consumptions:     newTable[entity.InternalConsumption](),
		customers:        newTable[entity.Customer](),
		quotations:       newTable[entity.Quotation](),
		quotationItems:   newTable[entity.QuotationItem](),
		orders:           newTable[entity.Order](),
		orderItems:       newTable[entity.OrderItem](),
		employees:        newTable[entity.Employee](),
		shifts:           newTable[entity.Shift](),
		schedules:        newTable[entity.Schedule](),
	}
}

func (d *data) clone() *data {
	return &data{
		tenants:          d.tenants.clone(),
		modules:          d.modules.clone(),
		users:            d.users.clone(),
		categories:       d.categories.clone(),
		suppliers:        d.suppliers.clone(),
		products:         d.products.clone(),
		invoices:         d.invoices.clone(),
		invoiceItems:     d.invoiceItems.clone(),
		purchaseOrders:   d.purchaseOrders.clone(),
		purchaseOrderIts: d.purchaseOrderIts.clone(),
		offers:           d.offers.clone(),
		offerItems:       d.offerItems.clone(),
		consumptions:     d.consumptions.clone(),
		customers:        d.customers.clone(),
		quotations:       d.quotations.clone(),
		quotationItems:   d.quotationItems.clone(),
		orders:           d.orders.clone(),
		orderItems:       d.orderItems.clone(),
		employees:        d.employees.clone(),
		shifts:           d.shifts.clone(),
		schedules:        d.schedules.clone(),
	}
}

// Store base de datos en memoria compartida por todos los repositorios de un test.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	d    *data
	errs map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData(), errs: map[string]error{}}
}

// Fail hace que la operación op (p. ej. "products.AddStock") devuelva err a partir de ahora.
func (s *Store) Fail(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[op] = err
}

// failure debe llamarse con s.mu tomado.
func (s *Store) failure(op string) error {
	return s.errs[op]
}

// TxRunner runner transaccional en memoria.
func (s *Store) TxRunner() repository.TxRunner { return &txRunner{s: s} }

type txRunner struct{ s *Store }

// Run serializa las transacciones y restaura la copia si fn falla.
func (r *txRunner) Run(_ context.Context, fn func(repos repository.TxRepositories) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snapshot := r.s.d.clone()
	r.s.mu.Unlock()

	err := fn(repository.TxRepositories{
		Products:         r.s.Products(),
		Suppliers:        r.s.Suppliers(),
		PurchaseInvoices: r.s.PurchaseInvoices(),
		PurchaseOrders:   r.s.PurchaseOrders(),
		Offers:           r.s.Offers(),
		Consumptions:     r.s.Consumptions(),
		Quotations:       r.s.Quotations(),
		Orders:           r.s.Orders(),
	})
	if err != nil {
		r.s.mu.Lock()
		r.s.d = snapshot
		r.s.mu.Unlock()
	}
	return err
}

func page[T any](list []T, p repository.Page) []T {
	if p.Offset >= len(list) {
		return nil
	}
	list = list[p.Offset:]
	if p.Limit > 0 && p.Limit < len(list) {
		list = list[:p.Limit]
	}
	return list
}
