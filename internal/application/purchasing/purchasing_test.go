package purchasing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/testutil"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const (
	tenantID   = "tenant-1"
	supplierID = "sup-1"
	userID     = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *testutil.Store
	invoices *InvoiceUseCase
	orders   *OrderUseCase
	renderer *fakeRenderer
	milk     *entity.Product
}

type fakeRenderer struct {
	doc ports.PurchaseOrderDocument
}

func (f *fakeRenderer) RenderPurchaseOrder(doc ports.PurchaseOrderDocument) ([]byte, error) {
	f.doc = doc
	return []byte("%PDF-1.4"), nil
}

func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	require.NoError(t, store.Tenants().Create(ctx, &entity.Tenant{ID: tenantID, Name: "Almacén Rosita", Status: entity.TenantActive}))
	require.NoError(t, store.Suppliers().Create(ctx, &entity.Supplier{ID: supplierID, TenantID: tenantID, Code: "DCL", Name: "Distribuidora Central"}))
	milk := &entity.Product{
		ID: "p-milk", TenantID: tenantID, SKU: "780100", Name: "Leche 1L",
		CostPrice: d("700"), SalePrice: d("990"), Stock: d("4"), Active: true,
	}
	require.NoError(t, store.Products().Create(ctx, milk))

	renderer := &fakeRenderer{}
	return &fixture{
		store:    store,
		invoices: NewInvoiceUseCase(store.TxRunner(), store.PurchaseInvoices(), store.Categories(), d("19"), logger.Nop()),
		orders:   NewOrderUseCase(store.TxRunner(), store.PurchaseOrders(), store.Suppliers(), store.Tenants(), renderer, logger.Nop()),
		renderer: renderer,
		milk:     milk,
	}
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func invoiceRequest() dto.RegisterPurchaseInvoiceRequest {
	return dto.RegisterPurchaseInvoiceRequest{
		SupplierID:    supplierID,
		InvoiceNumber: "F-1001",
		InvoiceDate:   "2026-03-02",
		Items: []dto.PurchaseInvoiceItemInput{
			{ProductID: "p-milk", Quantity: d("10"), UnitCost: d("750"), SalePrice: d("1000")},
			{SKU: "780200", Name: "Mantequilla 250g", Quantity: d("6"), UnitCost: d("1500"), SalePrice: d("2000")},
		},
	}
}

func TestInvoiceRegister_ActualizaStockYPrecios(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	inv, err := f.invoices.Register(ctx, tenantID, userID, invoiceRequest())
	require.NoError(t, err)

	// 10*750 + 6*1500 = 16500; IVA 19% = 3135
	assert.True(t, inv.NetTotal.Equal(d("16500")))
	assert.True(t, inv.TaxTotal.Equal(d("3135")))
	assert.True(t, inv.GrandTotal.Equal(d("19635")))
	assert.Equal(t, "2026-03-02", inv.InvoiceDate)
	require.Len(t, inv.Items, 2)

	milkLine := inv.Items[0]
	assert.True(t, milkLine.PreviousCost.Equal(d("700")))
	assert.True(t, milkLine.NewCost.Equal(d("750")))
	assert.True(t, milkLine.Margin.Equal(d("25")))
	assert.False(t, milkLine.ProductCreated)

	newLine := inv.Items[1]
	assert.True(t, newLine.ProductCreated)
	assert.True(t, newLine.PreviousCost.IsZero())

	milk := f.product(t, "p-milk")
	assert.True(t, milk.Stock.Equal(d("14")))
	assert.True(t, milk.CostPrice.Equal(d("750")))
	assert.True(t, milk.SalePrice.Equal(d("1000")))

	butter, err := f.store.Products().GetBySKU(ctx, tenantID, "780200")
	require.NoError(t, err)
	require.NotNil(t, butter)
	assert.True(t, butter.Stock.Equal(d("6")))
	assert.Equal(t, supplierID, *butter.SupplierID)

	got, err := f.invoices.GetByID(ctx, tenantID, inv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestInvoiceRegister_PrecioCeroConservaVenta(t *testing.T) {
	f := setup(t)
	in := invoiceRequest()
	in.Items = in.Items[:1]
	in.Items[0].SalePrice = decimal.Zero

	inv, err := f.invoices.Register(context.Background(), tenantID, userID, in)
	require.NoError(t, err)
	assert.True(t, inv.Items[0].SalePrice.Equal(d("990")))
	assert.True(t, f.product(t, "p-milk").SalePrice.Equal(d("990")))
}

func TestInvoiceRegister_RollbackCompleto(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	boom := errors.New("conexión perdida")
	f.store.Fail("products.AddStock", boom)

	_, err := f.invoices.Register(ctx, tenantID, userID, invoiceRequest())
	require.ErrorIs(t, err, boom)

	milk := f.product(t, "p-milk")
	assert.True(t, milk.Stock.Equal(d("4")), "stock intacto")
	assert.True(t, milk.CostPrice.Equal(d("700")), "costo intacto")

	butter, err := f.store.Products().GetBySKU(ctx, tenantID, "780200")
	require.NoError(t, err)
	assert.Nil(t, butter, "el producto nuevo no debe quedar creado")

	list, err := f.invoices.List(ctx, tenantID, dto.PurchaseInvoiceListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvoiceRegister_Validaciones(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	cases := map[string]func(r *dto.RegisterPurchaseInvoiceRequest){
		"sin líneas": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.Items = nil
		},
		"cantidad cero": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.Items[0].Quantity = decimal.Zero
		},
		"costo negativo": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.Items[0].UnitCost = d("-1")
		},
		"sin producto ni sku": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.Items[0].ProductID = ""
		},
		"proveedor inexistente": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.SupplierID = "otro"
		},
		"sku nuevo sin nombre": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.Items[1].Name = ""
		},
		"fecha inválida": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.InvoiceDate = "02/03/2026"
		},
		"categoría inexistente": func(r *dto.RegisterPurchaseInvoiceRequest) {
			r.Items[1].CategoryID = "cat-x"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := invoiceRequest()
			mutate(&in)
			_, err := f.invoices.Register(ctx, tenantID, userID, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.True(t, f.product(t, "p-milk").Stock.Equal(d("4")))
}

func TestInvoiceRegister_NumeroDuplicado(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.invoices.Register(ctx, tenantID, userID, invoiceRequest())
	require.NoError(t, err)

	_, err = f.invoices.Register(ctx, tenantID, userID, invoiceRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.True(t, f.product(t, "p-milk").Stock.Equal(d("14")), "la segunda factura no suma stock")
}

func TestInvoiceList_RangoDeFechas(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for i, date := range []string{"2026-01-10", "2026-02-10", "2026-03-10"} {
		in := invoiceRequest()
		in.Items = in.Items[:1]
		in.InvoiceNumber = "F-" + string(rune('A'+i))
		in.InvoiceDate = date
		_, err := f.invoices.Register(ctx, tenantID, userID, in)
		require.NoError(t, err)
	}

	list, err := f.invoices.List(ctx, tenantID, dto.PurchaseInvoiceListRequest{From: "2026-02-01", To: "2026-03-31"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.invoices.List(ctx, tenantID, dto.PurchaseInvoiceListRequest{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func orderRequest() dto.RegisterPurchaseOrderRequest {
	return dto.RegisterPurchaseOrderRequest{
		SupplierID:   supplierID,
		ExpectedDate: "2026-04-01",
		Items:        []dto.PurchaseOrderItemInput{{ProductID: "p-milk", Quantity: d("24"), UnitCost: d("720")}},
	}
}

func TestOrderRegister_NumeracionYCosto(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.orders.Register(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)
	second, err := f.orders.Register(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	assert.Equal(t, "OC-DCL-1", first.Number)
	assert.Equal(t, "OC-DCL-2", second.Number)
	assert.Equal(t, entity.PurchaseOrderPending, first.Status)
	assert.True(t, first.Total.Equal(d("17280")))
	assert.Equal(t, "2026-04-01", first.ExpectedDate)
	assert.Equal(t, "Distribuidora Central", first.SupplierName)

	milk := f.product(t, "p-milk")
	assert.True(t, milk.CostPrice.Equal(d("720")), "la OC actualiza el costo")
	assert.True(t, milk.Stock.Equal(d("4")), "la OC no toca stock")
}

func TestOrderRegister_Concurrente(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := f.orders.Register(ctx, tenantID, userID, orderRequest())
			if assert.NoError(t, err) {
				numbers <- o.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestOrderRegister_RollbackSinNumeroConsumido(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	in := orderRequest()
	in.Items = append(in.Items, dto.PurchaseOrderItemInput{ProductID: "no-existe", Quantity: d("1"), UnitCost: d("1")})

	_, err := f.orders.Register(ctx, tenantID, userID, in)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.product(t, "p-milk").CostPrice.Equal(d("700")))

	o, err := f.orders.Register(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)
	assert.Equal(t, "OC-DCL-1", o.Number)
}

func TestOrderRegister_ProductoRepetido(t *testing.T) {
	f := setup(t)
	in := orderRequest()
	in.Items = append(in.Items, in.Items[0])

	_, err := f.orders.Register(context.Background(), tenantID, userID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPacksNoSeCompran(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.store.Products().Create(ctx, &entity.Product{
		ID: "p-pack", TenantID: tenantID, SKU: "PACK-1", Name: "Pack desayuno",
		CostPrice: d("1000"), SalePrice: d("1500"), Stock: decimal.Zero, IsPack: true, Active: true,
	}))

	byID := invoiceRequest()
	byID.Items = []dto.PurchaseInvoiceItemInput{{ProductID: "p-pack", Quantity: d("5"), UnitCost: d("1"), SalePrice: d("2")}}
	_, err := f.invoices.Register(ctx, tenantID, userID, byID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	bySKU := invoiceRequest()
	bySKU.InvoiceNumber = "F-1002"
	bySKU.Items = append(bySKU.Items[:1], dto.PurchaseInvoiceItemInput{SKU: "PACK-1", Quantity: d("5"), UnitCost: d("1")})
	_, err = f.invoices.Register(ctx, tenantID, userID, bySKU)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.product(t, "p-milk").Stock.Equal(d("4")), "la línea válida también se revierte")

	po := orderRequest()
	po.Items = append(po.Items, dto.PurchaseOrderItemInput{ProductID: "p-pack", Quantity: d("1"), UnitCost: d("3")})
	_, err = f.orders.Register(ctx, tenantID, userID, po)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pack := f.product(t, "p-pack")
	assert.True(t, pack.Stock.IsZero())
	assert.True(t, pack.CostPrice.Equal(d("1000")))
	assert.True(t, f.product(t, "p-milk").CostPrice.Equal(d("700")))
}

func TestOrderUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, err := f.orders.Register(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	_, err = f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.PurchaseOrderReceived)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending no puede pasar directo a received")

	upd, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.PurchaseOrderApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderApproved, upd.Status)

	upd, err = f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.PurchaseOrderReceived)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, upd.Status)
	assert.True(t, f.product(t, "p-milk").Stock.Equal(d("4")), "recibir no modifica stock")

	_, err = f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.PurchaseOrderCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.orders.UpdateStatus(ctx, "otro-tenant", o.ID, entity.PurchaseOrderCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderListYPDF(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	o, err := f.orders.Register(ctx, tenantID, userID, orderRequest())
	require.NoError(t, err)

	list, err := f.orders.List(ctx, tenantID, dto.PurchaseOrderListRequest{Status: entity.PurchaseOrderPending})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Distribuidora Central", list[0].SupplierName)

	pdf, filename, err := f.orders.RenderPDF(ctx, tenantID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "OC-DCL-1.pdf", filename)
	assert.Equal(t, "Almacén Rosita", f.renderer.doc.Tenant.Name)
	require.Len(t, f.renderer.doc.Items, 1)
	assert.Equal(t, "Leche 1L", f.renderer.doc.Items[0].ProductName)
}
