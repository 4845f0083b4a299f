package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/internal/testutil"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const (
	tenantID = "tenant-1"
	userID   = "user-1"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// memCache caché en memoria que cuenta los accesos.
type memCache struct {
	mu            sync.Mutex
	data          map[string]*dto.DashboardSummaryDTO
	hits          int
	invalidations int
	getErr        error
}

func newMemCache() *memCache {
	return &memCache{data: map[string]*dto.DashboardSummaryDTO{}}
}

func (c *memCache) Get(_ context.Context, tenantID string) (*dto.DashboardSummaryDTO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	s, ok := c.data[tenantID]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	c.hits++
	return s, nil
}

func (c *memCache) Set(_ context.Context, tenantID string, s *dto.DashboardSummaryDTO, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[tenantID] = s
	return nil
}

func (c *memCache) Invalidate(_ context.Context, tenantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, tenantID)
	c.invalidations++
	return nil
}

type fixture struct {
	store      *testutil.Store
	cache      *memCache
	quotations *QuotationUseCase
	orders     *OrderUseCase
	dashboard  *DashboardUseCase
	reports    *ReportUseCase
}

// newFixture: bebida y papas con stock, y un combo (2 bebidas + 1 papas) con su oferta.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	for _, p := range []*entity.Product{
		{ID: "p-cola", SKU: "100", Name: "Bebida cola", CostPrice: d("600"), SalePrice: d("1000"), Stock: d("10"), MinStock: d("2")},
		{ID: "p-chips", SKU: "200", Name: "Papas fritas", CostPrice: d("400"), SalePrice: d("700"), Stock: d("5"), MinStock: d("5")},
		{ID: "p-combo", SKU: "PACK-1", Name: "Combo partido", CostPrice: d("1600"), SalePrice: d("2400"), Stock: d("0"), IsPack: true},
	} {
		p.TenantID = tenantID
		p.Active = true
		require.NoError(t, store.Products().Create(ctx, p))
	}
	require.NoError(t, store.Offers().Create(ctx, &entity.Offer{
		ID: "o-combo", TenantID: tenantID, ProductID: "p-combo", Name: "Combo partido",
		PackCost: d("1600"), ListPrice: d("2700"), SalePrice: d("2400"), Active: true,
	}))
	for _, it := range []*entity.OfferProduct{
		{ID: "oi-1", OfferID: "o-combo", ProductID: "p-cola", Quantity: d("2"), UnitCost: d("600"), UnitPrice: d("1000")},
		{ID: "oi-2", OfferID: "o-combo", ProductID: "p-chips", Quantity: d("1"), UnitCost: d("400"), UnitPrice: d("700")},
	} {
		require.NoError(t, store.Offers().CreateItem(ctx, it))
	}
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "c-1", TenantID: tenantID, Name: "Minimarket Don Lucho"}))

	cache := newMemCache()
	log := logger.Nop()
	return &fixture{
		store:      store,
		cache:      cache,
		quotations: NewQuotationUseCase(store.TxRunner(), store.Quotations(), store.Customers(), d("19"), log),
		orders:     NewOrderUseCase(store.TxRunner(), store.Orders(), store.Customers(), cache, log),
		dashboard:  NewDashboardUseCase(store.Analytics(), store.Orders(), store.Products(), cache, time.Minute, log),
		reports:    NewReportUseCase(store.Analytics()),
	}
}

func (f *fixture) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) order(t *testing.T, items ...dto.OrderItemInput) *dto.OrderResponse {
	t.Helper()
	o, err := f.orders.Create(context.Background(), tenantID, userID, dto.CreateOrderRequest{CustomerID: "c-1", Items: items})
	require.NoError(t, err)
	return o
}

func TestQuotationCreate_NumeraYCalculaTotales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.quotations.Create(ctx, tenantID, userID, dto.CreateQuotationRequest{
		CustomerID: "c-1",
		Items: []dto.QuotationItemInput{
			{ProductID: "p-cola", Quantity: d("3"), DiscountPercent: d("10")},
			{ProductID: "p-chips", Quantity: d("2"), UnitPrice: d("650")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "COT-1", q.Number)
	assert.Equal(t, entity.QuotationDraft, q.Status)
	assert.Equal(t, "Minimarket Don Lucho", q.CustomerName)
	// 3*1000*0.9 = 2700; 2*650 = 1300
	require.Len(t, q.Items, 2)
	assert.True(t, q.Items[0].UnitPrice.Equal(d("1000")), "precio 0 toma el precio de venta")
	assert.True(t, q.Items[0].Subtotal.Equal(d("2700")))
	assert.True(t, q.NetTotal.Equal(d("4000")))
	assert.True(t, q.TaxTotal.Equal(d("760")))
	assert.True(t, q.GrandTotal.Equal(d("4760")))
	assert.Equal(t, dto.FormatDate(time.Now().AddDate(0, 0, 15)), q.ValidUntil)

	assert.True(t, f.stock(t, "p-cola").Equal(d("10")), "una cotización no mueve stock")

	q2, err := f.quotations.Create(ctx, tenantID, userID, dto.CreateQuotationRequest{
		CustomerName: "Cliente mesón",
		ValidDays:    3,
		Items:        []dto.QuotationItemInput{{ProductID: "p-combo", Quantity: d("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "COT-2", q2.Number)
	assert.Nil(t, q2.CustomerID)

	list, err := f.quotations.List(ctx, tenantID, dto.QuotationListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "COT-2", list[0].Number)
}

func TestQuotationCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	item := dto.QuotationItemInput{ProductID: "p-cola", Quantity: d("1")}

	cases := map[string]dto.CreateQuotationRequest{
		"sin ítems":           {CustomerName: "X"},
		"sin cliente":         {Items: []dto.QuotationItemInput{item}},
		"cliente inexistente": {CustomerID: "c-404", Items: []dto.QuotationItemInput{item}},
		"descuento > 100": {
			CustomerName: "X",
			Items:        []dto.QuotationItemInput{{ProductID: "p-cola", Quantity: d("1"), DiscountPercent: d("120")}},
		},
		"producto inexistente": {
			CustomerName: "X",
			Items:        []dto.QuotationItemInput{{ProductID: "p-404", Quantity: d("1")}},
		},
		"cantidad cero": {
			CustomerName: "X",
			Items:        []dto.QuotationItemInput{{ProductID: "p-cola", Quantity: d("0")}},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.quotations.Create(context.Background(), tenantID, userID, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestQuotationUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	q, err := f.quotations.Create(ctx, tenantID, userID, dto.CreateQuotationRequest{
		CustomerName: "X",
		Items:        []dto.QuotationItemInput{{ProductID: "p-cola", Quantity: d("1")}},
	})
	require.NoError(t, err)

	q, err = f.quotations.UpdateStatus(ctx, tenantID, q.ID, entity.QuotationSent)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationSent, q.Status)

	q, err = f.quotations.UpdateStatus(ctx, tenantID, q.ID, entity.QuotationAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.QuotationAccepted, q.Status)
	assert.Len(t, q.Items, 1)

	_, err = f.quotations.UpdateStatus(ctx, tenantID, q.ID, entity.QuotationSent)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.quotations.UpdateStatus(ctx, "otro-tenant", q.ID, entity.QuotationRejected)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderCreate_DescuentaStockYCongelaCosto(t *testing.T) {
	f := newFixture(t)

	o := f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("3")})

	assert.Equal(t, entity.OrderPending, o.Status)
	assert.True(t, o.Total.Equal(d("3000")))
	assert.True(t, o.Margin.Equal(d("1200")))
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(d("1000")))
	assert.True(t, f.stock(t, "p-cola").Equal(d("7")))
	assert.Equal(t, 1, f.cache.invalidations)
}

func TestOrderCreate_PackDescuentaComponentes(t *testing.T) {
	f := newFixture(t)

	o := f.order(t, dto.OrderItemInput{ProductID: "p-combo", Quantity: d("2")})

	assert.True(t, o.Total.Equal(d("4800")))
	assert.True(t, o.Margin.Equal(d("1600")), "costo congelado del pack: 2 * 1600")
	assert.True(t, f.stock(t, "p-cola").Equal(d("6")))
	assert.True(t, f.stock(t, "p-chips").Equal(d("3")))
	assert.True(t, f.stock(t, "p-combo").IsZero())
}

func TestOrderCreate_StockInsuficienteNoDejaRastro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, tenantID, userID, dto.CreateOrderRequest{
		CustomerName: "X",
		Items: []dto.OrderItemInput{
			{ProductID: "p-cola", Quantity: d("2")},
			{ProductID: "p-chips", Quantity: d("6")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Papas fritas")

	// el combo pide 2 papas más de las que quedan tras reservar las simples
	_, err = f.orders.Create(ctx, tenantID, userID, dto.CreateOrderRequest{
		CustomerName: "X",
		Items: []dto.OrderItemInput{
			{ProductID: "p-chips", Quantity: d("4")},
			{ProductID: "p-combo", Quantity: d("2")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.stock(t, "p-cola").Equal(d("10")))
	assert.True(t, f.stock(t, "p-chips").Equal(d("5")))
	list, err := f.orders.List(ctx, tenantID, dto.OrderListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, f.cache.invalidations)
}

func TestOrderCreate_RollbackSiFallaUnaLinea(t *testing.T) {
	f := newFixture(t)
	f.store.Fail("orders.CreateItem", errors.New("conexión perdida"))

	_, err := f.orders.Create(context.Background(), tenantID, userID, dto.CreateOrderRequest{
		CustomerName: "X",
		Items:        []dto.OrderItemInput{{ProductID: "p-cola", Quantity: d("1")}},
	})
	require.Error(t, err)
	assert.True(t, f.stock(t, "p-cola").Equal(d("10")))
}

func TestOrderCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	cases := map[string]dto.CreateOrderRequest{
		"sin ítems": {CustomerName: "X"},
		"producto repetido": {
			CustomerName: "X",
			Items: []dto.OrderItemInput{
				{ProductID: "p-cola", Quantity: d("1")},
				{ProductID: "p-cola", Quantity: d("2")},
			},
		},
		"precio negativo": {
			CustomerName: "X",
			Items:        []dto.OrderItemInput{{ProductID: "p-cola", Quantity: d("1"), UnitPrice: d("-1")}},
		},
		"producto inexistente": {
			CustomerName: "X",
			Items:        []dto.OrderItemInput{{ProductID: "p-404", Quantity: d("1")}},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.orders.Create(context.Background(), tenantID, userID, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestOrderUpdateStatus_CancelarReponeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t,
		dto.OrderItemInput{ProductID: "p-combo", Quantity: d("1")},
		dto.OrderItemInput{ProductID: "p-cola", Quantity: d("3")},
	)
	assert.True(t, f.stock(t, "p-cola").Equal(d("5")))
	assert.True(t, f.stock(t, "p-chips").Equal(d("4")))

	_, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.OrderPaid)
	require.NoError(t, err)
	cancelled, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)

	assert.True(t, f.stock(t, "p-cola").Equal(d("10")))
	assert.True(t, f.stock(t, "p-chips").Equal(d("5")))

	_, err = f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.OrderPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestOrderUpdateStatus_Despachado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("1")})

	for _, st := range []string{entity.OrderPaid, entity.OrderShipped} {
		_, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, st)
		require.NoError(t, err)
	}
	_, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.OrderCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un pedido despachado no se cancela")
	assert.True(t, f.stock(t, "p-cola").Equal(d("9")))

	got, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, got.Status)

	_, err = f.orders.UpdateStatus(ctx, tenantID, "no-existe", entity.OrderPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboard_ResumenYCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("3")})
	f.order(t, dto.OrderItemInput{ProductID: "p-combo", Quantity: d("1")})

	s, err := f.dashboard.GetSummary(ctx, tenantID)
	require.NoError(t, err)

	assert.Equal(t, 2, s.TodayOrders)
	assert.True(t, s.TodaySales.Equal(d("5400")))
	assert.True(t, s.TodayMargin.Equal(d("2000")))
	assert.Equal(t, 2, s.MonthlyOrders)
	assert.True(t, s.AverageTicket.Equal(d("2700")))
	require.Len(t, s.TopProducts, 2)
	assert.Equal(t, "p-cola", s.TopProducts[0].ProductID)
	assert.True(t, s.TopProducts[0].MarginPercentage.Equal(d("40")))
	assert.Len(t, s.RecentOrders, 2)
	// papas: 5 - 1 del combo = 4 <= 5; el pack no aparece aunque tenga stock 0
	require.Len(t, s.LowStock, 1)
	assert.Equal(t, "p-chips", s.LowStock[0].ID)

	again, err := f.dashboard.GetSummary(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.hits)
	assert.Equal(t, s.GeneratedAt, again.GeneratedAt)

	f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("1")})
	fresh, err := f.dashboard.GetSummary(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, 3, fresh.TodayOrders, "crear un pedido invalida la caché")
}

func TestDashboard_CacheCaidaNoFalla(t *testing.T) {
	f := newFixture(t)
	f.cache.getErr = errors.New("redis: connection refused")
	f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("1")})

	s, err := f.dashboard.GetSummary(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TodayOrders)
}

func TestDashboard_ExcluyeCancelados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("2")})
	_, err := f.orders.UpdateStatus(ctx, tenantID, o.ID, entity.OrderCancelled)
	require.NoError(t, err)

	s, err := f.dashboard.GetSummary(ctx, tenantID)
	require.NoError(t, err)
	assert.Zero(t, s.TodayOrders)
	assert.True(t, s.AverageTicket.IsZero())
	assert.Empty(t, s.TopProducts)
	assert.Len(t, s.RecentOrders, 1, "los recientes sí muestran el cancelado")
}

func TestMarginsReport_RankingPareto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.order(t, dto.OrderItemInput{ProductID: "p-cola", Quantity: d("3")})
	f.order(t, dto.OrderItemInput{ProductID: "p-combo", Quantity: d("1")})
	f.order(t, dto.OrderItemInput{ProductID: "p-chips", Quantity: d("1")})

	now := time.Now()
	r, err := f.reports.Margins(ctx, tenantID, dto.MarginsReportRequest{
		From: dto.FormatDate(now.AddDate(0, 0, -1)),
		To:   dto.FormatDate(now.AddDate(0, 0, 1)),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, r.OrderCount)
	assert.True(t, r.TotalRevenue.Equal(d("6100")))
	assert.True(t, r.TotalMargin.Equal(d("2300")))
	assert.True(t, r.OverallMarginPct.Equal(d("37.7")))

	require.Len(t, r.Ranking, 3)
	assert.Equal(t, "p-cola", r.Ranking[0].ProductID)
	assert.True(t, r.Ranking[0].RevenuePct.Equal(d("49.18")))
	assert.True(t, r.Ranking[1].CumulativeRevenuePct.Equal(d("88.52")))
	assert.False(t, r.Ranking[1].IsTopPareto, "el que cruza el 80% queda fuera")
	assert.False(t, r.Ranking[2].IsTopPareto)
	assert.Len(t, r.ParetoProducts, 1)
}

func TestBuildRanking_LimiteDelOchentaPorCiento(t *testing.T) {
	rows := func(revenues ...string) []repository.TopProduct {
		out := make([]repository.TopProduct, 0, len(revenues))
		for i, rev := range revenues {
			out = append(out, repository.TopProduct{ProductID: string(rune('a' + i)), Revenue: d(rev), Cost: decimal.Zero})
		}
		return out
	}
	pareto := func(ranking []dto.ProductRankingDTO) []bool {
		out := make([]bool, 0, len(ranking))
		for _, r := range ranking {
			out = append(out, r.IsTopPareto)
		}
		return out
	}
	total := d("100")

	exact := buildRanking(rows("50", "30", "20"), total)
	assert.True(t, exact[1].CumulativeRevenuePct.Equal(d("80")))
	assert.Equal(t, []bool{true, true, false}, pareto(exact), "80% exacto entra")

	crossing := buildRanking(rows("50", "35", "15"), total)
	assert.True(t, crossing[1].CumulativeRevenuePct.Equal(d("85")))
	assert.Equal(t, []bool{true, false, false}, pareto(crossing))

	dominant := buildRanking(rows("90", "10"), total)
	assert.Equal(t, []bool{true, false}, pareto(dominant), "el primero siempre entra")

	assert.Empty(t, buildRanking(nil, total))
}

func TestMarginsReport_RangoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.reports.Margins(context.Background(), tenantID, dto.MarginsReportRequest{From: "2026-05-10", To: "2026-05-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.reports.Margins(context.Background(), tenantID, dto.MarginsReportRequest{From: "10/05/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
