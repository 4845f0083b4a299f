package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/testutil"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const tenantID = "tenant-1"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(t *testing.T) *testutil.Store {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore()
	for _, p := range []*entity.Product{
		{ID: "p-chips", SKU: "100", Name: "Papas fritas", CostPrice: d("600"), SalePrice: d("1000"), Stock: d("20"), MinStock: d("5")},
		{ID: "p-soda", SKU: "200", Name: "Bebida 1.5L", CostPrice: d("900"), SalePrice: d("1500"), Stock: d("3"), MinStock: d("6")},
		{ID: "p-dip", SKU: "300", Name: "Salsa", CostPrice: d("400"), SalePrice: d("800"), Stock: d("0"), MinStock: d("2")},
	} {
		p.TenantID = tenantID
		p.Active = true
		require.NoError(t, store.Products().Create(ctx, p))
	}
	return store
}

func stockOf(t *testing.T, store *testutil.Store, id string) decimal.Decimal {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func comboRequest() dto.OfferRequest {
	return dto.OfferRequest{
		SKU:  "PACK-01",
		Name: "Combo once",
		Items: []dto.OfferItemInput{
			{ProductID: "p-chips", Quantity: d("2"), DiscountPercent: d("10")},
			{ProductID: "p-soda", Quantity: d("1"), DiscountPercent: d("0")},
		},
	}
}

func TestOfferCreate_CalculaPreciosYCreaPack(t *testing.T) {
	store := newStore(t)
	uc := NewOfferUseCase(store.TxRunner(), store.Offers(), store.Products(), logger.Nop())
	ctx := context.Background()

	offer, err := uc.Create(ctx, tenantID, comboRequest())
	require.NoError(t, err)

	// costo 2*600 + 900 = 2100; lista 2*1000 + 1500 = 3500; con descuento 1800 + 1500 = 3300
	assert.True(t, offer.PackCost.Equal(d("2100")))
	assert.True(t, offer.ListPrice.Equal(d("3500")))
	assert.True(t, offer.SalePrice.Equal(d("3300")))
	assert.True(t, offer.Margin.Equal(d("36.36")))
	assert.Equal(t, "PACK-01", offer.SKU)
	require.Len(t, offer.Items, 2)
	assert.True(t, offer.Items[0].LineTotal.Equal(d("1800")))

	pack, err := store.Products().GetByID(ctx, tenantID, offer.ProductID)
	require.NoError(t, err)
	assert.True(t, pack.IsPack)
	assert.True(t, pack.Stock.IsZero())
	assert.True(t, pack.CostPrice.Equal(d("2100")))
	assert.True(t, pack.SalePrice.Equal(d("3300")))

	got, err := uc.GetByID(ctx, tenantID, offer.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "PACK-01", got.SKU)
}

func TestOfferCreate_Validaciones(t *testing.T) {
	store := newStore(t)
	uc := NewOfferUseCase(store.TxRunner(), store.Offers(), store.Products(), logger.Nop())
	ctx := context.Background()

	in := comboRequest()
	in.Items[0].DiscountPercent = d("120")
	_, err := uc.Create(ctx, tenantID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = comboRequest()
	in.Items[1].ProductID = "p-chips"
	_, err = uc.Create(ctx, tenantID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "componente repetido")

	in = comboRequest()
	in.SKU = "100"
	_, err = uc.Create(ctx, tenantID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	first, err := uc.Create(ctx, tenantID, comboRequest())
	require.NoError(t, err)
	nested := comboRequest()
	nested.SKU = "PACK-02"
	nested.Items = []dto.OfferItemInput{{ProductID: first.ProductID, Quantity: d("1")}}
	_, err = uc.Create(ctx, tenantID, nested)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un pack no puede contener packs")
}

func TestOfferCreate_RollbackSinPackHuerfano(t *testing.T) {
	store := newStore(t)
	uc := NewOfferUseCase(store.TxRunner(), store.Offers(), store.Products(), logger.Nop())
	ctx := context.Background()
	boom := errors.New("fallo de escritura")
	store.Fail("offers.CreateItem", boom)

	_, err := uc.Create(ctx, tenantID, comboRequest())
	require.ErrorIs(t, err, boom)

	p, err := store.Products().GetBySKU(ctx, tenantID, "PACK-01")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestOfferUpdate_ReemplazaComponentes(t *testing.T) {
	store := newStore(t)
	uc := NewOfferUseCase(store.TxRunner(), store.Offers(), store.Products(), logger.Nop())
	ctx := context.Background()
	offer, err := uc.Create(ctx, tenantID, comboRequest())
	require.NoError(t, err)

	price := d("2500")
	upd, err := uc.Update(ctx, tenantID, offer.ID, dto.OfferRequest{
		Name:      "Combo picoteo",
		SalePrice: &price,
		Items: []dto.OfferItemInput{
			{ProductID: "p-chips", Quantity: d("1")},
			{ProductID: "p-dip", Quantity: d("2"), DiscountPercent: d("50")},
		},
	})
	require.NoError(t, err)
	assert.True(t, upd.PackCost.Equal(d("1400")))
	assert.True(t, upd.SalePrice.Equal(price))
	assert.True(t, upd.Margin.Equal(d("44")))

	items, err := store.Offers().ListItems(ctx, offer.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []string{items[0].ProductID, items[1].ProductID}
	assert.ElementsMatch(t, []string{"p-chips", "p-dip"}, ids)

	pack, err := store.Products().GetByID(ctx, tenantID, offer.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Combo picoteo", pack.Name)
	assert.True(t, pack.CostPrice.Equal(d("1400")))
	assert.True(t, pack.SalePrice.Equal(price))
}

func TestOfferDelete(t *testing.T) {
	store := newStore(t)
	uc := NewOfferUseCase(store.TxRunner(), store.Offers(), store.Products(), logger.Nop())
	ctx := context.Background()
	offer, err := uc.Create(ctx, tenantID, comboRequest())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, tenantID, offer.ID))

	_, err = uc.GetByID(ctx, tenantID, offer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	p, err := store.Products().GetByID(ctx, tenantID, offer.ProductID)
	require.NoError(t, err)
	assert.Nil(t, p, "el producto pack se elimina con la oferta")

	require.NoError(t, store.Products().Delete(ctx, tenantID, "p-chips"), "el componente queda libre de referencias")
}

func newConsumptionUC(store *testutil.Store) *ConsumptionUseCase {
	return NewConsumptionUseCase(store.TxRunner(), store.Consumptions(), logger.Nop())
}

func TestConsumptionCreate(t *testing.T) {
	store := newStore(t)
	uc := newConsumptionUC(store)
	ctx := context.Background()

	c, err := uc.Create(ctx, tenantID, "user-1", dto.ConsumptionRequest{ProductID: "p-chips", Quantity: d("4"), Reason: "merma", Date: "2026-05-04"})
	require.NoError(t, err)
	assert.True(t, c.UnitCost.Equal(d("600")))
	assert.True(t, c.TotalCost.Equal(d("2400")))
	assert.Equal(t, "2026-05-04", c.Date)
	assert.True(t, stockOf(t, store, "p-chips").Equal(d("16")))

	_, err = uc.Create(ctx, tenantID, "user-1", dto.ConsumptionRequest{ProductID: "p-soda", Quantity: d("5")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Bebida 1.5L")
	assert.True(t, stockOf(t, store, "p-soda").Equal(d("3")))

	_, err = uc.Create(ctx, tenantID, "user-1", dto.ConsumptionRequest{ProductID: "p-chips", Quantity: d("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConsumptionUpdate_MismoProducto(t *testing.T) {
	store := newStore(t)
	uc := newConsumptionUC(store)
	ctx := context.Background()
	c, err := uc.Create(ctx, tenantID, "", dto.ConsumptionRequest{ProductID: "p-chips", Quantity: d("5")})
	require.NoError(t, err)
	require.True(t, stockOf(t, store, "p-chips").Equal(d("15")))

	upd, err := uc.Update(ctx, tenantID, c.ID, dto.ConsumptionRequest{Quantity: d("8")})
	require.NoError(t, err)
	assert.True(t, upd.TotalCost.Equal(d("4800")))
	assert.True(t, stockOf(t, store, "p-chips").Equal(d("12")), "delta +3")

	_, err = uc.Update(ctx, tenantID, c.ID, dto.ConsumptionRequest{Quantity: d("2")})
	require.NoError(t, err)
	assert.True(t, stockOf(t, store, "p-chips").Equal(d("18")), "delta -6 repone")

	_, err = uc.Update(ctx, tenantID, c.ID, dto.ConsumptionRequest{Quantity: d("25")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "delta 23 > stock 18")
	assert.True(t, stockOf(t, store, "p-chips").Equal(d("18")))
}

func TestConsumptionUpdate_CambioDeProducto(t *testing.T) {
	store := newStore(t)
	uc := newConsumptionUC(store)
	ctx := context.Background()
	c, err := uc.Create(ctx, tenantID, "", dto.ConsumptionRequest{ProductID: "p-chips", Quantity: d("5")})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, tenantID, c.ID, dto.ConsumptionRequest{ProductID: "p-soda", Quantity: d("2")})
	require.NoError(t, err)
	assert.Equal(t, "p-soda", upd.ProductID)
	assert.True(t, upd.UnitCost.Equal(d("900")))
	assert.True(t, stockOf(t, store, "p-chips").Equal(d("20")), "se repone el producto anterior")
	assert.True(t, stockOf(t, store, "p-soda").Equal(d("1")))

	_, err = uc.Update(ctx, tenantID, c.ID, dto.ConsumptionRequest{ProductID: "p-dip", Quantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockOf(t, store, "p-soda").Equal(d("1")), "rollback deja el stock como estaba")
}

func TestConsumptionDelete_ReponeStock(t *testing.T) {
	store := newStore(t)
	uc := newConsumptionUC(store)
	ctx := context.Background()
	c, err := uc.Create(ctx, tenantID, "", dto.ConsumptionRequest{ProductID: "p-soda", Quantity: d("3")})
	require.NoError(t, err)
	require.True(t, stockOf(t, store, "p-soda").IsZero())

	require.NoError(t, uc.Delete(ctx, tenantID, c.ID))
	assert.True(t, stockOf(t, store, "p-soda").Equal(d("3")))
	assert.ErrorIs(t, uc.Delete(ctx, tenantID, c.ID), domain.ErrNotFound)
}

func TestConsumptionList(t *testing.T) {
	store := newStore(t)
	uc := newConsumptionUC(store)
	ctx := context.Background()
	for _, date := range []string{"2026-05-01", "2026-05-10", "2026-06-01"} {
		_, err := uc.Create(ctx, tenantID, "", dto.ConsumptionRequest{ProductID: "p-chips", Quantity: d("1"), Date: date})
		require.NoError(t, err)
	}
	list, err := uc.List(ctx, tenantID, dto.ConsumptionListRequest{From: "2026-05-01", To: "2026-05-31"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "2026-05-10", list[0].Date)
}

func TestReplenishmentSuggestions(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Orders().Create(ctx, &entity.Order{
		ID: "o1", TenantID: tenantID, Status: entity.OrderPaid, Total: d("1500"), CostTotal: d("900"), CreatedAt: time.Now(),
	}))
	require.NoError(t, store.Orders().CreateItem(ctx, &entity.OrderItem{
		ID: "oi1", OrderID: "o1", ProductID: "p-soda", Quantity: d("1"), UnitPrice: d("1500"), UnitCost: d("900"), Subtotal: d("1500"),
	}))
	uc := NewReplenishmentUseCase(store.Products(), store.Analytics(), logger.Nop())

	list, err := uc.Suggestions(ctx, tenantID, "")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// salsa: margen 50% sin historial; bebida: margen histórico 40%
	assert.Equal(t, "p-dip", list[0].ProductID)
	assert.Equal(t, 1, list[0].Priority)
	assert.True(t, list[0].SuggestedOrderQty.Equal(d("3")))
	assert.Equal(t, "p-soda", list[1].ProductID)
	assert.True(t, list[1].SuggestedOrderQty.Equal(d("6")))
	assert.True(t, list[1].UnitsSoldLast90Days.Equal(d("1")))
	assert.True(t, list[1].EstimatedOrderCost.Equal(d("5400")))
}
