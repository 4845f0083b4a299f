package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/auth"
	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/testutil"
)

const tenantID = "tenant-1"

func newStore(t *testing.T) *testutil.Store {
	t.Helper()
	store := testutil.NewStore()
	require.NoError(t, store.Tenants().Create(context.Background(), &entity.Tenant{
		ID: tenantID, Name: "Almacén Don Pepe", Status: entity.TenantActive, CreatedAt: time.Now(),
	}))
	return store
}

type fakeExporter struct {
	tenant   string
	products []*entity.Product
}

func (f *fakeExporter) ExportProducts(tenantName string, products []*entity.Product) ([]byte, error) {
	f.tenant = tenantName
	f.products = products
	return []byte("xlsx"), nil
}

func TestTenantUseCase_Create(t *testing.T) {
	store := testutil.NewStore()
	authUC := auth.NewAuthUseCase(store.Users(), store.Tenants(), auth.JWTConfig{Secret: "s", ExpMinutes: 5})
	uc := NewTenantUseCase(store.Tenants(), store.Users(), authUC)
	modules := NewModuleService(store.Tenants())
	ctx := context.Background()

	resp, err := uc.Create(ctx, dto.CreateTenantRequest{
		Name: "Minimarket Los Aromos", TaxID: "76.123.456-7",
		AdminName: "Ana", AdminEmail: "ana@aromos.cl", AdminPassword: "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Admin.Role)
	assert.Equal(t, resp.Tenant.ID, resp.Admin.TenantID)
	assert.ElementsMatch(t, entity.AllModules, resp.Tenant.Modules)

	for _, m := range entity.AllModules {
		ok, err := modules.HasActiveModule(ctx, resp.Tenant.ID, m)
		require.NoError(t, err)
		assert.True(t, ok, m)
	}

	got, err := uc.GetByID(ctx, resp.Tenant.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, entity.AllModules, got.Modules)

	t.Run("email de admin ya registrado no crea tenant", func(t *testing.T) {
		_, err := uc.Create(ctx, dto.CreateTenantRequest{Name: "Otro", AdminEmail: "ana@aromos.cl", AdminPassword: "secreto123"})
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
		list, err := uc.List(ctx, dto.PageRequest{})
		require.NoError(t, err)
		assert.Len(t, list.Items, 1)
	})
}

func TestModuleService_ArgumentosVacios(t *testing.T) {
	s := NewModuleService(testutil.NewStore().Tenants())
	_, err := s.HasActiveModule(context.Background(), "", entity.ModuleSales)
	assert.Error(t, err)
}

func TestCategoryUseCase_NombreUnico(t *testing.T) {
	store := newStore(t)
	uc := NewCategoryUseCase(store.Categories())
	ctx := context.Background()

	_, err := uc.Create(ctx, tenantID, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, tenantID, dto.CategoryRequest{Name: "bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, "otro-tenant", dto.CategoryRequest{Name: "Bebidas"})
	assert.NoError(t, err, "el nombre es único solo dentro del tenant")

	_, err = uc.Create(ctx, tenantID, dto.CategoryRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSupplierUseCase_Codigo(t *testing.T) {
	store := newStore(t)
	uc := NewSupplierUseCase(store.Suppliers())
	ctx := context.Background()

	s1, err := uc.Create(ctx, tenantID, dto.SupplierRequest{Name: "Distribuidora Ñuble Ltda."})
	require.NoError(t, err)
	assert.Equal(t, "DNL", s1.Code)

	s2, err := uc.Create(ctx, tenantID, dto.SupplierRequest{Name: "Dulces Nacionales Limitada"})
	require.NoError(t, err)
	assert.Equal(t, "DNL2", s2.Code, "código derivado en uso recibe sufijo")

	_, err = uc.Create(ctx, tenantID, dto.SupplierRequest{Name: "Tercero", Code: "dnl"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "código explícito en uso se rechaza")

	upd, err := uc.Update(ctx, tenantID, s1.ID, dto.SupplierRequest{Name: "Distribuidora Ñuble", Code: "DNL"})
	require.NoError(t, err)
	assert.Equal(t, "DNL", upd.Code, "conservar el propio código no es conflicto")

	_, err = uc.GetByID(ctx, "otro-tenant", s1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func newProductUseCase(store *testutil.Store, exp *fakeExporter) *ProductUseCase {
	return NewProductUseCase(store.Products(), store.Categories(), store.Suppliers(), store.Tenants(), exp)
}

func TestProductUseCase_Create(t *testing.T) {
	store := newStore(t)
	uc := newProductUseCase(store, nil)
	ctx := context.Background()

	p, err := uc.Create(ctx, tenantID, dto.CreateProductRequest{
		SKU: "7801234567890", Name: "Leche entera 1L",
		CostPrice: decimal.NewFromInt(800), SalePrice: decimal.NewFromInt(1000), MinStock: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	assert.True(t, p.Stock.IsZero())
	assert.True(t, p.Margin.Equal(decimal.NewFromInt(20)))
	assert.True(t, p.LowStock)

	_, err = uc.Create(ctx, tenantID, dto.CreateProductRequest{SKU: "7801234567890", Name: "Repetido"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, tenantID, dto.CreateProductRequest{SKU: "X1", Name: "Sin categoría válida", CategoryID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, tenantID, dto.CreateProductRequest{SKU: "X2", Name: "Negativo", SalePrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_UpdateNoTocaStockNiCosto(t *testing.T) {
	store := newStore(t)
	uc := newProductUseCase(store, nil)
	ctx := context.Background()
	cat, err := NewCategoryUseCase(store.Categories()).Create(ctx, tenantID, dto.CategoryRequest{Name: "Lácteos"})
	require.NoError(t, err)

	p, err := uc.Create(ctx, tenantID, dto.CreateProductRequest{SKU: "A1", Name: "Yogurt", CostPrice: decimal.NewFromInt(300), SalePrice: decimal.NewFromInt(450)})
	require.NoError(t, err)
	require.NoError(t, store.Products().AddStock(ctx, tenantID, p.ID, decimal.NewFromInt(12)))

	price := decimal.NewFromInt(500)
	empty := ""
	upd, err := uc.Update(ctx, tenantID, p.ID, dto.UpdateProductRequest{SalePrice: &price, CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.True(t, upd.SalePrice.Equal(price))
	assert.Equal(t, cat.ID, *upd.CategoryID)

	got, err := uc.GetByID(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(12)))
	assert.True(t, got.CostPrice.Equal(decimal.NewFromInt(300)))

	upd, err = uc.Update(ctx, tenantID, p.ID, dto.UpdateProductRequest{CategoryID: &empty})
	require.NoError(t, err)
	assert.Nil(t, upd.CategoryID)
}

func TestProductUseCase_ListYExport(t *testing.T) {
	store := newStore(t)
	exp := &fakeExporter{}
	uc := newProductUseCase(store, exp)
	ctx := context.Background()
	for _, sku := range []string{"B1", "B2", "B3"} {
		_, err := uc.Create(ctx, tenantID, dto.CreateProductRequest{SKU: sku, Name: "Bebida " + sku, MinStock: decimal.NewFromInt(1)})
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, tenantID, dto.ProductListRequest{Search: "b2"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "B2", list.Items[0].SKU)
	assert.Equal(t, 20, list.Page.Limit)

	out, err := uc.Export(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), out)
	assert.Equal(t, "Almacén Don Pepe", exp.tenant)
	assert.Len(t, exp.products, 3)
}

func TestProductUseCase_DeleteReferenciado(t *testing.T) {
	store := newStore(t)
	uc := newProductUseCase(store, nil)
	ctx := context.Background()
	p, err := uc.Create(ctx, tenantID, dto.CreateProductRequest{SKU: "C1", Name: "Café"})
	require.NoError(t, err)
	require.NoError(t, store.Consumptions().Create(ctx, &entity.InternalConsumption{
		ID: "c1", TenantID: tenantID, ProductID: p.ID, Quantity: decimal.NewFromInt(1), Date: time.Now(),
	}))

	assert.ErrorIs(t, uc.Delete(ctx, tenantID, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, tenantID, "no-existe"), domain.ErrNotFound)
}

func TestProductUseCase_UpdatePackSoloDatosPropios(t *testing.T) {
	store := newStore(t)
	uc := newProductUseCase(store, nil)
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "p-pack", TenantID: tenantID, SKU: "PACK-1", Name: "Pack once",
		CostPrice: decimal.NewFromInt(1200), SalePrice: decimal.NewFromInt(1800), IsPack: true, Active: true,
	}))

	price := decimal.NewFromInt(1)
	inactive := false
	name := "Otro"
	for label, in := range map[string]dto.UpdateProductRequest{
		"precio": {SalePrice: &price},
		"estado": {Active: &inactive},
		"nombre": {Name: &name},
	} {
		_, err := uc.Update(ctx, tenantID, "p-pack", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, label)
	}

	desc := "café + medialuna"
	minStock := decimal.NewFromInt(2)
	upd, err := uc.Update(ctx, tenantID, "p-pack", dto.UpdateProductRequest{Description: &desc, MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, desc, upd.Description)

	p, err := store.Products().GetByID(ctx, tenantID, "p-pack")
	require.NoError(t, err)
	assert.True(t, p.SalePrice.Equal(decimal.NewFromInt(1800)))
	assert.True(t, p.Active)
	assert.Equal(t, "Pack once", p.Name)
}

func TestCustomerUseCase_CRUD(t *testing.T) {
	store := newStore(t)
	uc := NewCustomerUseCase(store.Customers())
	ctx := context.Background()

	c, err := uc.Create(ctx, tenantID, dto.CustomerRequest{Name: "Restaurant El Buen Sabor", TaxID: "77.000.111-2"})
	require.NoError(t, err)

	upd, err := uc.Update(ctx, tenantID, c.ID, dto.CustomerRequest{Name: "El Buen Sabor SpA", Phone: "+56911112222"})
	require.NoError(t, err)
	assert.Equal(t, "El Buen Sabor SpA", upd.Name)

	list, err := uc.List(ctx, tenantID, "sabor", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, uc.Delete(ctx, tenantID, c.ID))
	_, err = uc.GetByID(ctx, tenantID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
