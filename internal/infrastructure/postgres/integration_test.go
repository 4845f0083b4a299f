package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/migrations"
)

// testPool conecta a TEST_DATABASE_URL y aplica el esquema; sin la variable el test se omite.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = migrations.Apply(ctx, pool)
	require.NoError(t, err)
	return pool
}

func seedTenant(t *testing.T, pool *pgxpool.Pool) string {
	t.Helper()
	now := time.Now()
	tenant := &entity.Tenant{ID: uuid.New().String(), Name: "Tienda Test", Status: entity.TenantActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewTenantRepository(pool).Create(context.Background(), tenant))
	return tenant.ID
}

func newProduct(tenantID, sku string, stock int64) *entity.Product {
	now := time.Now()
	return &entity.Product{
		ID: uuid.New().String(), TenantID: tenantID, SKU: sku, Name: "Producto " + sku,
		CostPrice: decimal.NewFromInt(100), SalePrice: decimal.NewFromInt(150),
		Stock: decimal.NewFromInt(stock), Active: true, CreatedAt: now, UpdatedAt: now,
	}
}

func TestProductRepo_AddStockNoQuedaNegativo(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tenantID := seedTenant(t, pool)
	repo := NewProductRepository(pool)

	p := newProduct(tenantID, "SKU-"+uuid.NewString()[:8], 5)
	require.NoError(t, repo.Create(ctx, p))

	require.NoError(t, repo.AddStock(ctx, tenantID, p.ID, decimal.NewFromInt(-5)))
	err := repo.AddStock(ctx, tenantID, p.ID, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = repo.AddStock(ctx, tenantID, uuid.NewString(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByID(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.IsZero())
}

func TestProductRepo_OtroTenantNoVe(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tenantA := seedTenant(t, pool)
	tenantB := seedTenant(t, pool)
	repo := NewProductRepository(pool)

	p := newProduct(tenantA, "SKU-"+uuid.NewString()[:8], 0)
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, tenantB, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tenantID := seedTenant(t, pool)
	p := newProduct(tenantID, "SKU-"+uuid.NewString()[:8], 3)
	require.NoError(t, NewProductRepository(pool).Create(ctx, p))

	err := NewTxRunner(pool).Run(ctx, func(r repository.TxRepositories) error {
		if err := r.Products.AddStock(ctx, tenantID, p.ID, decimal.NewFromInt(10)); err != nil {
			return err
		}
		return r.Products.AddStock(ctx, tenantID, p.ID, decimal.NewFromInt(-100))
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := NewProductRepository(pool).GetByID(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Equal(decimal.NewFromInt(3)), "el stock no debe cambiar tras el rollback")
}

func TestPurchaseOrderRepo_LastCorrelative(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	tenantID := seedTenant(t, pool)
	now := time.Now()
	sup := &entity.Supplier{ID: uuid.NewString(), TenantID: tenantID, Code: "DIST", Name: "Distribuidora", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewSupplierRepository(pool).Create(ctx, sup))

	repo := NewPurchaseOrderRepository(pool)
	n, err := repo.LastCorrelative(ctx, tenantID, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 1; i <= 2; i++ {
		o := &entity.PurchaseOrder{
			ID: uuid.NewString(), TenantID: tenantID, SupplierID: sup.ID, Correlative: i,
			Number: entity.PurchaseOrderNumber(sup.Code, i), Status: entity.PurchaseOrderPending,
			Total: decimal.Zero, CreatedAt: now, UpdatedAt: now,
		}
		require.NoError(t, repo.Create(ctx, o))
	}
	n, err = repo.LastCorrelative(ctx, tenantID, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
