package seed

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/tienda-erp/internal/application/usecase"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/testutil"
	"github.com/jhoicas/tienda-erp/pkg/logger"
	"github.com/jhoicas/tienda-erp/pkg/textutil"
)

func newService(store *testutil.Store) *Service {
	return NewService(
		usecase.NewCategoryUseCase(store.Categories()),
		usecase.NewSupplierUseCase(store.Suppliers()),
		logger.Nop(),
	)
}

func TestSeedDefaults_Idempotente(t *testing.T) {
	store := testutil.NewStore()
	svc := newService(store)
	ctx := context.Background()

	first, err := svc.SeedDefaults(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 10, first.CategoriesCreated)
	assert.Equal(t, 4, first.SuppliersCreated)
	assert.Zero(t, first.Skipped)

	second, err := svc.SeedDefaults(ctx, "t1")
	require.NoError(t, err)
	assert.Zero(t, second.CategoriesCreated)
	assert.Zero(t, second.SuppliersCreated)
	assert.Equal(t, 14, second.Skipped)

	sup, err := store.Suppliers().GetByName(ctx, "t1", "Lácteos del Sur")
	require.NoError(t, err)
	require.NotNil(t, sup)
	assert.Equal(t, "LDS", sup.Code)
}

func TestParseCSV(t *testing.T) {
	in := "kind,name,tax_id,email,phone\n" +
		"category,Mascotas\n" +
		"\n" +
		"supplier, Comercial Pérez ,76.555.444-3,ventas@perez.cl,+5622223333\n"

	entries, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Kind: KindCategory, Name: "Mascotas"}, entries[0])
	assert.Equal(t, "Comercial Pérez", entries[1].Name)
	assert.Equal(t, "ventas@perez.cl", entries[1].Email)
}

func TestParseCSV_Errores(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("producto,Arroz\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParseCSV(strings.NewReader("category,\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseCSV_Latin1(t *testing.T) {
	raw, err := charmap.ISO8859_1.NewEncoder().String("category,Panadería\n")
	require.NoError(t, err)

	entries, err := ParseCSV(textutil.NewReader(bytes.NewReader([]byte(raw)), "latin1"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Panadería", entries[0].Name)
}
