package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestExportProducts(t *testing.T) {
	e := NewProductExporter()
	e.now = func() time.Time { return time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC) }

	out, err := e.ExportProducts("Almacén Rosita", []*entity.Product{
		{SKU: "780001", Name: "Leche entera 1L", CostPrice: d("700"), SalePrice: d("990"), Stock: d("24"), MinStock: d("6")},
		{SKU: "780002", Name: "Pan amasado", CostPrice: d("150"), SalePrice: d("250"), Stock: d("3"), MinStock: d("10")},
	})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Productos"}, f.GetSheetList())

	get := func(cell string) string {
		v, err := f.GetCellValue("Productos", cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Inventario Almacén Rosita", get("A1"))
	assert.Equal(t, "Generado: 01/05/2026 10:30", get("A2"))
	assert.Equal(t, "SKU", get("A3"))
	assert.Equal(t, "Valor stock", get("I3"))
	assert.Equal(t, "Leche entera 1L", get("B4"))
	assert.Equal(t, "", get("J4"))
	assert.Equal(t, "STOCK BAJO", get("J5"))

	raw, err := f.GetCellValue("Productos", "F4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "29.29", raw)
	raw, err = f.GetCellValue("Productos", "I4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "16800", raw)

	formula, err := f.GetCellFormula("Productos", "I7")
	require.NoError(t, err)
	assert.Equal(t, "SUM(I4:I5)", formula)
}

func TestExportProducts_SinProductos(t *testing.T) {
	out, err := NewProductExporter().ExportProducts("Vacía", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	formula, err := f.GetCellFormula("Productos", "I5")
	require.NoError(t, err)
	assert.Equal(t, "0", formula)
}
