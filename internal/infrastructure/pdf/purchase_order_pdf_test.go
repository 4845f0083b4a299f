package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
)

func TestRenderPurchaseOrder_GeneraPDF(t *testing.T) {
	expected := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	doc := ports.PurchaseOrderDocument{
		Tenant:   &entity.Tenant{Name: "Almacén Rosita", TaxID: "76.123.456-7"},
		Supplier: &entity.Supplier{Name: "Distribuidora Central", Code: "DCL", ContactName: "Marta"},
		Order: &entity.PurchaseOrder{
			Number:       "OC-DCL-3",
			Status:       entity.PurchaseOrderPending,
			ExpectedDate: &expected,
			Total:        decimal.NewFromInt(43500),
			Notes:        "Entregar antes de las 10:00",
			CreatedAt:    time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		},
		Items: []*entity.PurchaseOrderItem{
			{ProductName: "Leche entera 1L", Quantity: decimal.NewFromInt(30), UnitCost: decimal.NewFromInt(700), Subtotal: decimal.NewFromInt(21000)},
			{ProductName: "Queso mantecoso", Quantity: decimal.RequireFromString("2.5"), UnitCost: decimal.NewFromInt(9000), Subtotal: decimal.NewFromInt(22500)},
		},
	}

	out, err := NewPurchaseOrderPDF().RenderPurchaseOrder(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderPurchaseOrder_DocumentoIncompleto(t *testing.T) {
	_, err := NewPurchaseOrderPDF().RenderPurchaseOrder(ports.PurchaseOrderDocument{})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":        "0",
		"999":      "999",
		"25000":    "25.000",
		"1000000":  "1.000.000",
		"-1234567": "-1.234.567",
		"1499.6":   "1.500",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestFormatQty(t *testing.T) {
	assert.Equal(t, "30", formatQty(decimal.NewFromInt(30)))
	assert.Equal(t, "2.50", formatQty(decimal.RequireFromString("2.5")))
}
