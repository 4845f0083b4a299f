package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestMargin(t *testing.T) {
	assert.True(t, Margin(d("1000"), d("700")).Equal(d("30")))
	assert.True(t, Margin(d("1500"), d("1000")).Equal(d("33.33")))
	assert.True(t, Margin(d("100"), d("120")).Equal(d("-20")), "vender bajo costo da margen negativo")
	assert.True(t, Margin(decimal.Zero, d("50")).IsZero(), "sin precio de venta no hay margen")
}

func TestApplyDiscount(t *testing.T) {
	assert.True(t, ApplyDiscount(d("2000"), d("10")).Equal(d("1800")))
	assert.True(t, ApplyDiscount(d("2000"), decimal.Zero).Equal(d("2000")))
	assert.True(t, ApplyDiscount(d("2000"), d("100")).IsZero())
}

func TestValidDiscount(t *testing.T) {
	assert.True(t, ValidDiscount(d("0")))
	assert.True(t, ValidDiscount(d("100")))
	assert.False(t, ValidDiscount(d("-1")))
	assert.False(t, ValidDiscount(d("100.5")))
}

func TestComputeTotals(t *testing.T) {
	tot := ComputeTotals([]decimal.Decimal{d("10000"), d("5000")}, d("19"))
	assert.True(t, tot.Net.Equal(d("15000")))
	assert.True(t, tot.Tax.Equal(d("2850")))
	assert.True(t, tot.Grand.Equal(d("17850")))

	empty := ComputeTotals(nil, d("19"))
	assert.True(t, empty.Grand.IsZero())
}

func TestPricePack(t *testing.T) {
	p := PricePack([]PackComponent{
		{Quantity: d("2"), UnitCost: d("600"), UnitPrice: d("1000"), DiscountPercent: d("10")},
		{Quantity: d("1"), UnitCost: d("300"), UnitPrice: d("500"), DiscountPercent: d("0")},
	})
	assert.True(t, p.Cost.Equal(d("1500")))
	assert.True(t, p.ListPrice.Equal(d("2500")))
	assert.True(t, p.DiscountedPrice.Equal(d("2300")))
	assert.True(t, Margin(p.DiscountedPrice, p.Cost).Equal(d("34.78")))
}
