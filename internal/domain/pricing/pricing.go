// Package pricing contiene los cálculos monetarios del negocio (servicios de dominio puros).
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Margin margen sobre el precio de venta en porcentaje, redondeado a 2 decimales.
// Margen = (Venta - Costo) / Venta * 100; 0 si el precio de venta no es positivo.
func Margin(salePrice, cost decimal.Decimal) decimal.Decimal {
	if !salePrice.IsPositive() {
		return decimal.Zero
	}
	return salePrice.Sub(cost).Div(salePrice).Mul(hundred).Round(2)
}

// Subtotal cantidad * precio unitario.
func Subtotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// ApplyDiscount aplica un descuento porcentual (0..100) a un monto.
func ApplyDiscount(amount, discountPercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Sub(discountPercent)).Div(hundred)
}

// ValidDiscount indica si el porcentaje está en [0, 100].
func ValidDiscount(pct decimal.Decimal) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}

// Totals totales de un documento con impuesto porcentual.
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Grand decimal.Decimal
}

// ComputeTotals suma los subtotales y aplica la tasa de impuesto (porcentaje). Tax se redondea a 2 decimales.
func ComputeTotals(subtotals []decimal.Decimal, taxRatePercent decimal.Decimal) Totals {
	net := decimal.Zero
	for _, s := range subtotals {
		net = net.Add(s)
	}
	tax := net.Mul(taxRatePercent).Div(hundred).Round(2)
	return Totals{Net: net, Tax: tax, Grand: net.Add(tax)}
}

// PackComponent componente de un pack para el cálculo de precios.
type PackComponent struct {
	Quantity        decimal.Decimal
	UnitCost        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
}

// LineTotal precio con descuento del componente por su cantidad.
func (c PackComponent) LineTotal() decimal.Decimal {
	return ApplyDiscount(c.Quantity.Mul(c.UnitPrice), c.DiscountPercent).Round(2)
}

// PackPricing resultado del cálculo de un pack.
type PackPricing struct {
	Cost            decimal.Decimal // Σ costo * cantidad
	ListPrice       decimal.Decimal // Σ precio * cantidad
	DiscountedPrice decimal.Decimal // Σ precio * cantidad * (1 - desc/100)
}

// PricePack calcula costo, precio lista y precio con descuento de un pack.
func PricePack(components []PackComponent) PackPricing {
	var out PackPricing
	for _, c := range components {
		out.Cost = out.Cost.Add(c.Quantity.Mul(c.UnitCost))
		out.ListPrice = out.ListPrice.Add(c.Quantity.Mul(c.UnitPrice))
		out.DiscountedPrice = out.DiscountedPrice.Add(c.LineTotal())
	}
	return out
}
