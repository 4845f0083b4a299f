package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/pricing"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const (
	historyDays     = 90
	historyTopLimit = 500
	scanBatchSize   = 100
)

var idealStockFactor = decimal.RequireFromString("1.5")

// ReplenishmentUseCase genera la lista de reposición: productos en o bajo el stock mínimo,
// priorizados por margen histórico y volumen vendido.
type ReplenishmentUseCase struct {
	productRepo   repository.ProductRepository
	analyticsRepo repository.AnalyticsRepository
	log           *logger.Logger
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(productRepo repository.ProductRepository, analyticsRepo repository.AnalyticsRepository, log *logger.Logger) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{productRepo: productRepo, analyticsRepo: analyticsRepo, log: log.Component("replenishment")}
}

// Suggestions devuelve los productos bajo mínimo con la cantidad sugerida para volver a 1,5 veces el mínimo.
// supplierID opcional filtra por proveedor para armar directamente una orden de compra.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context, tenantID, supplierID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	var low []*entity.Product
	for offset := 0; ; offset += scanBatchSize {
		batch, err := uc.productRepo.List(ctx, tenantID, repository.ProductFilter{
			SupplierID: supplierID,
			LowStock:   true,
			Page:       repository.Page{Limit: scanBatchSize, Offset: offset},
		})
		if err != nil {
			return nil, err
		}
		for _, p := range batch {
			if !p.IsPack && p.Active {
				low = append(low, p)
			}
		}
		if len(batch) < scanBatchSize {
			break
		}
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// Sin historial el margen se estima con precio y costo actuales.
	end := time.Now()
	start := end.AddDate(0, 0, -historyDays)
	history, err := uc.analyticsRepo.TopProducts(ctx, tenantID, start, end, historyTopLimit)
	if err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("historial de ventas no disponible")
	}
	byID := make(map[string]repository.TopProduct, len(history))
	for _, h := range history {
		byID[h.ProductID] = h
	}

	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		ideal := p.MinStock.Mul(idealStockFactor)
		qty := ideal.Sub(p.Stock).Ceil()
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		s := dto.ReplenishmentSuggestionDTO{
			ProductID:          p.ID,
			SKU:                p.SKU,
			ProductName:        p.Name,
			SupplierID:         p.SupplierID,
			CurrentStock:       p.Stock,
			MinStock:           p.MinStock,
			IdealStock:         ideal,
			SuggestedOrderQty:  qty,
			UnitCost:           p.CostPrice,
			EstimatedOrderCost: qty.Mul(p.CostPrice),
			GrossMarginPct:     pricing.Margin(p.SalePrice, p.CostPrice),
		}
		if h, ok := byID[p.ID]; ok {
			s.UnitsSoldLast90Days = h.QuantitySold
			s.GrossMarginPct = pricing.Margin(h.Revenue, h.Cost)
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if !a.UnitsSoldLast90Days.Equal(b.UnitsSoldLast90Days) {
			return a.UnitsSoldLast90Days.GreaterThan(b.UnitsSoldLast90Days)
		}
		return a.MinStock.Sub(a.CurrentStock).GreaterThan(b.MinStock.Sub(b.CurrentStock))
	})
	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
