package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
)

const (
	defaultTopN     = 20
	maxTopN         = 200
	paretoThreshold = 80 // el grupo de productos que acumula el 80% del ingreso
)

var (
	hundred  = decimal.NewFromInt(100)
	pareto80 = decimal.NewFromInt(paretoThreshold)
)

// ReportUseCase reporte de márgenes por producto con ranking Pareto de ingresos.
type ReportUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(analyticsRepo repository.AnalyticsRepository) *ReportUseCase {
	return &ReportUseCase{analyticsRepo: analyticsRepo}
}

// Margins genera el reporte del período [from, to] (días completos). Sin fechas usa el mes en curso.
func (uc *ReportUseCase) Margins(ctx context.Context, tenantID string, in dto.MarginsReportRequest) (*dto.MarginsReportDTO, error) {
	now := time.Now()
	from, err := dto.ParseDate(in.From, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(in.To, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: la fecha final es anterior a la inicial", domain.ErrInvalidInput)
	}
	topN := in.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}
	end := to.AddDate(0, 0, 1)

	type summaryResult struct {
		sum repository.SalesSummary
		err error
	}
	type topResult struct {
		rows []repository.TopProduct
		err  error
	}
	sumCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		sum, err := uc.analyticsRepo.SalesSummary(ctx, tenantID, from, end)
		sumCh <- summaryResult{sum, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.TopProducts(ctx, tenantID, from, end, topN)
		topCh <- topResult{rows, err}
	}()

	sum := <-sumCh
	top := <-topCh
	if sum.err != nil {
		return nil, fmt.Errorf("reporte: ventas: %w", sum.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("reporte: productos: %w", top.err)
	}

	margin := sum.sum.Revenue.Sub(sum.sum.Cost)
	ranking := buildRanking(top.rows, sum.sum.Revenue)
	pareto := make([]dto.ProductRankingDTO, 0, len(ranking))
	for _, r := range ranking {
		if r.IsTopPareto {
			pareto = append(pareto, r)
		}
	}
	return &dto.MarginsReportDTO{
		From:             dto.FormatDate(from),
		To:               dto.FormatDate(to),
		TotalRevenue:     sum.sum.Revenue.Round(2),
		TotalCost:        sum.sum.Cost.Round(2),
		TotalMargin:      margin.Round(2),
		OverallMarginPct: percent(margin, sum.sum.Revenue),
		OrderCount:       sum.sum.Orders,
		Ranking:          ranking,
		ParetoProducts:   pareto,
	}, nil
}

// buildRanking ordena por ingreso (ya viene así del repositorio) y acumula la participación.
// IsTopPareto: participación acumulada <= 80%. El primero siempre entra, aunque supere el 80% por sí solo.
func buildRanking(rows []repository.TopProduct, totalRevenue decimal.Decimal) []dto.ProductRankingDTO {
	ranking := make([]dto.ProductRankingDTO, 0, len(rows))
	cumulative := decimal.Zero
	for i, r := range rows {
		revenuePct := percent(r.Revenue, totalRevenue)
		cumulative = cumulative.Add(revenuePct)
		profit := r.Revenue.Sub(r.Cost)
		ranking = append(ranking, dto.ProductRankingDTO{
			Rank:                 i + 1,
			ProductID:            r.ProductID,
			ProductName:          r.ProductName,
			QuantitySold:         r.QuantitySold,
			Revenue:              r.Revenue.Round(2),
			Cost:                 r.Cost.Round(2),
			GrossProfit:          profit.Round(2),
			MarginPct:            percent(profit, r.Revenue),
			RevenuePct:           revenuePct,
			CumulativeRevenuePct: cumulative,
			IsTopPareto:          i == 0 || cumulative.LessThanOrEqual(pareto80),
		})
	}
	return ranking
}

func percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Div(total).Mul(hundred).Round(2)
}
