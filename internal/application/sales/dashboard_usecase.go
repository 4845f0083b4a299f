package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/pricing"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const (
	dashboardTopProducts  = 5
	dashboardRecentOrders = 10
	dashboardLowStock     = 10
)

// DashboardUseCase resumen de ventas del día y del mes en curso.
//
// El resultado se guarda por tenant en DashboardCache con TTL; crear pedidos o
// cambiar su estado invalida la entrada. Un fallo de la caché nunca falla la petición.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cache         ports.DashboardCache
	ttl           time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cache ports.DashboardCache,
	ttl time.Duration,
	log *logger.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cache:         cache,
		ttl:           ttl,
		log:           log.Component("dashboard"),
		now:           time.Now,
	}
}

// GetSummary devuelve el resumen desde caché o lo recalcula con cinco consultas en paralelo:
//  1. SalesSummary(hoy)
//  2. SalesSummary(mes)
//  3. TopProducts(mes, top 5)
//  4. últimos 10 pedidos
//  5. productos con stock <= mínimo
func (uc *DashboardUseCase) GetSummary(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, error) {
	cached, err := uc.cache.Get(ctx, tenantID)
	switch {
	case err == nil && cached != nil:
		return cached, nil
	case err != nil && !errors.Is(err, ports.ErrCacheMiss):
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("caché del dashboard no disponible")
	}

	now := uc.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type summaryResult struct {
		sum repository.SalesSummary
		err error
	}
	type topResult struct {
		rows []repository.TopProduct
		err  error
	}
	type ordersResult struct {
		rows []*entity.Order
		err  error
	}
	type stockResult struct {
		rows []*entity.Product
		err  error
	}

	todayCh := make(chan summaryResult, 1)
	monthCh := make(chan summaryResult, 1)
	topCh := make(chan topResult, 1)
	ordersCh := make(chan ordersResult, 1)
	stockCh := make(chan stockResult, 1)

	go func() {
		sum, err := uc.analyticsRepo.SalesSummary(ctx, tenantID, todayStart, todayEnd)
		todayCh <- summaryResult{sum, err}
	}()
	go func() {
		sum, err := uc.analyticsRepo.SalesSummary(ctx, tenantID, monthStart, todayEnd)
		monthCh <- summaryResult{sum, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.TopProducts(ctx, tenantID, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{rows, err}
	}()
	go func() {
		rows, err := uc.orderRepo.List(ctx, tenantID, repository.OrderFilter{Page: repository.Page{Limit: dashboardRecentOrders}})
		ordersCh <- ordersResult{rows, err}
	}()
	go func() {
		rows, err := uc.productRepo.List(ctx, tenantID, repository.ProductFilter{LowStock: true, Page: repository.Page{Limit: dashboardLowStock}})
		stockCh <- stockResult{rows, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	recent := <-ordersCh
	low := <-stockCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos recientes: %w", recent.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	avgTicket := decimal.Zero
	if month.sum.Orders > 0 {
		avgTicket = month.sum.Revenue.Div(decimal.NewFromInt(int64(month.sum.Orders))).Round(2)
	}
	summary := &dto.DashboardSummaryDTO{
		TodaySales:    today.sum.Revenue.Round(2),
		TodayMargin:   today.sum.Revenue.Sub(today.sum.Cost).Round(2),
		TodayOrders:   today.sum.Orders,
		MonthlySales:  month.sum.Revenue.Round(2),
		MonthlyMargin: month.sum.Revenue.Sub(month.sum.Cost).Round(2),
		MonthlyOrders: month.sum.Orders,
		AverageTicket: avgTicket,
		TopProducts:   make([]dto.TopProductDTO, 0, len(top.rows)),
		RecentOrders:  make([]dto.OrderResponse, 0, len(recent.rows)),
		LowStock:      make([]dto.ProductResponse, 0, len(low.rows)),
		GeneratedAt:   now,
	}
	for _, t := range top.rows {
		summary.TopProducts = append(summary.TopProducts, dto.TopProductDTO{
			ProductID:        t.ProductID,
			ProductName:      t.ProductName,
			QuantitySold:     t.QuantitySold,
			Revenue:          t.Revenue.Round(2),
			MarginPercentage: pricing.Margin(t.Revenue, t.Cost),
		})
	}
	for _, o := range recent.rows {
		summary.RecentOrders = append(summary.RecentOrders, *toOrderResponse(o, nil))
	}
	for _, p := range low.rows {
		summary.LowStock = append(summary.LowStock, *usecase.ToProductResponse(p))
	}

	if err := uc.cache.Set(ctx, tenantID, summary, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo guardar el dashboard en caché")
	}
	return summary, nil
}
