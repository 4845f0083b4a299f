package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/sales"
)

// DashboardHandler maneja el resumen del dashboard y el reporte de márgenes.
type DashboardHandler struct {
	uc      *sales.DashboardUseCase
	reports *sales.ReportUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *sales.DashboardUseCase, reports *sales.ReportUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, reports: reports}
}

// GetSummary devuelve ventas y margen del día y del mes, ticket promedio,
// top 5 del mes, últimos pedidos y productos con stock bajo.
// GET /api/dashboard/summary
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetMargins godoc
// @Summary      Reporte de márgenes y ranking de productos (Pareto 80/20)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from   query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        to     query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Param        top_n  query  int     false  "Máx. productos en el ranking (default 20, max 200)."
// @Success      200  {object}  dto.MarginsReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/margins [get]
func (h *DashboardHandler) GetMargins(c *fiber.Ctx) error {
	var req dto.MarginsReportRequest
	if err := c.QueryParser(&req); err != nil {
		return invalidQuery(c)
	}
	report, err := h.reports.Margins(c.UserContext(), GetTenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
