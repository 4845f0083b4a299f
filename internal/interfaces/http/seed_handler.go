package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/seed"
)

// SeedHandler siembra categorías y proveedores por defecto en la tienda del admin.
type SeedHandler struct {
	svc *seed.Service
}

func NewSeedHandler(svc *seed.Service) *SeedHandler {
	return &SeedHandler{svc: svc}
}

// Seed godoc
// @Summary      Sembrar datos por defecto
// @Description  Idempotente: las categorías y proveedores existentes se omiten.
// @Tags         seed
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SeedResponse
// @Router       /api/seed [post]
func (h *SeedHandler) Seed(c *fiber.Ctx) error {
	out, err := h.svc.SeedDefaults(c.UserContext(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
