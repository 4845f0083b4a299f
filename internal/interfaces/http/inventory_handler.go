package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/inventory"
)

// InventoryHandler ofertas (packs), consumos internos y reposición.
type InventoryHandler struct {
	offers        *inventory.OfferUseCase
	consumptions  *inventory.ConsumptionUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(offers *inventory.OfferUseCase, consumptions *inventory.ConsumptionUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{offers: offers, consumptions: consumptions, replenishment: replenishment}
}

// CreateOffer godoc
// @Summary      Crear oferta (pack)
// @Description  Crea el producto pack (stock 0) y calcula costo, precio lista, precio con descuento y margen.
// @Tags         offers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OfferRequest  true  "Nombre, SKU, precio opcional e ítems"
// @Success      201   {object}  dto.OfferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/offers [post]
func (h *InventoryHandler) CreateOffer(c *fiber.Ctx) error {
	var in dto.OfferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.offers.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Obtener oferta con sus componentes
// @Tags     offers
// @Security Bearer
// @Produce  json
// @Param    id   path  string  true  "ID"
// @Success  200  {object}  dto.OfferResponse
// @Router   /api/offers/{id} [get]
func (h *InventoryHandler) GetOffer(c *fiber.Ctx) error {
	out, err := h.offers.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Listar ofertas
// @Tags     offers
// @Security Bearer
// @Produce  json
// @Success  200  {array}  dto.OfferResponse
// @Router   /api/offers [get]
func (h *InventoryHandler) ListOffers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c)
	}
	out, err := h.offers.List(c.UserContext(), GetTenantID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Actualizar oferta
// @Description  Recalcula precios y reemplaza los componentes.
// @Tags     offers
// @Security Bearer
// @Accept   json
// @Produce  json
// @Param    id    path  string            true  "ID"
// @Param    body  body  dto.OfferRequest  true  "Datos"
// @Success  200   {object}  dto.OfferResponse
// @Router   /api/offers/{id} [put]
func (h *InventoryHandler) UpdateOffer(c *fiber.Ctx) error {
	var in dto.OfferRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.offers.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Eliminar oferta y su producto pack
// @Tags     offers
// @Security Bearer
// @Param    id  path  string  true  "ID"
// @Success  204
// @Router   /api/offers/{id} [delete]
func (h *InventoryHandler) DeleteOffer(c *fiber.Ctx) error {
	if err := h.offers.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateConsumption godoc
// @Summary      Registrar consumo interno
// @Description  Descuenta stock al costo actual del producto. 409 INSUFFICIENT_STOCK si no alcanza.
// @Tags         consumptions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumptionRequest  true  "Producto, cantidad, motivo y fecha"
// @Success      201   {object}  dto.ConsumptionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/consumptions [post]
func (h *InventoryHandler) CreateConsumption(c *fiber.Ctx) error {
	var in dto.ConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.consumptions.Create(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Obtener consumo interno
// @Tags     consumptions
// @Security Bearer
// @Produce  json
// @Param    id   path  string  true  "ID"
// @Success  200  {object}  dto.ConsumptionResponse
// @Router   /api/consumptions/{id} [get]
func (h *InventoryHandler) GetConsumption(c *fiber.Ctx) error {
	out, err := h.consumptions.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Listar consumos internos
// @Tags     consumptions
// @Security Bearer
// @Produce  json
// @Param    product_id  query  string  false  "Producto"
// @Param    from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param    to          query  string  false  "Hasta (YYYY-MM-DD)"
// @Success  200  {array}  dto.ConsumptionResponse
// @Router   /api/consumptions [get]
func (h *InventoryHandler) ListConsumptions(c *fiber.Ctx) error {
	var in dto.ConsumptionListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.consumptions.List(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Actualizar consumo interno
// @Description  Ajusta el stock por la diferencia; si cambia el producto repone el anterior y descuenta del nuevo.
// @Tags     consumptions
// @Security Bearer
// @Accept   json
// @Produce  json
// @Param    id    path  string                  true  "ID"
// @Param    body  body  dto.ConsumptionRequest  true  "Datos"
// @Success  200   {object}  dto.ConsumptionResponse
// @Router   /api/consumptions/{id} [put]
func (h *InventoryHandler) UpdateConsumption(c *fiber.Ctx) error {
	var in dto.ConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.consumptions.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Eliminar consumo interno (repone stock)
// @Tags     consumptions
// @Security Bearer
// @Param    id  path  string  true  "ID"
// @Success  204
// @Router   /api/consumptions/{id} [delete]
func (h *InventoryHandler) DeleteConsumption(c *fiber.Ctx) error {
	if err := h.consumptions.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos bajo el stock mínimo con la cantidad sugerida, priorizados por ventas del último mes.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        supplier_id  query  string  false  "Filtrar por proveedor"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	list, err := h.replenishment.Suggestions(c.UserContext(), GetTenantID(c), c.Query("supplier_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
