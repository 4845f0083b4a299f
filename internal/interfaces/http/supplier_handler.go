package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
)

// SupplierHandler CRUD de proveedores.
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proveedor
// @Description  Si no se envía code se deriva del nombre (mayúsculas, sin acentos) y se hace único en la tienda.
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Datos del proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Obtener proveedor
// @Tags     suppliers
// @Security Bearer
// @Produce  json
// @Param    id   path  string  true  "ID"
// @Success  200  {object}  dto.SupplierResponse
// @Router   /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Listar proveedores
// @Tags     suppliers
// @Security Bearer
// @Produce  json
// @Param    search  query  string  false  "Nombre, RUT o código"
// @Param    limit   query  int     false  "Límite"  default(20)
// @Param    offset  query  int     false  "Offset"  default(0)
// @Success  200  {array}  dto.SupplierResponse
// @Router   /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c)
	}
	out, err := h.uc.List(c.UserContext(), GetTenantID(c), c.Query("search"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Actualizar proveedor
// @Tags     suppliers
// @Security Bearer
// @Accept   json
// @Produce  json
// @Param    id    path  string               true  "ID"
// @Param    body  body  dto.SupplierRequest  true  "Datos"
// @Success  200   {object}  dto.SupplierResponse
// @Router   /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Eliminar proveedor
// @Tags     suppliers
// @Security Bearer
// @Param    id  path  string  true  "ID"
// @Success  204
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
