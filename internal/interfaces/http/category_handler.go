package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
)

// CategoryHandler CRUD de categorías.
type CategoryHandler struct {
	uc *usecase.CategoryUseCase
}

func NewCategoryHandler(uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre y descripción"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Obtener categoría
// @Tags     categories
// @Security Bearer
// @Produce  json
// @Param    id   path  string  true  "ID"
// @Success  200  {object}  dto.CategoryResponse
// @Router   /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Listar categorías
// @Tags     categories
// @Security Bearer
// @Produce  json
// @Success  200  {array}  dto.CategoryResponse
// @Router   /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetTenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Actualizar categoría
// @Tags     categories
// @Security Bearer
// @Accept   json
// @Produce  json
// @Param    id    path  string               true  "ID"
// @Param    body  body  dto.CategoryRequest  true  "Datos"
// @Success  200   {object}  dto.CategoryResponse
// @Router   /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Eliminar categoría
// @Tags     categories
// @Security Bearer
// @Param    id  path  string  true  "ID"
// @Success  204
// @Failure  409  {object}  dto.ErrorResponse
// @Router   /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
