package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/sales"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
)

// SalesHandler clientes, cotizaciones y pedidos.
type SalesHandler struct {
	customers  *usecase.CustomerUseCase
	quotations *sales.QuotationUseCase
	orders     *sales.OrderUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(customers *usecase.CustomerUseCase, quotations *sales.QuotationUseCase, orders *sales.OrderUseCase) *SalesHandler {
	return &SalesHandler{customers: customers, quotations: quotations, orders: orders}
}

// CreateCustomer godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *SalesHandler) CreateCustomer(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.customers.Create(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SalesHandler) GetCustomer(c *fiber.Ctx) error {
	out, err := h.customers.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListCustomers godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Nombre o RUT"
// @Success      200     {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *SalesHandler) ListCustomers(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidQuery(c)
	}
	out, err := h.customers.List(c.UserContext(), GetTenantID(c), c.Query("search"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SalesHandler) UpdateCustomer(c *fiber.Ctx) error {
	var in dto.CustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.customers.Update(c.UserContext(), GetTenantID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SalesHandler) DeleteCustomer(c *fiber.Ctx) error {
	if err := h.customers.Delete(c.UserContext(), GetTenantID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateQuotation godoc
// @Summary      Crear cotización
// @Description  Numeración COT-{n} por tienda. No afecta stock.
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuotationRequest  true  "Cliente, validez e ítems"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotations [post]
func (h *SalesHandler) CreateQuotation(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.quotations.Create(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SalesHandler) GetQuotation(c *fiber.Ctx) error {
	out, err := h.quotations.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListQuotations godoc
// @Summary      Listar cotizaciones
// @Tags         quotations
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "draft, sent, accepted, rejected, expired"
// @Success      200     {array}  dto.QuotationResponse
// @Router       /api/quotations [get]
func (h *SalesHandler) ListQuotations(c *fiber.Ctx) error {
	var in dto.QuotationListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.quotations.List(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateQuotationStatus godoc
// @Summary      Cambiar estado de la cotización
// @Description  draft → sent → accepted | rejected | expired.
// @Tags         quotations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id}/status [patch]
func (h *SalesHandler) UpdateQuotationStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.quotations.UpdateStatus(c.UserContext(), GetTenantID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateOrder godoc
// @Summary      Crear pedido
// @Description  Descuenta stock (los packs descuentan sus componentes) y congela el costo unitario para el margen.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Cliente e ítems"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/orders [post]
func (h *SalesHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.orders.Create(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *SalesHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.orders.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListOrders godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending, paid, shipped, delivered, cancelled"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *SalesHandler) ListOrders(c *fiber.Ctx) error {
	var in dto.OrderListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.orders.List(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateOrderStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  pending → paid → shipped → delivered. Cancelar un pedido pending o paid repone el stock.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *SalesHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.orders.UpdateStatus(c.UserContext(), GetTenantID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
