package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/purchasing"
)

// PurchasingHandler facturas y órdenes de compra.
type PurchasingHandler struct {
	invoices *purchasing.InvoiceUseCase
	orders   *purchasing.OrderUseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(invoices *purchasing.InvoiceUseCase, orders *purchasing.OrderUseCase) *PurchasingHandler {
	return &PurchasingHandler{invoices: invoices, orders: orders}
}

// RegisterInvoice godoc
// @Summary      Registrar factura de compra
// @Description  En una sola transacción: crea los productos nuevos (por SKU), suma stock y actualiza costo y precio de venta.
// @Description  Cualquier error revierte la factura completa.
// @Tags         purchase-invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseInvoiceRequest  true  "Proveedor, número, fecha e ítems"
// @Success      201   {object}  dto.PurchaseInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "número de factura repetido para el proveedor"
// @Router       /api/purchase-invoices [post]
func (h *PurchasingHandler) RegisterInvoice(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.invoices.Register(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Obtener factura de compra con sus ítems
// @Tags     purchase-invoices
// @Security Bearer
// @Produce  json
// @Param    id   path  string  true  "ID"
// @Success  200  {object}  dto.PurchaseInvoiceResponse
// @Router   /api/purchase-invoices/{id} [get]
func (h *PurchasingHandler) GetInvoice(c *fiber.Ctx) error {
	out, err := h.invoices.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Listar facturas de compra
// @Tags     purchase-invoices
// @Security Bearer
// @Produce  json
// @Param    supplier_id  query  string  false  "Proveedor"
// @Param    from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param    to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param    limit        query  int     false  "Límite"  default(20)
// @Param    offset       query  int     false  "Offset"  default(0)
// @Success  200  {array}  dto.PurchaseInvoiceResponse
// @Router   /api/purchase-invoices [get]
func (h *PurchasingHandler) ListInvoices(c *fiber.Ctx) error {
	var in dto.PurchaseInvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return invalidQuery(c)
	}
	out, err := h.invoices.List(c.UserContext(), GetTenantID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegisterOrder godoc
// @Summary      Registrar orden de compra
// @Description  Numeración OC-{código proveedor}-{correlativo}. Actualiza el costo de los productos, no el stock.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseOrderRequest  true  "Proveedor, fecha esperada e ítems"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchasingHandler) RegisterOrder(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.orders.Register(c.UserContext(), GetTenantID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// @Summary  Obtener orden de compra
// @Tags     purchase-orders
// @Security Bearer
// @Produce  json
// @Param    id   path  string  true  "ID"
// @Success  200  {object}  dto.PurchaseOrderResponse
// @Router   /api/purchase-orders/{id} [get]
func (h *PurchasingHandler) GetOrder(c *fiber.Ctx) error {
	out, err := h.orders.GetByID(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// @Summary  Listar órdenes de compra
// @Tags     purchase-orders
// @Security Bearer
// @Produce  json
// @Param    supplier_id  query  string  false  "Proveedor"
// @Param    status       query  string  false  "pending, approved, received, cancelled"
// @Success  200  {array}  dto.PurchaseOrderResponse
// @Router   /api/purchase-orders [get]
func (h *PurchasingHandler) ListOrders(c *fiber.Ctx) error {
	var in dto.PurchaseOrderListRequest
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
// @Summary      Cambiar estado de la orden de compra
// @Description  pending → approved | cancelled; approved → received | cancelled.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/status [patch]
func (h *PurchasingHandler) UpdateOrderStatus(c *fiber.Ctx) error {
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

// OrderPDF godoc
// @Summary      PDF de la orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID"
// @Success      200  {file}  file
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchasingHandler) OrderPDF(c *fiber.Ctx) error {
	data, filename, err := h.orders.RenderPDF(c.UserContext(), GetTenantID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}
