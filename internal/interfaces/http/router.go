package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-erp/internal/application/auth"
	"github.com/jhoicas/tienda-erp/internal/application/inventory"
	"github.com/jhoicas/tienda-erp/internal/application/purchasing"
	"github.com/jhoicas/tienda-erp/internal/application/sales"
	"github.com/jhoicas/tienda-erp/internal/application/scheduling"
	"github.com/jhoicas/tienda-erp/internal/application/seed"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	UserUC          *usecase.UserUseCase
	TenantUC        *usecase.TenantUseCase
	ModuleService   *usecase.ModuleService
	CategoryUC      *usecase.CategoryUseCase
	SupplierUC      *usecase.SupplierUseCase
	ProductUC       *usecase.ProductUseCase
	CustomerUC      *usecase.CustomerUseCase
	Seed            *seed.Service
	PurchaseInvoice *purchasing.InvoiceUseCase
	PurchaseOrder   *purchasing.OrderUseCase
	Offers          *inventory.OfferUseCase
	Consumptions    *inventory.ConsumptionUseCase
	Replenishment   *inventory.ReplenishmentUseCase
	Quotations      *sales.QuotationUseCase
	Orders          *sales.OrderUseCase
	Dashboard       *sales.DashboardUseCase
	Reports         *sales.ReportUseCase
	Employees       *scheduling.EmployeeUseCase
	Shifts          *scheduling.ShiftUseCase
	Schedules       *scheduling.ScheduleUseCase
	JWTSecret       string
	Log             *logger.Logger
}

const (
	admin     = entity.RoleAdmin
	bodeguero = entity.RoleBodeguero
	vendedor  = entity.RoleVendedor
)

// Router registra las rutas de la API.
// Lectura abierta a todos los roles; escritura de catálogo e inventario para admin y bodeguero,
// ventas para admin y vendedor, personal y usuarios solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	tenantHandler := NewTenantHandler(deps.TenantUC)

	// Público
	api.Post("/tenants", tenantHandler.Create)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	module := func(name string) fiber.Handler {
		return RequireModule(name, deps.ModuleService, deps.Log)
	}
	stockWriters := RequireRole(admin, bodeguero)
	sellers := RequireRole(admin, vendedor)
	adminOnly := RequireRole(admin)

	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/tenants/me", tenantHandler.Me)
	protected.Get("/users", adminOnly, authHandler.ListUsers)
	protected.Post("/users", adminOnly, authHandler.Register)
	protected.Post("/seed", adminOnly, NewSeedHandler(deps.Seed).Seed)

	// Catálogo
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Post("/", stockWriters, categoryHandler.Create)
	categories.Put("/:id", stockWriters, categoryHandler.Update)
	categories.Delete("/:id", stockWriters, categoryHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Post("/", stockWriters, supplierHandler.Create)
	suppliers.Put("/:id", stockWriters, supplierHandler.Update)
	suppliers.Delete("/:id", stockWriters, supplierHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/export", productHandler.Export)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", stockWriters, productHandler.Create)
	products.Put("/:id", stockWriters, productHandler.Update)
	products.Delete("/:id", stockWriters, productHandler.Delete)

	// Compras
	purchasingHandler := NewPurchasingHandler(deps.PurchaseInvoice, deps.PurchaseOrder)
	invoices := protected.Group("/purchase-invoices", module(entity.ModulePurchasing))
	invoices.Get("/", purchasingHandler.ListInvoices)
	invoices.Get("/:id", purchasingHandler.GetInvoice)
	invoices.Post("/", stockWriters, purchasingHandler.RegisterInvoice)

	orders := protected.Group("/purchase-orders", module(entity.ModulePurchasing))
	orders.Get("/", purchasingHandler.ListOrders)
	orders.Get("/:id", purchasingHandler.GetOrder)
	orders.Get("/:id/pdf", purchasingHandler.OrderPDF)
	orders.Post("/", stockWriters, purchasingHandler.RegisterOrder)
	orders.Patch("/:id/status", stockWriters, purchasingHandler.UpdateOrderStatus)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.Offers, deps.Consumptions, deps.Replenishment)
	offers := protected.Group("/offers", module(entity.ModuleInventory))
	offers.Get("/", inventoryHandler.ListOffers)
	offers.Get("/:id", inventoryHandler.GetOffer)
	offers.Post("/", stockWriters, inventoryHandler.CreateOffer)
	offers.Put("/:id", stockWriters, inventoryHandler.UpdateOffer)
	offers.Delete("/:id", stockWriters, inventoryHandler.DeleteOffer)

	consumptions := protected.Group("/consumptions", module(entity.ModuleInventory))
	consumptions.Get("/", inventoryHandler.ListConsumptions)
	consumptions.Get("/:id", inventoryHandler.GetConsumption)
	consumptions.Post("/", stockWriters, inventoryHandler.CreateConsumption)
	consumptions.Put("/:id", stockWriters, inventoryHandler.UpdateConsumption)
	consumptions.Delete("/:id", stockWriters, inventoryHandler.DeleteConsumption)

	protected.Get("/inventory/replenishment", module(entity.ModuleInventory), inventoryHandler.Replenishment)

	// Ventas
	salesHandler := NewSalesHandler(deps.CustomerUC, deps.Quotations, deps.Orders)
	customers := protected.Group("/customers", module(entity.ModuleSales))
	customers.Get("/", salesHandler.ListCustomers)
	customers.Get("/:id", salesHandler.GetCustomer)
	customers.Post("/", sellers, salesHandler.CreateCustomer)
	customers.Put("/:id", sellers, salesHandler.UpdateCustomer)
	customers.Delete("/:id", sellers, salesHandler.DeleteCustomer)

	quotations := protected.Group("/quotations", module(entity.ModuleSales))
	quotations.Get("/", salesHandler.ListQuotations)
	quotations.Get("/:id", salesHandler.GetQuotation)
	quotations.Post("/", sellers, salesHandler.CreateQuotation)
	quotations.Patch("/:id/status", sellers, salesHandler.UpdateQuotationStatus)

	salesOrders := protected.Group("/orders", module(entity.ModuleSales))
	salesOrders.Get("/", salesHandler.ListOrders)
	salesOrders.Get("/:id", salesHandler.GetOrder)
	salesOrders.Post("/", sellers, salesHandler.CreateOrder)
	salesOrders.Patch("/:id/status", sellers, salesHandler.UpdateOrderStatus)

	dashboardHandler := NewDashboardHandler(deps.Dashboard, deps.Reports)
	protected.Get("/dashboard/summary", module(entity.ModuleSales), dashboardHandler.GetSummary)
	protected.Get("/reports/margins", module(entity.ModuleSales), RequireRole(admin), dashboardHandler.GetMargins)

	// Personal
	schedulingHandler := NewSchedulingHandler(deps.Employees, deps.Shifts, deps.Schedules)
	employees := protected.Group("/employees", module(entity.ModuleScheduling))
	employees.Get("/", schedulingHandler.ListEmployees)
	employees.Get("/:id", schedulingHandler.GetEmployee)
	employees.Post("/", adminOnly, schedulingHandler.CreateEmployee)
	employees.Put("/:id", adminOnly, schedulingHandler.UpdateEmployee)
	employees.Delete("/:id", adminOnly, schedulingHandler.DeleteEmployee)

	shifts := protected.Group("/shifts", module(entity.ModuleScheduling))
	shifts.Get("/", schedulingHandler.ListShifts)
	shifts.Get("/:id", schedulingHandler.GetShift)
	shifts.Post("/", adminOnly, schedulingHandler.CreateShift)
	shifts.Put("/:id", adminOnly, schedulingHandler.UpdateShift)
	shifts.Delete("/:id", adminOnly, schedulingHandler.DeleteShift)

	schedules := protected.Group("/schedules", module(entity.ModuleScheduling))
	schedules.Get("/", schedulingHandler.ListSchedules)
	schedules.Post("/", adminOnly, schedulingHandler.AssignSchedule)
	schedules.Delete("/:id", adminOnly, schedulingHandler.DeleteSchedule)
}
