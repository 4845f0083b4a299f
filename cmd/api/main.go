package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tienda-erp/internal/application/auth"
	"github.com/jhoicas/tienda-erp/internal/application/inventory"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/application/purchasing"
	"github.com/jhoicas/tienda-erp/internal/application/sales"
	"github.com/jhoicas/tienda-erp/internal/application/scheduling"
	"github.com/jhoicas/tienda-erp/internal/application/seed"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
	"github.com/jhoicas/tienda-erp/internal/infrastructure/cache"
	"github.com/jhoicas/tienda-erp/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/tienda-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-erp/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/tienda-erp/internal/interfaces/http"
	"github.com/jhoicas/tienda-erp/pkg/config"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sin REDIS_ADDR o con Redis caído el dashboard se calcula siempre desde la BD.
	var dashboardCache ports.DashboardCache = cache.NoopDashboardCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisDashboardCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, dashboard sin caché")
			_ = redisCache.Close()
		} else {
			dashboardCache = redisCache
			defer redisCache.Close()
		}
		cancel()
	}

	tenantRepo := postgres.NewTenantRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, tenantRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, supplierRepo, tenantRepo, excel.NewProductExporter())

	purchaseInvoiceUC := purchasing.NewInvoiceUseCase(txRunner, postgres.NewPurchaseInvoiceRepository(pool), categoryRepo, cfg.Business.TaxRate, log)
	purchaseOrderUC := purchasing.NewOrderUseCase(txRunner, postgres.NewPurchaseOrderRepository(pool), supplierRepo, tenantRepo, infrapdf.NewPurchaseOrderPDF(), log)

	offerUC := inventory.NewOfferUseCase(txRunner, postgres.NewOfferRepository(pool), productRepo, log)
	consumptionUC := inventory.NewConsumptionUseCase(txRunner, postgres.NewConsumptionRepository(pool), log)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, analyticsRepo, log)

	orderRepo := postgres.NewOrderRepository(pool)
	quotationUC := sales.NewQuotationUseCase(txRunner, postgres.NewQuotationRepository(pool), customerRepo, cfg.Business.TaxRate, log)
	orderUC := sales.NewOrderUseCase(txRunner, orderRepo, customerRepo, dashboardCache, log)
	dashboardUC := sales.NewDashboardUseCase(analyticsRepo, orderRepo, productRepo, dashboardCache, cfg.Redis.DashboardTTL(), log)

	employeeRepo := postgres.NewEmployeeRepository(pool)
	shiftRepo := postgres.NewShiftRepository(pool)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.HTTP.DocsEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Tienda ERP API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		UserUC:          usecase.NewUserUseCase(userRepo),
		TenantUC:        usecase.NewTenantUseCase(tenantRepo, userRepo, authUC),
		ModuleService:   usecase.NewModuleService(tenantRepo),
		CategoryUC:      categoryUC,
		SupplierUC:      supplierUC,
		ProductUC:       productUC,
		CustomerUC:      usecase.NewCustomerUseCase(customerRepo),
		Seed:            seed.NewService(categoryUC, supplierUC, log),
		PurchaseInvoice: purchaseInvoiceUC,
		PurchaseOrder:   purchaseOrderUC,
		Offers:          offerUC,
		Consumptions:    consumptionUC,
		Replenishment:   replenishmentUC,
		Quotations:      quotationUC,
		Orders:          orderUC,
		Dashboard:       dashboardUC,
		Reports:         sales.NewReportUseCase(analyticsRepo),
		Employees:       scheduling.NewEmployeeUseCase(employeeRepo),
		Shifts:          scheduling.NewShiftUseCase(shiftRepo),
		Schedules:       scheduling.NewScheduleUseCase(postgres.NewScheduleRepository(pool), employeeRepo, shiftRepo, log),
		JWTSecret:       cfg.JWT.Secret,
		Log:             log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
