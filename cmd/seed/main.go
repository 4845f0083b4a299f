// seed carga categorías y proveedores iniciales en una tienda.
//
// Uso:
//
//	go run ./cmd/seed -list
//	go run ./cmd/seed -tenant <id>                     # catálogo por defecto
//	go run ./cmd/seed -tenant <id> -csv datos.csv      # kind,name,tax_id,email,phone
//	go run ./cmd/seed -tenant <id> -csv datos.csv -charset iso-8859-1
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/seed"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
	"github.com/jhoicas/tienda-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-erp/pkg/config"
	"github.com/jhoicas/tienda-erp/pkg/logger"
	"github.com/jhoicas/tienda-erp/pkg/textutil"
)

func main() {
	tenantID := flag.String("tenant", "", "ID de la tienda a sembrar")
	csvPath := flag.String("csv", "", "archivo CSV (vacío = catálogo por defecto)")
	charset := flag.String("charset", "utf-8", "codificación del CSV: utf-8, iso-8859-1, windows-1252")
	list := flag.Bool("list", false, "listar tiendas y salir")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	if *list {
		tenants := usecase.NewTenantUseCase(tenantRepo, postgres.NewUserRepository(pool), nil)
		for page := (dto.PageRequest{Limit: 100}); ; page.Offset += page.Limit {
			resp, err := tenants.List(ctx, page)
			if err != nil {
				log.Fatal().Err(err).Msg("listar tiendas")
			}
			for _, t := range resp.Items {
				fmt.Printf("%s\t%s\t%s\n", t.ID, t.TaxID, t.Name)
			}
			if len(resp.Items) < page.Limit {
				return
			}
		}
	}

	if *tenantID == "" {
		fmt.Fprintln(os.Stderr, "uso: seed -tenant <id> [-csv archivo] [-charset iso-8859-1]")
		os.Exit(2)
	}
	tenant, err := tenantRepo.GetByID(ctx, *tenantID)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar tienda")
	}
	if tenant == nil {
		log.Fatal().Str("tenant_id", *tenantID).Msg("la tienda no existe")
	}

	entries := seed.DefaultEntries()
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		defer f.Close()
		entries, err = seed.ParseCSV(textutil.NewReader(f, *charset))
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV")
		}
	}

	svc := seed.NewService(
		usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool)),
		usecase.NewSupplierUseCase(postgres.NewSupplierRepository(pool)),
		log,
	)
	resp, err := svc.Seed(ctx, tenant.ID, entries)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar")
	}
	log.Info().
		Str("tenant", tenant.Name).
		Int("categories_created", resp.CategoriesCreated).
		Int("suppliers_created", resp.SuppliersCreated).
		Int("skipped", resp.Skipped).
		Msg("siembra completada")
}
