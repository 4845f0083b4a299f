// migrate aplica los scripts de migrations/ que aún no están en schema_migrations.
//
// Uso: go run ./cmd/migrate [-list]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/tienda-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/tienda-erp/migrations"
	"github.com/jhoicas/tienda-erp/pkg/config"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

func main() {
	list := flag.Bool("list", false, "solo listar los scripts embebidos")
	flag.Parse()

	if *list {
		names, err := migrations.Names()
		if err != nil {
			fmt.Fprintf(os.Stderr, "listar migraciones: %v\n", err)
			os.Exit(1)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := migrations.Apply(ctx, pool)
	for _, name := range applied {
		log.Info().Str("script", name).Msg("migración aplicada")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("migración fallida")
	}
	if len(applied) == 0 {
		log.Info().Msg("esquema al día")
	}
}
