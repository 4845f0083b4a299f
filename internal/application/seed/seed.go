// Package seed carga categorías y proveedores iniciales de un tenant.
// Es idempotente: los nombres que ya existen se cuentan como omitidos.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/usecase"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

// Tipos de fila aceptados.
const (
	KindCategory = "category"
	KindSupplier = "supplier"
)

// Entry fila a sembrar.
type Entry struct {
	Kind  string
	Name  string
	TaxID string
	Email string
	Phone string
}

// DefaultEntries catálogo base para un almacén de barrio.
func DefaultEntries() []Entry {
	categories := []string{
		"Abarrotes", "Bebidas", "Lácteos", "Panadería", "Carnes y fiambres",
		"Frutas y verduras", "Congelados", "Snacks y confites", "Limpieza", "Higiene personal",
	}
	out := make([]Entry, 0, len(categories)+4)
	for _, c := range categories {
		out = append(out, Entry{Kind: KindCategory, Name: c})
	}
	out = append(out,
		Entry{Kind: KindSupplier, Name: "Distribuidora Central"},
		Entry{Kind: KindSupplier, Name: "Lácteos del Sur"},
		Entry{Kind: KindSupplier, Name: "Bebidas y Jugos Andinos"},
		Entry{Kind: KindSupplier, Name: "Panificadora San José"},
	)
	return out
}

// ParseCSV lee filas kind,name,tax_id,email,phone. La cabecera es opcional
// y las columnas después de name también.
func ParseCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Entry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("seed: csv línea %d: %w", line, err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		kind := strings.ToLower(strings.TrimSpace(rec[0]))
		if line == 1 && kind == "kind" {
			continue
		}
		if kind != KindCategory && kind != KindSupplier {
			return nil, fmt.Errorf("%w: csv línea %d: tipo %q", domain.ErrInvalidInput, line, rec[0])
		}
		e := Entry{Kind: kind, Name: field(rec, 1), TaxID: field(rec, 2), Email: field(rec, 3), Phone: field(rec, 4)}
		if e.Name == "" {
			return nil, fmt.Errorf("%w: csv línea %d: nombre vacío", domain.ErrInvalidInput, line)
		}
		out = append(out, e)
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

// Service siembra usando los casos de uso de catálogo (validaciones y códigos de proveedor incluidos).
type Service struct {
	categories *usecase.CategoryUseCase
	suppliers  *usecase.SupplierUseCase
	log        *logger.Logger
}

// NewService construye el servicio de siembra.
func NewService(categories *usecase.CategoryUseCase, suppliers *usecase.SupplierUseCase, log *logger.Logger) *Service {
	return &Service{categories: categories, suppliers: suppliers, log: log.Component("seed")}
}

// SeedDefaults siembra DefaultEntries.
func (s *Service) SeedDefaults(ctx context.Context, tenantID string) (*dto.SeedResponse, error) {
	return s.Seed(ctx, tenantID, DefaultEntries())
}

// Seed crea las entradas que no existen. Se detiene ante el primer error que no sea duplicado.
func (s *Service) Seed(ctx context.Context, tenantID string, entries []Entry) (*dto.SeedResponse, error) {
	resp := &dto.SeedResponse{}
	for _, e := range entries {
		var err error
		switch e.Kind {
		case KindCategory:
			_, err = s.categories.Create(ctx, tenantID, dto.CategoryRequest{Name: e.Name})
			if err == nil {
				resp.CategoriesCreated++
			}
		case KindSupplier:
			_, err = s.suppliers.Create(ctx, tenantID, dto.SupplierRequest{Name: e.Name, TaxID: e.TaxID, Email: e.Email, Phone: e.Phone})
			if err == nil {
				resp.SuppliersCreated++
			}
		default:
			err = fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, e.Kind)
		}
		if errors.Is(err, domain.ErrDuplicate) {
			resp.Skipped++
			continue
		}
		if err != nil {
			return resp, fmt.Errorf("seed: %s %q: %w", e.Kind, e.Name, err)
		}
	}
	s.log.Info().
		Str("tenant_id", tenantID).
		Int("categories", resp.CategoriesCreated).
		Int("suppliers", resp.SuppliersCreated).
		Int("skipped", resp.Skipped).
		Msg("seed aplicado")
	return resp, nil
}
