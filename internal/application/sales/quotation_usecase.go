// Package sales contiene los casos de uso de venta: cotizaciones, pedidos con descuento de stock,
// el dashboard del día/mes y el reporte de márgenes.
package sales

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/pricing"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

const defaultValidDays = 15

// QuotationUseCase cotizaciones a clientes. Nunca mueven stock.
type QuotationUseCase struct {
	txRunner     repository.TxRunner
	repo         repository.QuotationRepository
	customerRepo repository.CustomerRepository
	taxRate      decimal.Decimal
	log          *logger.Logger
}

// NewQuotationUseCase construye el caso de uso. taxRate es el porcentaje de IVA.
func NewQuotationUseCase(
	txRunner repository.TxRunner,
	repo repository.QuotationRepository,
	customerRepo repository.CustomerRepository,
	taxRate decimal.Decimal,
	log *logger.Logger,
) *QuotationUseCase {
	return &QuotationUseCase{
		txRunner:     txRunner,
		repo:         repo,
		customerRepo: customerRepo,
		taxRate:      taxRate,
		log:          log.Component("quotation"),
	}
}

// Create numera la cotización (COT-n por tenant), valora las líneas y guarda cabecera e ítems.
func (uc *QuotationUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la cotización no tiene ítems", domain.ErrInvalidInput)
	}
	if in.ValidDays < 0 {
		return nil, fmt.Errorf("%w: valid_days no puede ser negativo", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d requiere producto y cantidad > 0", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		if !pricing.ValidDiscount(it.DiscountPercent) {
			return nil, fmt.Errorf("%w: ítem %d con descuento fuera de 0..100", domain.ErrInvalidInput, i+1)
		}
	}
	customerID, customerName, err := resolveCustomer(ctx, uc.customerRepo, tenantID, in.CustomerID, in.CustomerName)
	if err != nil {
		return nil, err
	}

	days := in.ValidDays
	if days == 0 {
		days = defaultValidDays
	}
	now := time.Now()
	q := &entity.Quotation{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		CustomerID:   customerID,
		CustomerName: customerName,
		Status:       entity.QuotationDraft,
		ValidUntil:   now.AddDate(0, 0, days),
		TaxRate:      uc.taxRate,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var items []*entity.QuotationItem

	err = uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		last, err := r.Quotations.LastSequence(ctx, tenantID)
		if err != nil {
			return err
		}
		q.Sequence = last + 1
		q.Number = entity.QuotationNumber(q.Sequence)

		subtotals := make([]decimal.Decimal, 0, len(in.Items))
		for _, it := range in.Items {
			p, err := r.Products.GetByID(ctx, tenantID, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, it.ProductID)
			}
			if !p.Active {
				return fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, p.Name)
			}
			price := it.UnitPrice
			if price.IsZero() {
				price = p.SalePrice
			}
			sub := pricing.ApplyDiscount(pricing.Subtotal(it.Quantity, price), it.DiscountPercent).Round(2)
			subtotals = append(subtotals, sub)
			items = append(items, &entity.QuotationItem{
				ID:              uuid.New().String(),
				QuotationID:     q.ID,
				ProductID:       p.ID,
				ProductName:     p.Name,
				Quantity:        it.Quantity,
				UnitPrice:       price,
				DiscountPercent: it.DiscountPercent,
				Subtotal:        sub,
			})
		}
		totals := pricing.ComputeTotals(subtotals, uc.taxRate)
		q.NetTotal, q.TaxTotal, q.GrandTotal = totals.Net, totals.Tax, totals.Grand

		if err := r.Quotations.Create(ctx, q); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Quotations.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("number", q.Number).Str("total", q.GrandTotal.String()).Msg("cotización creada")
	return toQuotationResponse(q, items), nil
}

// UpdateStatus aplica la máquina de estados draft → sent → accepted | rejected | expired.
func (uc *QuotationUseCase) UpdateStatus(ctx context.Context, tenantID, id, status string) (*dto.QuotationResponse, error) {
	q, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransitionQuotation(q.Status, status) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, q.Status, status)
	}
	if err := uc.repo.UpdateStatus(ctx, tenantID, id, status, time.Now()); err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("number", q.Number).Str("status", status).Msg("estado de cotización actualizado")
	return uc.GetByID(ctx, tenantID, id)
}

// GetByID cotización con sus líneas.
func (uc *QuotationUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.QuotationResponse, error) {
	q, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repo.ListItems(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return toQuotationResponse(q, items), nil
}

func (uc *QuotationUseCase) List(ctx context.Context, tenantID string, in dto.QuotationListRequest) ([]dto.QuotationResponse, error) {
	in.Normalize()
	list, err := uc.repo.List(ctx, tenantID, repository.QuotationFilter{
		Status: in.Status,
		Page:   repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, *toQuotationResponse(q, nil))
	}
	return out, nil
}

// resolveCustomer devuelve la referencia y el nombre a guardar en el documento.
// Con customerID el cliente debe existir; sin él basta un nombre libre.
func resolveCustomer(ctx context.Context, repo repository.CustomerRepository, tenantID, customerID, name string) (*string, string, error) {
	name = strings.TrimSpace(name)
	if customerID == "" {
		if name == "" {
			return nil, "", fmt.Errorf("%w: cliente requerido", domain.ErrInvalidInput)
		}
		return nil, name, nil
	}
	c, err := repo.GetByID(ctx, tenantID, customerID)
	if err != nil {
		return nil, "", err
	}
	if c == nil {
		return nil, "", fmt.Errorf("%w: cliente %s no existe", domain.ErrInvalidInput, customerID)
	}
	if name == "" {
		name = c.Name
	}
	return &c.ID, name, nil
}

func toQuotationResponse(q *entity.Quotation, items []*entity.QuotationItem) *dto.QuotationResponse {
	out := &dto.QuotationResponse{
		ID:           q.ID,
		Number:       q.Number,
		CustomerID:   q.CustomerID,
		CustomerName: q.CustomerName,
		Status:       q.Status,
		ValidUntil:   dto.FormatDate(q.ValidUntil),
		NetTotal:     q.NetTotal,
		TaxRate:      q.TaxRate,
		TaxTotal:     q.TaxTotal,
		GrandTotal:   q.GrandTotal,
		Notes:        q.Notes,
		CreatedAt:    q.CreatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.QuotationItemResponse{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			DiscountPercent: it.DiscountPercent,
			Subtotal:        it.Subtotal,
		})
	}
	return out
}
