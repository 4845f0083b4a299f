// Package purchasing registra facturas y órdenes de compra.
// Las facturas suman stock y sobrescriben precios; las órdenes solo comprometen compra y actualizan costo.
package purchasing

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

// InvoiceUseCase registro y consulta de facturas de compra.
type InvoiceUseCase struct {
	txRunner     repository.TxRunner
	invoiceRepo  repository.PurchaseInvoiceRepository
	categoryRepo repository.CategoryRepository
	taxRate      decimal.Decimal
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso. taxRate es el porcentaje de IVA.
func NewInvoiceUseCase(
	txRunner repository.TxRunner,
	invoiceRepo repository.PurchaseInvoiceRepository,
	categoryRepo repository.CategoryRepository,
	taxRate decimal.Decimal,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		categoryRepo: categoryRepo,
		taxRate:      taxRate,
		log:          log.Component("purchase_invoice"),
	}
}

// Register registra la factura en una única transacción. Por cada línea:
// bloquea (o crea) el producto, guarda la fila de auditoría con costo anterior/nuevo y margen,
// suma la cantidad al stock y sobrescribe costo y precio de venta. Cualquier error revierte todo.
func (uc *InvoiceUseCase) Register(ctx context.Context, tenantID, userID string, in dto.RegisterPurchaseInvoiceRequest) (*dto.PurchaseInvoiceResponse, error) {
	if err := uc.validate(ctx, tenantID, &in); err != nil {
		return nil, err
	}
	invoiceDate, err := dto.ParseDate(in.InvoiceDate, time.Now())
	if err != nil {
		return nil, err
	}

	subtotals := make([]decimal.Decimal, len(in.Items))
	for i, it := range in.Items {
		subtotals[i] = pricing.Subtotal(it.Quantity, it.UnitCost)
	}
	totals := pricing.ComputeTotals(subtotals, uc.taxRate)

	now := time.Now()
	invoice := &entity.PurchaseInvoice{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		SupplierID:    in.SupplierID,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		InvoiceDate:   invoiceDate,
		NetTotal:      totals.Net,
		TaxRate:       uc.taxRate,
		TaxTotal:      totals.Tax,
		GrandTotal:    totals.Grand,
		Notes:         strings.TrimSpace(in.Notes),
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	var items []*entity.PurchaseInvoiceItem

	err = uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		supplier, err := r.Suppliers.GetByID(ctx, tenantID, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, in.SupplierID)
		}
		dup, err := r.PurchaseInvoices.GetByNumber(ctx, tenantID, in.SupplierID, invoice.InvoiceNumber)
		if err != nil {
			return err
		}
		if dup != nil {
			return fmt.Errorf("%w: factura %s ya registrada para el proveedor", domain.ErrDuplicate, invoice.InvoiceNumber)
		}
		if err := r.PurchaseInvoices.Create(ctx, invoice); err != nil {
			return err
		}
		for i, line := range in.Items {
			item, err := uc.registerLine(ctx, r, tenantID, supplier.ID, invoice.ID, line, subtotals[i], now)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("tenant_id", tenantID).
			Str("invoice_number", invoice.InvoiceNumber).
			Msg("registro de factura revertido")
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Int("items", len(items)).
		Str("total", invoice.GrandTotal.String()).
		Msg("factura de compra registrada")
	return toInvoiceResponse(invoice, items), nil
}

func (uc *InvoiceUseCase) registerLine(
	ctx context.Context,
	r repository.TxRepositories,
	tenantID, supplierID, invoiceID string,
	line dto.PurchaseInvoiceItemInput,
	subtotal decimal.Decimal,
	now time.Time,
) (*entity.PurchaseInvoiceItem, error) {
	product, created, err := uc.lockOrCreateProduct(ctx, r, tenantID, supplierID, line, now)
	if err != nil {
		return nil, err
	}
	previousCost := product.CostPrice
	if created {
		previousCost = decimal.Zero
	}
	salePrice := line.SalePrice
	if salePrice.IsZero() {
		salePrice = product.SalePrice
	}

	item := &entity.PurchaseInvoiceItem{
		ID:             uuid.New().String(),
		InvoiceID:      invoiceID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       line.Quantity,
		PreviousCost:   previousCost,
		NewCost:        line.UnitCost,
		SalePrice:      salePrice,
		Margin:         pricing.Margin(salePrice, line.UnitCost),
		Subtotal:       subtotal,
		ProductCreated: created,
	}
	if err := r.PurchaseInvoices.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := r.Products.AddStock(ctx, tenantID, product.ID, line.Quantity); err != nil {
		return nil, err
	}
	if err := r.Products.UpdatePricing(ctx, tenantID, product.ID, line.UnitCost, salePrice); err != nil {
		return nil, err
	}
	return item, nil
}

// lockOrCreateProduct resuelve la línea a un producto bloqueado; si el SKU no existe lo crea con stock 0.
func (uc *InvoiceUseCase) lockOrCreateProduct(
	ctx context.Context,
	r repository.TxRepositories,
	tenantID, supplierID string,
	line dto.PurchaseInvoiceItemInput,
	now time.Time,
) (*entity.Product, bool, error) {
	id := line.ProductID
	if id == "" {
		existing, err := r.Products.GetBySKU(ctx, tenantID, strings.TrimSpace(line.SKU))
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			id = existing.ID
		}
	}
	if id != "" {
		product, err := r.Products.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, false, err
		}
		if product == nil {
			return nil, false, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, id)
		}
		if product.IsPack {
			return nil, false, fmt.Errorf("%w: %s es un pack, se compran sus componentes", domain.ErrInvalidInput, product.Name)
		}
		return product, false, nil
	}

	if strings.TrimSpace(line.Name) == "" {
		return nil, false, fmt.Errorf("%w: sku %s no existe y la línea no trae nombre", domain.ErrInvalidInput, line.SKU)
	}
	product := &entity.Product{
		ID:         uuid.New().String(),
		TenantID:   tenantID,
		SKU:        strings.TrimSpace(line.SKU),
		Name:       strings.TrimSpace(line.Name),
		SupplierID: &supplierID,
		CostPrice:  line.UnitCost,
		SalePrice:  line.SalePrice,
		Stock:      decimal.Zero,
		MinStock:   decimal.Zero,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if line.CategoryID != "" {
		categoryID := line.CategoryID
		product.CategoryID = &categoryID
	}
	if err := r.Products.Create(ctx, product); err != nil {
		return nil, false, err
	}
	return product, true, nil
}

// validate corta antes de abrir la transacción.
func (uc *InvoiceUseCase) validate(ctx context.Context, tenantID string, in *dto.RegisterPurchaseInvoiceRequest) error {
	if in.SupplierID == "" || strings.TrimSpace(in.InvoiceNumber) == "" {
		return fmt.Errorf("%w: proveedor y número de factura requeridos", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la factura no tiene líneas", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		n := i + 1
		if it.ProductID == "" && strings.TrimSpace(it.SKU) == "" {
			return fmt.Errorf("%w: línea %d sin producto ni sku", domain.ErrInvalidInput, n)
		}
		if !it.Quantity.IsPositive() {
			return fmt.Errorf("%w: línea %d cantidad debe ser mayor a 0", domain.ErrInvalidInput, n)
		}
		if it.UnitCost.IsNegative() || it.SalePrice.IsNegative() {
			return fmt.Errorf("%w: línea %d costo y precio no pueden ser negativos", domain.ErrInvalidInput, n)
		}
		if it.CategoryID != "" {
			c, err := uc.categoryRepo.GetByID(ctx, tenantID, it.CategoryID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: línea %d categoría %s no existe", domain.ErrInvalidInput, n, it.CategoryID)
			}
		}
	}
	return nil
}

// GetByID factura con sus líneas.
func (uc *InvoiceUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.PurchaseInvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.ListItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, items), nil
}

// List facturas del tenant (sin líneas).
func (uc *InvoiceUseCase) List(ctx context.Context, tenantID string, in dto.PurchaseInvoiceListRequest) ([]dto.PurchaseInvoiceResponse, error) {
	in.Normalize()
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	list, err := uc.invoiceRepo.List(ctx, tenantID, repository.PurchaseInvoiceFilter{
		SupplierID: in.SupplierID,
		From:       from,
		To:         to,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseInvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInvoiceResponse(inv, nil))
	}
	return out, nil
}

func toInvoiceResponse(inv *entity.PurchaseInvoice, items []*entity.PurchaseInvoiceItem) *dto.PurchaseInvoiceResponse {
	resp := &dto.PurchaseInvoiceResponse{
		ID:            inv.ID,
		SupplierID:    inv.SupplierID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   dto.FormatDate(inv.InvoiceDate),
		NetTotal:      inv.NetTotal,
		TaxRate:       inv.TaxRate,
		TaxTotal:      inv.TaxTotal,
		GrandTotal:    inv.GrandTotal,
		Notes:         inv.Notes,
		CreatedAt:     inv.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.PurchaseInvoiceItemResponse{
			ID:             it.ID,
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			Quantity:       it.Quantity,
			PreviousCost:   it.PreviousCost,
			NewCost:        it.NewCost,
			SalePrice:      it.SalePrice,
			Margin:         it.Margin,
			Subtotal:       it.Subtotal,
			ProductCreated: it.ProductCreated,
		})
	}
	return resp
}
