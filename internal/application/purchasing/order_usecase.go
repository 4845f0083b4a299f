package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/application/ports"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/pricing"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

// OrderUseCase órdenes de compra: numeración por proveedor, estados y PDF.
type OrderUseCase struct {
	txRunner     repository.TxRunner
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	tenantRepo   repository.TenantRepository
	renderer     ports.PurchaseOrderRenderer
	log          *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner repository.TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	tenantRepo repository.TenantRepository,
	renderer ports.PurchaseOrderRenderer,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		tenantRepo:   tenantRepo,
		renderer:     renderer,
		log:          log.Component("purchase_order"),
	}
}

// Register crea la orden en estado pending. La fila del proveedor se bloquea para que dos
// órdenes concurrentes no lean el mismo correlativo. Actualiza el costo de cada producto; no toca stock.
func (uc *OrderUseCase) Register(ctx context.Context, tenantID, userID string, in dto.RegisterPurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.SupplierID == "" {
		return nil, fmt.Errorf("%w: proveedor requerido", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() || it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: línea %d requiere producto, cantidad > 0 y costo >= 0", domain.ErrInvalidInput, i+1)
		}
		if seen[it.ProductID] {
			return nil, fmt.Errorf("%w: producto %s repetido en la orden", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = true
	}
	expected, err := dto.ParseOptionalDate(in.ExpectedDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		SupplierID:   in.SupplierID,
		Status:       entity.PurchaseOrderPending,
		ExpectedDate: expected,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	total := decimal.Zero
	for _, it := range in.Items {
		total = total.Add(pricing.Subtotal(it.Quantity, it.UnitCost))
	}
	order.Total = total

	var (
		supplier *entity.Supplier
		items    []*entity.PurchaseOrderItem
	)
	err = uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		var err error
		supplier, err = r.Suppliers.GetForUpdate(ctx, tenantID, in.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, in.SupplierID)
		}
		last, err := r.PurchaseOrders.LastCorrelative(ctx, tenantID, supplier.ID)
		if err != nil {
			return err
		}
		order.Correlative = last + 1
		order.Number = entity.PurchaseOrderNumber(supplier.Code, order.Correlative)
		if err := r.PurchaseOrders.Create(ctx, order); err != nil {
			return err
		}
		for _, line := range in.Items {
			product, err := r.Products.GetForUpdate(ctx, tenantID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, line.ProductID)
			}
			if product.IsPack {
				return fmt.Errorf("%w: %s es un pack, se compran sus componentes", domain.ErrInvalidInput, product.Name)
			}
			item := &entity.PurchaseOrderItem{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitCost:    line.UnitCost,
				Subtotal:    pricing.Subtotal(line.Quantity, line.UnitCost),
			}
			if err := r.PurchaseOrders.CreateItem(ctx, item); err != nil {
				return err
			}
			if err := r.Products.UpdateCost(ctx, tenantID, product.ID, line.UnitCost); err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("order_id", order.ID).
		Str("number", order.Number).
		Str("total", order.Total.String()).
		Msg("orden de compra registrada")
	return toOrderResponse(order, supplier, items), nil
}

// UpdateStatus aplica una transición: pending → approved|cancelled, approved → received|cancelled.
// Recibir una orden no modifica stock; la mercadería entra con la factura de compra.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, tenantID, id, status string) (*dto.PurchaseOrderResponse, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		var err error
		order, err = r.PurchaseOrders.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransitionPurchaseOrder(order.Status, status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, status)
		}
		now := time.Now()
		if err := r.PurchaseOrders.UpdateStatus(ctx, tenantID, id, status, now); err != nil {
			return err
		}
		order.Status = status
		order.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("number", order.Number).Str("status", status).Msg("estado de orden de compra actualizado")
	return uc.GetByID(ctx, tenantID, id)
}

// GetByID orden con proveedor y líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.PurchaseOrderResponse, error) {
	doc, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(doc.Order, doc.Supplier, doc.Items), nil
}

// List órdenes del tenant con el nombre del proveedor.
func (uc *OrderUseCase) List(ctx context.Context, tenantID string, in dto.PurchaseOrderListRequest) ([]dto.PurchaseOrderResponse, error) {
	in.Normalize()
	list, err := uc.orderRepo.List(ctx, tenantID, repository.PurchaseOrderFilter{
		SupplierID: in.SupplierID,
		Status:     in.Status,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	suppliers := map[string]*entity.Supplier{}
	out := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, o := range list {
		sup, ok := suppliers[o.SupplierID]
		if !ok {
			if sup, err = uc.supplierRepo.GetByID(ctx, tenantID, o.SupplierID); err != nil {
				return nil, err
			}
			suppliers[o.SupplierID] = sup
		}
		out = append(out, *toOrderResponse(o, sup, nil))
	}
	return out, nil
}

// RenderPDF genera el PDF imprimible de la orden.
func (uc *OrderUseCase) RenderPDF(ctx context.Context, tenantID, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("purchase order: renderer PDF no configurado")
	}
	doc, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}
	tenant, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, "", err
	}
	if tenant == nil {
		return nil, "", domain.ErrNotFound
	}
	doc.Tenant = tenant
	pdf, err := uc.renderer.RenderPurchaseOrder(*doc)
	if err != nil {
		return nil, "", fmt.Errorf("purchase order: pdf: %w", err)
	}
	return pdf, doc.Order.Number + ".pdf", nil
}

func (uc *OrderUseCase) load(ctx context.Context, tenantID, id string) (*ports.PurchaseOrderDocument, error) {
	order, err := uc.orderRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, tenantID, order.SupplierID)
	if err != nil {
		return nil, err
	}
	items, err := uc.orderRepo.ListItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &ports.PurchaseOrderDocument{Supplier: supplier, Order: order, Items: items}, nil
}

func toOrderResponse(o *entity.PurchaseOrder, supplier *entity.Supplier, items []*entity.PurchaseOrderItem) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:         o.ID,
		Number:     o.Number,
		SupplierID: o.SupplierID,
		Status:     o.Status,
		Total:      o.Total,
		Notes:      o.Notes,
		CreatedAt:  o.CreatedAt,
	}
	if supplier != nil {
		resp.SupplierName = supplier.Name
	}
	if o.ExpectedDate != nil {
		resp.ExpectedDate = dto.FormatDate(*o.ExpectedDate)
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.PurchaseOrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}
