package sales

import (
	"context"
	"fmt"
	"sort"
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

// OrderUseCase pedidos de venta. Crear descuenta stock (los packs descuentan sus componentes);
// cancelar desde pending o paid lo repone.
type OrderUseCase struct {
	txRunner     repository.TxRunner
	repo         repository.OrderRepository
	customerRepo repository.CustomerRepository
	cache        ports.DashboardCache
	log          *logger.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner repository.TxRunner,
	repo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	cache ports.DashboardCache,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner:     txRunner,
		repo:         repo,
		customerRepo: customerRepo,
		cache:        cache,
		log:          log.Component("order"),
	}
}

// Create registra el pedido en una transacción: bloquea los productos con stock en orden de ID,
// valida disponibilidad, descuenta y congela el costo unitario de cada línea.
func (uc *OrderUseCase) Create(ctx context.Context, tenantID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el pedido no tiene ítems", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID == "" || !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: ítem %d requiere producto y cantidad > 0", domain.ErrInvalidInput, i+1)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
		if seen[it.ProductID] {
			return nil, fmt.Errorf("%w: producto %s repetido", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = true
	}
	customerID, customerName, err := resolveCustomer(ctx, uc.customerRepo, tenantID, in.CustomerID, in.CustomerName)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		CustomerID:   customerID,
		CustomerName: customerName,
		Status:       entity.OrderPending,
		Total:        decimal.Zero,
		CostTotal:    decimal.Zero,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var items []*entity.OrderItem

	err = uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		lines := make([]line, 0, len(in.Items))
		for _, it := range in.Items {
			lines = append(lines, line{productID: it.ProductID, quantity: it.Quantity})
		}
		products, need, err := stockNeeds(ctx, r, tenantID, lines, true)
		if err != nil {
			return err
		}
		locked, err := lockStock(ctx, r, tenantID, need)
		if err != nil {
			return err
		}
		for _, id := range sortedKeys(need) {
			p := locked[id]
			if p.Stock.LessThan(need[id]) {
				return fmt.Errorf("%w: %s (disponible %s, requerido %s)", domain.ErrInsufficientStock, p.Name, p.Stock, need[id])
			}
			if err := r.Products.AddStock(ctx, tenantID, id, need[id].Neg()); err != nil {
				return err
			}
		}

		for _, it := range in.Items {
			p := products[it.ProductID]
			if l, ok := locked[p.ID]; ok {
				p = l
			}
			price := it.UnitPrice
			if price.IsZero() {
				price = p.SalePrice
			}
			sub := pricing.Subtotal(it.Quantity, price).Round(2)
			items = append(items, &entity.OrderItem{
				ID:          uuid.New().String(),
				OrderID:     order.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   price,
				UnitCost:    p.CostPrice,
				Subtotal:    sub,
			})
			order.Total = order.Total.Add(sub)
			order.CostTotal = order.CostTotal.Add(it.Quantity.Mul(p.CostPrice))
		}
		order.CostTotal = order.CostTotal.Round(2)

		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range items {
			if err := r.Orders.CreateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("pedido revertido")
		return nil, err
	}
	uc.invalidate(ctx, tenantID)
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("order_id", order.ID).
		Str("total", order.Total.String()).
		Int("items", len(items)).
		Msg("pedido registrado")
	return toOrderResponse(order, items), nil
}

// UpdateStatus avanza el pedido por pending → paid → shipped → delivered.
// Pasar a cancelled desde pending o paid repone el stock descontado.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, tenantID, id, status string) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		var err error
		if order, err = r.Orders.GetForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransitionOrder(order.Status, status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, order.Status, status)
		}
		if status == entity.OrderCancelled {
			if err := restoreStock(ctx, r, tenantID, order.ID); err != nil {
				return err
			}
		}
		now := time.Now()
		if err := r.Orders.UpdateStatus(ctx, tenantID, id, status, now); err != nil {
			return err
		}
		order.Status, order.UpdatedAt = status, now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, tenantID)
	uc.log.Info().Str("tenant_id", tenantID).Str("order_id", id).Str("status", status).Msg("estado de pedido actualizado")
	return uc.GetByID(ctx, tenantID, id)
}

// GetByID pedido con sus líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.OrderResponse, error) {
	o, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.repo.ListItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o, items), nil
}

func (uc *OrderUseCase) List(ctx context.Context, tenantID string, in dto.OrderListRequest) ([]dto.OrderResponse, error) {
	in.Normalize()
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	list, err := uc.repo.List(ctx, tenantID, repository.OrderFilter{
		Status:     in.Status,
		CustomerID: in.CustomerID,
		From:       from,
		To:         to,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o, nil))
	}
	return out, nil
}

func (uc *OrderUseCase) invalidate(ctx context.Context, tenantID string) {
	if err := uc.cache.Invalidate(ctx, tenantID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar la caché del dashboard")
	}
}

// line cantidad pedida de un producto (simple o pack).
type line struct {
	productID string
	quantity  decimal.Decimal
}

// stockNeeds lee los productos de las líneas y devuelve cuánto stock físico se mueve por producto:
// un pack se expande a sus componentes multiplicando por la cantidad pedida.
func stockNeeds(ctx context.Context, r repository.TxRepositories, tenantID string, lines []line, requireActive bool) (map[string]*entity.Product, map[string]decimal.Decimal, error) {
	products := make(map[string]*entity.Product, len(lines))
	need := make(map[string]decimal.Decimal)
	for _, l := range lines {
		p, err := r.Products.GetByID(ctx, tenantID, l.productID)
		if err != nil {
			return nil, nil, err
		}
		if p == nil {
			return nil, nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, l.productID)
		}
		if requireActive && !p.Active {
			return nil, nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, p.Name)
		}
		products[p.ID] = p
		if !p.IsPack {
			need[p.ID] = need[p.ID].Add(l.quantity)
			continue
		}
		offer, err := r.Offers.GetByProductID(ctx, tenantID, p.ID)
		if err != nil {
			return nil, nil, err
		}
		if offer == nil {
			return nil, nil, fmt.Errorf("%w: pack %s sin oferta asociada", domain.ErrInvalidInput, p.Name)
		}
		components, err := r.Offers.ListItems(ctx, offer.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range components {
			need[c.ProductID] = need[c.ProductID].Add(c.Quantity.Mul(l.quantity))
		}
	}
	return products, need, nil
}

// lockStock bloquea (SELECT FOR UPDATE) los productos con stock en orden de ID.
func lockStock(ctx context.Context, r repository.TxRepositories, tenantID string, need map[string]decimal.Decimal) (map[string]*entity.Product, error) {
	locked := make(map[string]*entity.Product, len(need))
	for _, id := range sortedKeys(need) {
		p, err := r.Products.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, id)
		}
		locked[id] = p
	}
	return locked, nil
}

// restoreStock devuelve al inventario lo descontado por las líneas del pedido.
func restoreStock(ctx context.Context, r repository.TxRepositories, tenantID, orderID string) error {
	items, err := r.Orders.ListItems(ctx, orderID)
	if err != nil {
		return err
	}
	lines := make([]line, 0, len(items))
	for _, it := range items {
		lines = append(lines, line{productID: it.ProductID, quantity: it.Quantity})
	}
	_, need, err := stockNeeds(ctx, r, tenantID, lines, false)
	if err != nil {
		return err
	}
	if _, err := lockStock(ctx, r, tenantID, need); err != nil {
		return err
	}
	for _, id := range sortedKeys(need) {
		if err := r.Products.AddStock(ctx, tenantID, id, need[id]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toOrderResponse(o *entity.Order, items []*entity.OrderItem) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Total:        o.Total,
		Margin:       o.Total.Sub(o.CostTotal),
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}
