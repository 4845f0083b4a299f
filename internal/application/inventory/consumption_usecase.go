package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-erp/internal/application/dto"
	"github.com/jhoicas/tienda-erp/internal/domain"
	"github.com/jhoicas/tienda-erp/internal/domain/entity"
	"github.com/jhoicas/tienda-erp/internal/domain/repository"
	"github.com/jhoicas/tienda-erp/pkg/logger"
)

// ConsumptionUseCase consumo interno: bajas de stock que no son ventas (merma, uso propio, degustación).
// Todas las escrituras bloquean la fila del producto (SELECT FOR UPDATE) antes de validar stock.
type ConsumptionUseCase struct {
	txRunner repository.TxRunner
	repo     repository.ConsumptionRepository
	log      *logger.Logger
}

// NewConsumptionUseCase construye el caso de uso.
func NewConsumptionUseCase(txRunner repository.TxRunner, repo repository.ConsumptionRepository, log *logger.Logger) *ConsumptionUseCase {
	return &ConsumptionUseCase{txRunner: txRunner, repo: repo, log: log.Component("consumption")}
}

// Create descuenta la cantidad del stock y registra el costo al valor actual del producto.
func (uc *ConsumptionUseCase) Create(ctx context.Context, tenantID, userID string, in dto.ConsumptionRequest) (*dto.ConsumptionResponse, error) {
	if in.ProductID == "" || !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: producto y cantidad > 0 requeridos", domain.ErrInvalidInput)
	}
	date, err := dto.ParseDate(in.Date, time.Now())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c := &entity.InternalConsumption{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Reason:    strings.TrimSpace(in.Reason),
		Date:      date,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		products, err := lockProducts(ctx, r, tenantID, in.ProductID)
		if err != nil {
			return err
		}
		p := products[in.ProductID]
		if err := deduct(ctx, r, p, in.Quantity); err != nil {
			return err
		}
		c.ProductName = p.Name
		c.UnitCost = p.CostPrice
		c.TotalCost = in.Quantity.Mul(p.CostPrice)
		return r.Consumptions.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", tenantID).
		Str("consumption_id", c.ID).
		Str("product_id", c.ProductID).
		Str("quantity", c.Quantity.String()).
		Msg("consumo interno registrado")
	return toConsumptionResponse(c), nil
}

// Update cambia cantidad, producto, motivo o fecha reconciliando el stock:
// mismo producto aplica solo la diferencia; otro producto repone el anterior y descuenta del nuevo.
func (uc *ConsumptionUseCase) Update(ctx context.Context, tenantID, id string, in dto.ConsumptionRequest) (*dto.ConsumptionResponse, error) {
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad debe ser mayor a 0", domain.ErrInvalidInput)
	}

	var c *entity.InternalConsumption
	err := uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		var err error
		if c, err = r.Consumptions.GetForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		newProductID := in.ProductID
		if newProductID == "" {
			newProductID = c.ProductID
		}
		date, err := dto.ParseDate(in.Date, c.Date)
		if err != nil {
			return err
		}

		products, err := lockProducts(ctx, r, tenantID, c.ProductID, newProductID)
		if err != nil {
			return err
		}
		next := products[newProductID]

		if newProductID == c.ProductID {
			delta := in.Quantity.Sub(c.Quantity)
			if delta.IsPositive() {
				if err := deduct(ctx, r, next, delta); err != nil {
					return err
				}
			} else if delta.IsNegative() {
				if err := r.Products.AddStock(ctx, tenantID, next.ID, delta.Neg()); err != nil {
					return err
				}
			}
		} else {
			if err := r.Products.AddStock(ctx, tenantID, c.ProductID, c.Quantity); err != nil {
				return err
			}
			if err := deduct(ctx, r, next, in.Quantity); err != nil {
				return err
			}
			c.UnitCost = next.CostPrice
		}

		c.ProductID = next.ID
		c.ProductName = next.Name
		c.Quantity = in.Quantity
		c.TotalCost = in.Quantity.Mul(c.UnitCost)
		if in.Reason != "" {
			c.Reason = strings.TrimSpace(in.Reason)
		}
		c.Date = date
		c.UpdatedAt = time.Now()
		return r.Consumptions.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("consumption_id", c.ID).Str("quantity", c.Quantity.String()).Msg("consumo interno actualizado")
	return toConsumptionResponse(c), nil
}

// Delete repone la cantidad registrada y elimina el consumo.
func (uc *ConsumptionUseCase) Delete(ctx context.Context, tenantID, id string) error {
	err := uc.txRunner.Run(ctx, func(r repository.TxRepositories) error {
		c, err := r.Consumptions.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if _, err := lockProducts(ctx, r, tenantID, c.ProductID); err != nil {
			return err
		}
		if err := r.Products.AddStock(ctx, tenantID, c.ProductID, c.Quantity); err != nil {
			return err
		}
		return r.Consumptions.Delete(ctx, tenantID, c.ID)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("tenant_id", tenantID).Str("consumption_id", id).Msg("consumo interno eliminado")
	return nil
}

func (uc *ConsumptionUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ConsumptionResponse, error) {
	c, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toConsumptionResponse(c), nil
}

func (uc *ConsumptionUseCase) List(ctx context.Context, tenantID string, in dto.ConsumptionListRequest) ([]dto.ConsumptionResponse, error) {
	in.Normalize()
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx, tenantID, repository.ConsumptionFilter{
		ProductID: in.ProductID,
		From:      from,
		To:        to,
		Page:      repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ConsumptionResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toConsumptionResponse(c))
	}
	return out, nil
}

// lockProducts bloquea los productos en orden de ID para que dos transacciones no se crucen.
func lockProducts(ctx context.Context, r repository.TxRepositories, tenantID string, ids ...string) (map[string]*entity.Product, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make(map[string]*entity.Product, len(sorted))
	for _, id := range sorted {
		if _, ok := out[id]; ok {
			continue
		}
		p, err := r.Products.GetForUpdate(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, id)
		}
		if p.IsPack {
			return nil, fmt.Errorf("%w: %s es un pack y no maneja stock propio", domain.ErrInvalidInput, p.Name)
		}
		out[id] = p
	}
	return out, nil
}

// deduct descuenta qty de un producto ya bloqueado.
func deduct(ctx context.Context, r repository.TxRepositories, p *entity.Product, qty decimal.Decimal) error {
	if p.Stock.LessThan(qty) {
		return fmt.Errorf("%w: %s (disponible %s, requerido %s)", domain.ErrInsufficientStock, p.Name, p.Stock, qty)
	}
	if err := r.Products.AddStock(ctx, p.TenantID, p.ID, qty.Neg()); err != nil {
		return err
	}
	p.Stock = p.Stock.Sub(qty)
	return nil
}

func toConsumptionResponse(c *entity.InternalConsumption) *dto.ConsumptionResponse {
	return &dto.ConsumptionResponse{
		ID:          c.ID,
		ProductID:   c.ProductID,
		ProductName: c.ProductName,
		Quantity:    c.Quantity,
		UnitCost:    c.UnitCost,
		TotalCost:   c.TotalCost,
		Reason:      c.Reason,
		Date:        dto.FormatDate(c.Date),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
