package usecase

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
)

const exportBatchSize = 100

// ProductUseCase casos de uso CRUD para productos. Stock se maneja vía facturas, consumos y pedidos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	supplierRepo repository.SupplierRepository
	tenantRepo   repository.TenantRepository
	exporter     ports.ProductExporter
}

// NewProductUseCase construye el caso de uso. exporter puede ser nil si no se expone la planilla.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	supplierRepo repository.SupplierRepository,
	tenantRepo repository.TenantRepository,
	exporter ports.ProductExporter,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		tenantRepo:   tenantRepo,
		exporter:     exporter,
	}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y nombre requeridos", domain.ErrInvalidInput)
	}
	if in.CostPrice.IsNegative() || in.SalePrice.IsNegative() || in.MinStock.IsNegative() {
		return nil, fmt.Errorf("%w: precios y stock mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	categoryID, err := uc.checkCategory(ctx, tenantID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	supplierID, err := uc.checkSupplier(ctx, tenantID, in.SupplierID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		SKU:         sku,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		CategoryID:  categoryID,
		SupplierID:  supplierID,
		CostPrice:   in.CostPrice,
		SalePrice:   in.SalePrice,
		Stock:       decimal.Zero,
		MinStock:    in.MinStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar costo ni stock; category_id/supplier_id "" los quita.
// Nombre, precio y estado de un pack se editan por su oferta.
func (uc *ProductUseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.IsPack && (in.Name != nil || in.SalePrice != nil || in.Active != nil) {
		return nil, fmt.Errorf("%w: %s es un pack, nombre, precio y estado se editan en /offers", domain.ErrInvalidInput, product.Name)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		if product.CategoryID, err = uc.checkCategory(ctx, tenantID, *in.CategoryID); err != nil {
			return nil, err
		}
	}
	if in.SupplierID != nil {
		if product.SupplierID, err = uc.checkSupplier(ctx, tenantID, *in.SupplierID); err != nil {
			return nil, err
		}
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, fmt.Errorf("%w: stock mínimo negativo", domain.ErrInvalidInput)
		}
		product.MinStock = *in.MinStock
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio de venta negativo", domain.ErrInvalidInput)
		}
		product.SalePrice = *in.SalePrice
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos del tenant con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.Normalize()
	list, err := uc.repo.List(ctx, tenantID, repository.ProductFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		SupplierID: in.SupplierID,
		LowStock:   in.LowStock,
		Page:       repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina un producto; ErrConflict si aparece en documentos.
func (uc *ProductUseCase) Delete(ctx context.Context, tenantID, id string) error {
	return uc.repo.Delete(ctx, tenantID, id)
}

// Export genera la planilla XLSX con todo el catálogo del tenant.
func (uc *ProductUseCase) Export(ctx context.Context, tenantID string) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("product: exportador no configurado")
	}
	tenant, err := uc.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrNotFound
	}
	var all []*entity.Product
	for offset := 0; ; offset += exportBatchSize {
		batch, err := uc.repo.List(ctx, tenantID, repository.ProductFilter{
			Page: repository.Page{Limit: exportBatchSize, Offset: offset},
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < exportBatchSize {
			break
		}
	}
	return uc.exporter.ExportProducts(tenant.Name, all)
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, tenantID, id string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s no existe", domain.ErrInvalidInput, id)
	}
	return &c.ID, nil
}

func (uc *ProductUseCase) checkSupplier(ctx context.Context, tenantID, id string) (*string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	s, err := uc.supplierRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, id)
	}
	return &s.ID, nil
}

// ToProductResponse mapea el producto con su margen derivado.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		SupplierID:  p.SupplierID,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		Margin:      pricing.Margin(p.SalePrice, p.CostPrice),
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		LowStock:    p.LowStock(),
		IsPack:      p.IsPack,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
