package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/codes"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/pricing"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// ProductUseCase catálogo por sucursal: productos, categorías y marcas del
// schema activo.
type ProductUseCase struct {
	runner CatalogTxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(runner CatalogTxRunner) *ProductUseCase {
	return &ProductUseCase{runner: runner}
}

// CreateProductInput entrada para crear un producto.
type CreateProductInput struct {
	Code          string // opcional; generado desde la categoría si falta
	CategoryID    string
	BrandID       string
	Name          string
	Description   string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal // opcional; derivado del margen si falta
	MinStock      decimal.Decimal
	VATInclusive  bool
	Location      string
	ImageURL      string
	InitialStock  decimal.Decimal
	UserID        string
}

// CreateProduct registra un producto en el schema de la sucursal. Sin código
// explícito genera <3 letras de la categoría>-<8 hex>; sin precio de venta lo
// deriva del margen de la categoría. Un stock inicial mayor a cero queda
// asentado como ENTRY en el libro.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, schema string, input CreateProductInput) (*entity.Product, error) {
	if input.Name == "" || input.CategoryID == "" || input.BrandID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.PurchasePrice.LessThan(decimal.Zero) || input.InitialStock.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var product *entity.Product
	err := uc.runner.RunCatalog(ctx, schema, func(
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		brandRepo repository.BrandRepository,
		movementRepo repository.MovementRepository,
	) error {
		category, err := categoryRepo.GetByID(input.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("%w: categoría %s", domain.ErrInvalidInput, input.CategoryID)
		}
		brand, err := brandRepo.GetByID(input.BrandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return fmt.Errorf("%w: marca %s", domain.ErrInvalidInput, input.BrandID)
		}

		code := input.Code
		if code == "" {
			code = codes.NewProductCode(category.Code)
		}
		salePrice := input.SalePrice
		if salePrice.IsZero() {
			salePrice = pricing.SalePrice(input.PurchasePrice, category.MarkupPercent)
		}
		if salePrice.LessThan(input.PurchasePrice) {
			return fmt.Errorf("%w: el precio de venta no puede ser menor al de compra", domain.ErrInvalidInput)
		}

		now := time.Now()
		product = &entity.Product{
			ID:            uuid.New().String(),
			Code:          code,
			CategoryID:    category.ID,
			BrandID:       brand.ID,
			Name:          input.Name,
			Description:   input.Description,
			PurchasePrice: input.PurchasePrice,
			SalePrice:     salePrice,
			StockOnHand:   decimal.Zero,
			MinStock:      input.MinStock,
			VATInclusive:  input.VATInclusive,
			Active:        true,
			Location:      input.Location,
			ImageURL:      input.ImageURL,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := productRepo.Create(product); err != nil {
			return err
		}

		if input.InitialStock.GreaterThan(decimal.Zero) {
			if err := productRepo.SetStock(product.ID, input.InitialStock); err != nil {
				return err
			}
			product.StockOnHand = input.InitialStock
			price := input.PurchasePrice
			return movementRepo.Append(&entity.MovementEntry{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				UserID:    input.UserID,
				Kind:      entity.MovementENTRY,
				Quantity:  input.InitialStock,
				UnitPrice: &price,
				Reason:    "Stock inicial",
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput entrada para actualizar metadatos de un producto.
type UpdateProductInput struct {
	ID            string
	Name          string
	Description   string
	CategoryID    string
	BrandID       string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      decimal.Decimal
	VATInclusive  bool
	Location      string
	ImageURL      string
}

// UpdateProduct actualiza el producto. El stock nunca se toca por esta vía;
// solo los casos de uso de inventario lo mueven, con su asiento.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, schema string, input UpdateProductInput) (*entity.Product, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.SalePrice.LessThan(input.PurchasePrice) {
		return nil, fmt.Errorf("%w: el precio de venta no puede ser menor al de compra", domain.ErrInvalidInput)
	}

	var product *entity.Product
	err := uc.runner.RunCatalog(ctx, schema, func(
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		brandRepo repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		p, err := productRepo.GetByID(input.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		p.Name = input.Name
		p.Description = input.Description
		p.CategoryID = input.CategoryID
		p.BrandID = input.BrandID
		p.PurchasePrice = input.PurchasePrice
		p.SalePrice = input.SalePrice
		p.MinStock = input.MinStock
		p.VATInclusive = input.VATInclusive
		p.Location = input.Location
		p.ImageURL = input.ImageURL
		p.UpdatedAt = time.Now()
		if err := productRepo.Update(p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct obtiene un producto del schema activo.
func (uc *ProductUseCase) GetProduct(ctx context.Context, schema, id string) (*entity.Product, error) {
	var product *entity.Product
	err := uc.runner.RunCatalog(ctx, schema, func(
		productRepo repository.ProductRepository,
		_ repository.CategoryRepository,
		_ repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		p, err := productRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		product = p
		return nil
	})
	return product, err
}

// ListProducts lista productos del schema activo.
func (uc *ProductUseCase) ListProducts(ctx context.Context, schema string, onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	var list []*entity.Product
	err := uc.runner.RunCatalog(ctx, schema, func(
		productRepo repository.ProductRepository,
		_ repository.CategoryRepository,
		_ repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		var err error
		list, err = productRepo.List(onlyActive, limit, offset)
		return err
	})
	return list, err
}

// ListLowStock productos activos en o bajo el stock mínimo.
func (uc *ProductUseCase) ListLowStock(ctx context.Context, schema string) ([]*entity.Product, error) {
	var list []*entity.Product
	err := uc.runner.RunCatalog(ctx, schema, func(
		productRepo repository.ProductRepository,
		_ repository.CategoryRepository,
		_ repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		var err error
		list, err = productRepo.ListLowStock()
		return err
	})
	return list, err
}

// DeactivateProduct desactiva el producto. El historial del libro queda.
func (uc *ProductUseCase) DeactivateProduct(ctx context.Context, schema, id string) error {
	return uc.runner.RunCatalog(ctx, schema, func(
		productRepo repository.ProductRepository,
		_ repository.CategoryRepository,
		_ repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		p, err := productRepo.GetByID(id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		return productRepo.Deactivate(id)
	})
}

// CreateCategoryInput entrada para crear una categoría.
type CreateCategoryInput struct {
	Code          string
	Name          string
	Description   string
	MarkupPercent decimal.Decimal
	ParentID      *string
}

// CreateCategory registra una categoría en el schema de la sucursal.
func (uc *ProductUseCase) CreateCategory(ctx context.Context, schema string, input CreateCategoryInput) (*entity.Category, error) {
	if input.Code == "" || input.Name == "" || input.MarkupPercent.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	category := &entity.Category{
		ID:            uuid.New().String(),
		Code:          input.Code,
		Name:          input.Name,
		Description:   input.Description,
		MarkupPercent: input.MarkupPercent,
		ParentID:      input.ParentID,
		Active:        true,
	}
	err := uc.runner.RunCatalog(ctx, schema, func(
		_ repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		_ repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		return categoryRepo.Create(category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories lista categorías del schema activo.
func (uc *ProductUseCase) ListCategories(ctx context.Context, schema string, onlyActive bool) ([]*entity.Category, error) {
	var list []*entity.Category
	err := uc.runner.RunCatalog(ctx, schema, func(
		_ repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		_ repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		var err error
		list, err = categoryRepo.List(onlyActive)
		return err
	})
	return list, err
}

// CreateBrand registra una marca en el schema de la sucursal.
func (uc *ProductUseCase) CreateBrand(ctx context.Context, schema, name, description string) (*entity.Brand, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	brand := &entity.Brand{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Active:      true,
	}
	err := uc.runner.RunCatalog(ctx, schema, func(
		_ repository.ProductRepository,
		_ repository.CategoryRepository,
		brandRepo repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		return brandRepo.Create(brand)
	})
	if err != nil {
		return nil, err
	}
	return brand, nil
}

// ListBrands lista marcas del schema activo.
func (uc *ProductUseCase) ListBrands(ctx context.Context, schema string, onlyActive bool) ([]*entity.Brand, error) {
	var list []*entity.Brand
	err := uc.runner.RunCatalog(ctx, schema, func(
		_ repository.ProductRepository,
		_ repository.CategoryRepository,
		brandRepo repository.BrandRepository,
		_ repository.MovementRepository,
	) error {
		var err error
		list, err = brandRepo.List(onlyActive)
		return err
	})
	return list, err
}
