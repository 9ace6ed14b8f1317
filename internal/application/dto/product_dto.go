package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/pricing"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Code          string          `json:"code" validate:"omitempty,max=50"`
	CategoryID    string          `json:"category_id" validate:"required,uuid"`
	BrandID       string          `json:"brand_id" validate:"required,uuid"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      decimal.Decimal `json:"min_stock"`
	VATInclusive  bool            `json:"vat_inclusive"`
	Location      string          `json:"location"`
	ImageURL      string          `json:"image_url"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	CategoryID    string          `json:"category_id" validate:"required,uuid"`
	BrandID       string          `json:"brand_id" validate:"required,uuid"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"required"`
	SalePrice     decimal.Decimal `json:"sale_price" validate:"required"`
	MinStock      decimal.Decimal `json:"min_stock"`
	VATInclusive  bool            `json:"vat_inclusive"`
	Location      string          `json:"location"`
	ImageURL      string          `json:"image_url"`
}

// ProductResponse salida de un producto. FinalPrice es el precio exhibido con
// IVA cuando el producto lo incluye.
type ProductResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	CategoryID    string          `json:"category_id"`
	BrandID       string          `json:"brand_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	StockOnHand   decimal.Decimal `json:"stock_on_hand"`
	MinStock      decimal.Decimal `json:"min_stock"`
	LowStock      bool            `json:"low_stock"`
	VATInclusive  bool            `json:"vat_inclusive"`
	Active        bool            `json:"active"`
	Location      string          `json:"location,omitempty"`
	ImageURL      string          `json:"image_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToProductResponse convierte la entidad al DTO, calculando el precio final
// con el IVA de proceso.
func ToProductResponse(p *entity.Product, vatPercent decimal.Decimal) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		CategoryID:    p.CategoryID,
		BrandID:       p.BrandID,
		Name:          p.Name,
		Description:   p.Description,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		FinalPrice:    pricing.FinalPrice(p.SalePrice, vatPercent, p.VATInclusive),
		StockOnHand:   p.StockOnHand,
		MinStock:      p.MinStock,
		LowStock:      p.IsLowStock(),
		VATInclusive:  p.VATInclusive,
		Active:        p.Active,
		Location:      p.Location,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
	}
}

// CreateCategoryRequest body para POST /api/categories.
type CreateCategoryRequest struct {
	Code          string          `json:"code" validate:"required,max=20"`
	Name          string          `json:"name" validate:"required,max=200"`
	Description   string          `json:"description"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
	ParentID      *string         `json:"parent_id" validate:"omitempty,uuid"`
}

// CreateBrandRequest body para POST /api/brands.
type CreateBrandRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
}
