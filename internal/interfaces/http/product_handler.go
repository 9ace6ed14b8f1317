package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/usecase"
)

// ProductHandler maneja el catálogo del schema activo: productos, categorías y
// marcas.
type ProductHandler struct {
	uc         *usecase.ProductUseCase
	vatPercent decimal.Decimal
}

// NewProductHandler construye el handler. vatPercent se usa para calcular el
// precio final exhibido.
func NewProductHandler(uc *usecase.ProductUseCase, vatPercent decimal.Decimal) *ProductHandler {
	return &ProductHandler{uc: uc, vatPercent: vatPercent}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	product, err := h.uc.CreateProduct(c.Context(), schema, usecase.CreateProductInput{
		Code:          req.Code,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		Name:          req.Name,
		Description:   req.Description,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		MinStock:      req.MinStock,
		VATInclusive:  req.VATInclusive,
		Location:      req.Location,
		ImageURL:      req.ImageURL,
		InitialStock:  req.InitialStock,
		UserID:        p.UserID,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(product, h.vatPercent))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        only_active  query  bool  false  "Solo activos"
// @Param        limit        query  int   false  "Límite de página"
// @Param        offset       query  int   false  "Offset de página"
// @Success      200  {array}  dto.ProductResponse
// @Security     BearerAuth
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	products, err := h.uc.ListProducts(c.Context(), schema, c.QueryBool("only_active", false), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p, h.vatPercent))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener producto
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	product, err := h.uc.GetProduct(c.Context(), schema, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponse(product, h.vatPercent))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Actualiza metadatos y precios. El stock solo se mueve por inventario.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	product, err := h.uc.UpdateProduct(c.Context(), schema, usecase.UpdateProductInput{
		ID:            c.Params("id"),
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		BrandID:       req.BrandID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		MinStock:      req.MinStock,
		VATInclusive:  req.VATInclusive,
		Location:      req.Location,
		ImageURL:      req.ImageURL,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponse(product, h.vatPercent))
}

// Deactivate godoc
// @Summary      Desactivar producto
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	if err := h.uc.DeactivateProduct(c.Context(), schema, c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         products
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Security     BearerAuth
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	products, err := h.uc.ListLowStock(c.Context(), schema)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ToProductResponse(p, h.vatPercent))
	}
	return c.JSON(out)
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  entity.Category
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/categories [post]
func (h *ProductHandler) CreateCategory(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	category, err := h.uc.CreateCategory(c.Context(), schema, usecase.CreateCategoryInput{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		MarkupPercent: req.MarkupPercent,
		ParentID:      req.ParentID,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         catalog
// @Produce      json
// @Param        only_active  query  bool  false  "Solo activas"
// @Success      200  {array}  entity.Category
// @Security     BearerAuth
// @Router       /api/categories [get]
func (h *ProductHandler) ListCategories(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	categories, err := h.uc.ListCategories(c.Context(), schema, c.QueryBool("only_active", false))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(categories)
}

// CreateBrand godoc
// @Summary      Crear marca
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBrandRequest  true  "Datos de la marca"
// @Success      201   {object}  entity.Brand
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/brands [post]
func (h *ProductHandler) CreateBrand(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	var req dto.CreateBrandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	brand, err := h.uc.CreateBrand(c.Context(), schema, req.Name, req.Description)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(brand)
}

// ListBrands godoc
// @Summary      Listar marcas
// @Tags         catalog
// @Produce      json
// @Param        only_active  query  bool  false  "Solo activas"
// @Success      200  {array}  entity.Brand
// @Security     BearerAuth
// @Router       /api/brands [get]
func (h *ProductHandler) ListBrands(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	brands, err := h.uc.ListBrands(c.Context(), schema, c.QueryBool("only_active", false))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(brands)
}
