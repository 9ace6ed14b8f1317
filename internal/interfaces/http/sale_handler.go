package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/sales"
)

// SaleHandler maneja ventas de mostrador del schema activo.
type SaleHandler struct {
	uc *sales.UseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Factura, descuenta stock de las líneas de producto y asienta
// @Description  las salidas en el libro, todo en una transacción.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Datos de la venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	binding := GetBinding(c)
	if binding.Branch == nil {
		return noBranchResponse(c)
	}
	var req dto.CreateSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	lines := make([]sales.LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, sales.LineInput{
			IsService:  l.IsService,
			ProductID:  l.ProductID,
			ServiceRef: l.ServiceRef,
			Detail:     l.Detail,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	sale, err := h.uc.Commit(c.Context(), binding.Branch.SchemaName, sales.CommitInput{
		UserID:       p.UserID,
		BranchID:     binding.Branch.ID,
		CustomerName: req.CustomerName,
		Discount:     req.Discount,
		Lines:        lines,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleResponse(sale, nil))
}

// Get godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	sale, lines, err := h.uc.Get(c.Context(), schema, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToSaleResponse(sale, lines))
}
