package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/inventory"
)

// InventoryHandler maneja entradas, ajustes y el libro de movimientos del
// schema activo.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de mercadería
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterEntryRequest  true  "Datos de la entrada"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	var req dto.RegisterEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	err := h.uc.RegisterEntry(c.Context(), schema, inventory.EntryInput{
		ProductID: req.ProductID,
		UserID:    p.UserID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Reason:    req.Reason,
		Reference: req.Reference,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste manual de stock
// @Description  ENTRY incrementa, EXIT decrementa, SET fija el stock absoluto.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterAdjustmentRequest  true  "Datos del ajuste"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	var req dto.RegisterAdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	err := h.uc.RegisterAdjustment(c.Context(), schema, inventory.AdjustmentInput{
		ProductID: req.ProductID,
		UserID:    p.UserID,
		Kind:      req.Kind,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ProductLedger godoc
// @Summary      Libro de movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite de página"
// @Param        offset  query  int     false  "Offset de página"
// @Success      200  {array}  dto.MovementResponse
// @Security     BearerAuth
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ProductLedger(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")}
	page.DefaultPage()
	entries, err := h.uc.ProductLedger(c.Context(), schema, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(entries))
	for _, m := range entries {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// LedgerTotals godoc
// @Summary      Totales del libro de un producto
// @Description  Entradas menos salidas debe coincidir con el stock vigente.
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LedgerTotalsResponse
// @Security     BearerAuth
// @Router       /api/inventory/products/{id}/totals [get]
func (h *InventoryHandler) LedgerTotals(c *fiber.Ctx) error {
	schema, ok := branchSchema(c)
	if !ok {
		return noBranchResponse(c)
	}
	productID := c.Params("id")
	totals, err := h.uc.LedgerTotals(c.Context(), schema, productID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.LedgerTotalsResponse{
		ProductID: productID,
		Entries:   totals.Entries,
		Exits:     totals.Exits,
		Net:       totals.Entries.Sub(totals.Exits),
	})
}
