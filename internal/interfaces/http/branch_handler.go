package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/usecase"
)

// BranchHandler maneja el registro de sucursales. Las escrituras requieren un
// principal con visibilidad global.
type BranchHandler struct {
	uc *usecase.BranchUseCase
}

// NewBranchHandler construye el handler.
func NewBranchHandler(uc *usecase.BranchUseCase) *BranchHandler {
	return &BranchHandler{uc: uc}
}

func requireSeeAll(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil || !p.SeeAll {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere visibilidad global"})
	}
	return nil
}

// Create godoc
// @Summary      Crear sucursal
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBranchRequest  true  "Datos de la sucursal"
// @Success      201   {object}  dto.BranchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/branches [post]
func (h *BranchHandler) Create(c *fiber.Ctx) error {
	if err := requireSeeAll(c); err != nil {
		return err
	}
	var req dto.CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	branch, err := h.uc.Create(c.Context(), usecase.CreateBranchInput{
		Code:           req.Code,
		Name:           req.Name,
		ShortName:      req.ShortName,
		Address:        req.Address,
		City:           req.City,
		Phone:          req.Phone,
		DocumentPrefix: req.DocumentPrefix,
		IsPrimary:      req.IsPrimary,
		SchemaName:     req.SchemaName,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToBranchResponse(branch))
}

// List godoc
// @Summary      Listar sucursales
// @Tags         branches
// @Produce      json
// @Param        only_active  query  bool  false  "Solo activas"
// @Success      200  {array}  dto.BranchResponse
// @Security     BearerAuth
// @Router       /api/branches [get]
func (h *BranchHandler) List(c *fiber.Ctx) error {
	onlyActive := c.QueryBool("only_active", false)
	branches, err := h.uc.List(c.Context(), onlyActive)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]*dto.BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, dto.ToBranchResponse(b))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener sucursal
// @Tags         branches
// @Produce      json
// @Param        id  path  string  true  "ID de la sucursal"
// @Success      200  {object}  dto.BranchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/branches/{id} [get]
func (h *BranchHandler) Get(c *fiber.Ctx) error {
	branch, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToBranchResponse(branch))
}

// Update godoc
// @Summary      Actualizar sucursal
// @Tags         branches
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la sucursal"
// @Param        body  body  dto.UpdateBranchRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.BranchResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/branches/{id} [put]
func (h *BranchHandler) Update(c *fiber.Ctx) error {
	if err := requireSeeAll(c); err != nil {
		return err
	}
	var req dto.UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	branch, err := h.uc.Update(c.Context(), usecase.UpdateBranchInput{
		ID:             c.Params("id"),
		Name:           req.Name,
		ShortName:      req.ShortName,
		Address:        req.Address,
		City:           req.City,
		Phone:          req.Phone,
		DocumentPrefix: req.DocumentPrefix,
		IsPrimary:      req.IsPrimary,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToBranchResponse(branch))
}

// Archive godoc
// @Summary      Archivar sucursal
// @Description  Desactiva la sucursal. El schema y su historial quedan intactos.
// @Tags         branches
// @Produce      json
// @Param        id  path  string  true  "ID de la sucursal"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/branches/{id} [delete]
func (h *BranchHandler) Archive(c *fiber.Ctx) error {
	if err := requireSeeAll(c); err != nil {
		return err
	}
	if err := h.uc.Archive(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
