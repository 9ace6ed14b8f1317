package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/transfer"
)

// TransferHandler maneja el ciclo de vida de transferencias entre sucursales.
type TransferHandler struct {
	uc *transfer.UseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *transfer.UseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear transferencia
// @Description  Descuenta stock en origen y deja la guía en PENDING.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Datos de la transferencia"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	lines := make([]transfer.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, transfer.Line{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	t, err := h.uc.Create(c.Context(), transfer.CreateInput{
		SourceBranchID:      req.SourceBranchID,
		DestinationBranchID: req.DestinationBranchID,
		SenderID:            p.UserID,
		Lines:               lines,
		Notes:               req.Notes,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToTransferResponse(t, nil))
}

// Get godoc
// @Summary      Obtener transferencia con sus detalles
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) Get(c *fiber.Ctx) error {
	t, details, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t, details))
}

// MarkInTransit godoc
// @Summary      Marcar transferencia en tránsito
// @Tags         transfers
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/transfers/{id}/transit [post]
func (h *TransferHandler) MarkInTransit(c *fiber.Ctx) error {
	t, err := h.uc.MarkInTransit(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t, nil))
}

// Receive godoc
// @Summary      Recibir transferencia en destino
// @Description  Incrementa stock en destino por las cantidades recibidas y
// @Description  registra diferencias contra lo enviado.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la transferencia"
// @Param        body  body  dto.ReceiveTransferRequest  true  "Cantidades recibidas"
// @Success      200   {object}  dto.TransferResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	var req dto.ReceiveTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	lines := make([]transfer.ReceiveLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, transfer.ReceiveLine{
			ProductCode: l.ProductCode,
			ReceivedQty: l.ReceivedQty,
			Note:        l.Note,
		})
	}
	t, err := h.uc.Receive(c.Context(), transfer.ReceiveInput{
		TransferID:       c.Params("id"),
		ReceiverID:       p.UserID,
		ReceiverBranchID: p.BranchID,
		ReceiverSeeAll:   p.SeeAll,
		Lines:            lines,
		Notes:            req.Notes,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t, nil))
}

// Cancel godoc
// @Summary      Cancelar transferencia pendiente
// @Description  Devuelve el stock al origen con asientos de compensación.
// @Tags         transfers
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la transferencia"
// @Param        body  body  dto.CancelTransferRequest  true  "Motivo de cancelación"
// @Success      200   {object}  dto.TransferResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	var req dto.CancelTransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p := GetPrincipal(c)
	t, err := h.uc.Cancel(c.Context(), transfer.CancelInput{
		TransferID: c.Params("id"),
		UserID:     p.UserID,
		ActorName:  p.DisplayName,
		Reason:     req.Reason,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToTransferResponse(t, nil))
}

// ListPending godoc
// @Summary      Transferencias pendientes de recibir en una sucursal
// @Tags         transfers
// @Produce      json
// @Param        branch_id  query  string  true  "ID de la sucursal destino"
// @Success      200  {array}  dto.TransferResponse
// @Security     BearerAuth
// @Router       /api/transfers/pending [get]
func (h *TransferHandler) ListPending(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		p := GetPrincipal(c)
		if p != nil {
			branchID = p.BranchID
		}
	}
	if branchID == "" {
		return noBranchResponse(c)
	}
	transfers, err := h.uc.ListPendingForBranch(c.Context(), branchID)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]*dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.ToTransferResponse(t, nil))
	}
	return c.JSON(out)
}

// ListSent godoc
// @Summary      Transferencias enviadas por una sucursal
// @Tags         transfers
// @Produce      json
// @Param        branch_id  query  string  true  "ID de la sucursal origen"
// @Success      200  {array}  dto.TransferResponse
// @Security     BearerAuth
// @Router       /api/transfers/sent [get]
func (h *TransferHandler) ListSent(c *fiber.Ctx) error {
	branchID := c.Query("branch_id")
	if branchID == "" {
		p := GetPrincipal(c)
		if p != nil {
			branchID = p.BranchID
		}
	}
	if branchID == "" {
		return noBranchResponse(c)
	}
	transfers, err := h.uc.ListSentByBranch(c.Context(), branchID)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]*dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, dto.ToTransferResponse(t, nil))
	}
	return c.JSON(out)
}
