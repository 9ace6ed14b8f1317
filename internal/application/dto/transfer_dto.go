package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

// TransferLineRequest línea a transferir.
type TransferLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	SourceBranchID      string                `json:"source_branch_id" validate:"required,uuid"`
	DestinationBranchID string                `json:"destination_branch_id" validate:"required,uuid"`
	Lines               []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes               string                `json:"notes"`
}

// ReceiveLineRequest cantidad recibida de un producto de la guía.
type ReceiveLineRequest struct {
	ProductCode string          `json:"product_code" validate:"required"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	Note        string          `json:"note"`
}

// ReceiveTransferRequest body para POST /api/transfers/:id/receive.
type ReceiveTransferRequest struct {
	Lines []ReceiveLineRequest `json:"lines" validate:"required,min=1,dive"`
	Notes string               `json:"notes"`
}

// CancelTransferRequest body para POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// TransferDetailResponse línea snapshot de una transferencia.
type TransferDetailResponse struct {
	ProductCode  string           `json:"product_code"`
	ProductName  string           `json:"product_name"`
	SentQty      decimal.Decimal  `json:"sent_qty"`
	ReceivedQty  *decimal.Decimal `json:"received_qty,omitempty"`
	UnitPrice    decimal.Decimal  `json:"unit_price"`
	Observations string           `json:"observations,omitempty"`
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID            string                   `json:"id"`
	GuideNumber   string                   `json:"guide_number"`
	SourceID      string                   `json:"source_branch_id"`
	DestinationID string                   `json:"destination_branch_id"`
	SenderID      string                   `json:"sender_id"`
	ReceiverID    *string                  `json:"receiver_id,omitempty"`
	State         string                   `json:"state"`
	SentAt        time.Time                `json:"sent_at"`
	ReceivedAt    *time.Time               `json:"received_at,omitempty"`
	SendNotes     string                   `json:"send_notes,omitempty"`
	ReceiveNotes  string                   `json:"receive_notes,omitempty"`
	Details       []TransferDetailResponse `json:"details,omitempty"`
}

// ToTransferResponse convierte la transferencia y sus detalles al DTO.
func ToTransferResponse(t *entity.Transfer, details []*entity.TransferDetail) *TransferResponse {
	if t == nil {
		return nil
	}
	resp := &TransferResponse{
		ID:            t.ID,
		GuideNumber:   t.GuideNumber,
		SourceID:      t.SourceID,
		DestinationID: t.DestinationID,
		SenderID:      t.SenderID,
		ReceiverID:    t.ReceiverID,
		State:         t.State,
		SentAt:        t.SentAt,
		ReceivedAt:    t.ReceivedAt,
		SendNotes:     t.SendNotes,
		ReceiveNotes:  t.ReceiveNotes,
	}
	for _, d := range details {
		resp.Details = append(resp.Details, TransferDetailResponse{
			ProductCode:  d.ProductCode,
			ProductName:  d.ProductName,
			SentQty:      d.SentQty,
			ReceivedQty:  d.ReceivedQty,
			UnitPrice:    d.UnitPrice,
			Observations: d.Observations,
		})
	}
	return resp
}
