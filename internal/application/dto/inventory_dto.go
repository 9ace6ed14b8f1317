package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

// RegisterEntryRequest body para POST /api/inventory/entries.
type RegisterEntryRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reason    string           `json:"reason" validate:"required"`
	Reference string           `json:"reference"`
}

// RegisterAdjustmentRequest body para POST /api/inventory/adjustments.
// Para SET la cantidad es el nuevo valor absoluto de stock.
type RegisterAdjustmentRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Kind      string          `json:"kind" validate:"required,oneof=ENTRY EXIT SET"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Reason    string          `json:"reason" validate:"required"`
}

// MovementResponse asiento del libro de movimientos.
type MovementResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	UserID    string           `json:"user_id"`
	Kind      string           `json:"kind"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reason    string           `json:"reason"`
	Reference string           `json:"reference,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ToMovementResponse convierte el asiento al DTO de salida.
func ToMovementResponse(m *entity.MovementEntry) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		UserID:    m.UserID,
		Kind:      m.Kind,
		Quantity:  m.Quantity,
		UnitPrice: m.UnitPrice,
		Reason:    m.Reason,
		Reference: m.Reference,
		CreatedAt: m.CreatedAt,
	}
}

// LedgerTotalsResponse sumas del libro para un producto. Entradas menos
// salidas debe coincidir con el stock vigente.
type LedgerTotalsResponse struct {
	ProductID string          `json:"product_id"`
	Entries   decimal.Decimal `json:"entries"`
	Exits     decimal.Decimal `json:"exits"`
	Net       decimal.Decimal `json:"net"`
}
