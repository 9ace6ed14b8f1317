package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

// SaleLineRequest línea de venta entrante: producto o servicio.
type SaleLineRequest struct {
	IsService  bool            `json:"is_service"`
	ProductID  string          `json:"product_id" validate:"required_if=IsService false"`
	ServiceRef string          `json:"service_ref" validate:"required_if=IsService true"`
	Detail     string          `json:"detail"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerName string            `json:"customer_name"`
	Discount     decimal.Decimal   `json:"discount"`
	Lines        []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineResponse línea de venta persistida.
type SaleLineResponse struct {
	ID         string          `json:"id"`
	IsService  bool            `json:"is_service"`
	ProductID  *string         `json:"product_id,omitempty"`
	ServiceRef *string         `json:"service_ref,omitempty"`
	Detail     string          `json:"detail,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	VAT        decimal.Decimal `json:"vat"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	UserID        string             `json:"user_id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	State         string             `json:"state"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	VAT           decimal.Decimal    `json:"vat"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	CreatedAt     time.Time          `json:"created_at"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
}

// ToSaleResponse convierte la venta y sus líneas al DTO.
func ToSaleResponse(s *entity.Sale, lines []*entity.SaleLine) *SaleResponse {
	if s == nil {
		return nil
	}
	resp := &SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		UserID:        s.UserID,
		CustomerName:  s.CustomerName,
		State:         s.State,
		Subtotal:      s.Subtotal,
		VAT:           s.VAT,
		Discount:      s.Discount,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			ID:         l.ID,
			IsService:  l.IsService,
			ProductID:  l.ProductID,
			ServiceRef: l.ServiceRef,
			Detail:     l.Detail,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			VAT:        l.VAT,
			Subtotal:   l.Subtotal,
			Total:      l.Total,
		})
	}
	return resp
}
