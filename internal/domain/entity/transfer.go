package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transferencia entre sucursales.
const (
	TransferPENDING   = "PENDING"
	TransferInTransit = "IN_TRANSIT"
	TransferRECEIVED  = "RECEIVED"
	TransferCANCELLED = "CANCELLED"
)

// Transfer registro compartido (schema public) que coordina el movimiento de
// mercadería entre dos sucursales. El par de asientos en los libros de origen
// y destino referencia el número de guía.
type Transfer struct {
	ID             string
	GuideNumber    string // TRF-YYYYMMDD-<8 hex>, único global
	SourceID       string // sucursal origen
	DestinationID  string // sucursal destino
	SenderID       string
	ReceiverID     *string
	State          string // PENDING | IN_TRANSIT | RECEIVED | CANCELLED
	SentAt         time.Time
	ReceivedAt     *time.Time
	SendNotes      string
	ReceiveNotes   string
}

// CanBeReceived indica si la transferencia admite recepción.
func (t *Transfer) CanBeReceived() bool {
	return t.State == TransferPENDING || t.State == TransferInTransit
}

// CanBeCancelled indica si la transferencia admite cancelación.
// IN_TRANSIT y los estados terminales no se cancelan.
func (t *Transfer) CanBeCancelled() bool {
	return t.State == TransferPENDING
}

// TransferDetail línea de una transferencia. Código y nombre del producto se
// guardan como snapshot de texto: un rename o borrado posterior del catálogo
// no corrompe las transferencias históricas.
type TransferDetail struct {
	ID           string
	TransferID   string
	ProductCode  string
	ProductName  string
	SentQty      decimal.Decimal
	ReceivedQty  *decimal.Decimal // null hasta la recepción
	UnitPrice    decimal.Decimal
	Observations string
}

// HasDifference indica si lo recibido difiere de lo enviado.
func (d *TransferDetail) HasDifference() bool {
	return d.ReceivedQty != nil && !d.ReceivedQty.Equal(d.SentQty)
}

// Difference devuelve recibido - enviado (cero si aún no se recibe).
func (d *TransferDetail) Difference() decimal.Decimal {
	if d.ReceivedQty == nil {
		return decimal.Zero
	}
	return d.ReceivedQty.Sub(d.SentQty)
}
