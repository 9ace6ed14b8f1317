package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SalePENDING   = "PENDING"
	SaleCOMPLETED = "COMPLETED"
	SaleCANCELLED = "CANCELLED"
)

// Sale venta de mostrador o de taller, propia del schema de la sucursal.
type Sale struct {
	ID            string
	InvoiceNumber string // FAC-<secuencia de 6 dígitos>
	UserID        string
	CustomerName  string
	State         string
	Subtotal      decimal.Decimal
	VAT           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SaleLine línea de venta. Variante etiquetada: exactamente uno de ProductID
// o ServiceRef está presente. Los servicios no llevan IVA; los productos sí.
type SaleLine struct {
	ID         string
	SaleID     string
	IsService  bool
	ProductID  *string // presente si !IsService
	ServiceRef *string // presente si IsService
	Detail     string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	VATPercent decimal.Decimal // cero para servicios
	VAT        decimal.Decimal
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
}
