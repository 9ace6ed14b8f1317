package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementENTRY = "ENTRY"
	MovementEXIT  = "EXIT"
)

// Tipos de ajuste manual. SET interpreta la cantidad como el nuevo valor
// absoluto de stock; lo persistido es el delta aplicado.
const (
	AdjustmentENTRY = "ENTRY"
	AdjustmentEXIT  = "EXIT"
	AdjustmentSET   = "SET"
)

// MovementEntry asiento del libro de movimientos de inventario de una
// sucursal. Append-only: jamás se actualiza ni se borra; las correcciones son
// asientos nuevos.
type MovementEntry struct {
	ID        string
	ProductID string
	UserID    string
	Kind      string          // ENTRY | EXIT
	Quantity  decimal.Decimal // siempre positiva
	UnitPrice *decimal.Decimal
	Reason    string
	Reference string // número de guía, factura, etc.
	SaleID    *string
	CreatedAt time.Time
}

// AdjustmentEntry corrección manual de stock (ENTRY, EXIT o SET).
type AdjustmentEntry struct {
	ID        string
	ProductID string
	UserID    string
	Kind      string          // ENTRY | EXIT | SET
	Quantity  decimal.Decimal // para SET se persiste el delta resultante
	Reason    string
	CreatedAt time.Time
}
