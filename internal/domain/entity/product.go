package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o repuesto del catálogo de UNA sucursal.
// El mismo código puede existir en varias sucursales como registros
// independientes; el stock es propio de cada schema.
type Product struct {
	ID            string
	Code          string // único dentro del schema; autogenerado <CAT3>-<8 hex> si falta
	CategoryID    string
	BrandID       string
	Name          string
	Description   string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal // derivado del margen de la categoría si falta
	StockOnHand   decimal.Decimal
	MinStock      decimal.Decimal
	VATInclusive  bool
	Active        bool
	Location      string // ubicación en bodega, opcional
	ImageURL      string
	LastPurchase  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.StockOnHand.LessThanOrEqual(p.MinStock)
}
