package repository

import (
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

// LedgerTotals sumas del libro por producto. Satisface la invariante
// stock = opening + Σ ENTRY − Σ EXIT.
type LedgerTotals struct {
	Entries decimal.Decimal
	Exits   decimal.Decimal
}

// MovementRepository libro append-only de movimientos del schema activo.
// No expone Update ni Delete: las correcciones son asientos nuevos.
type MovementRepository interface {
	Append(entry *entity.MovementEntry) error
	ListByProduct(productID string, limit, offset int) ([]*entity.MovementEntry, error)
	ListByReference(reference string) ([]*entity.MovementEntry, error)
	TotalsByProduct(productID string) (*LedgerTotals, error)
}

// AdjustmentRepository libro de ajustes manuales del schema activo.
type AdjustmentRepository interface {
	Append(entry *entity.AdjustmentEntry) error
	ListByProduct(productID string, limit, offset int) ([]*entity.AdjustmentEntry, error)
}
