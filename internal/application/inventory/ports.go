package inventory

import (
	"context"

	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// search_path fijado al schema indicado, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre la mutación de stock y el asiento del libro.
type TxRunner interface {
	RunInSchema(ctx context.Context, schema string, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		adjustmentRepo repository.AdjustmentRepository,
	) error) error
}
