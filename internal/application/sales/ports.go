package sales

import (
	"context"

	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// TxRunner transacción de venta: cabecera, líneas, stock y libro en una sola
// unidad atómica dentro del schema de la sucursal activa.
type TxRunner interface {
	RunSale(ctx context.Context, schema string, fn func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
