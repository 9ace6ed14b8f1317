package transfer

import (
	"context"

	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// Repos repositorios atados a la transacción en curso. Las tablas compartidas
// (transferencias, detalles) resuelven en public sin importar el schema
// activo; productos y movimientos resuelven en el schema de la sucursal.
type Repos struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Brands     repository.BrandRepository
	Movements  repository.MovementRepository
	Transfers  repository.TransferRepository
	Details    repository.TransferDetailRepository
}

// SchemaHopper permite saltar de schema DENTRO de una misma transacción.
// Cada Use re-fija el search_path; el binding previo no se filtra porque todo
// muere con la transacción.
type SchemaHopper interface {
	Use(schema string) (Repos, error)
}

// TxRunner abre la transacción única que cubre los tres namespaces de una
// transferencia (origen, destino y compartido). Cualquier error revierte los
// efectos en todos ellos.
type TxRunner interface {
	RunAcrossSchemas(ctx context.Context, fn func(hop SchemaHopper) error) error
}
