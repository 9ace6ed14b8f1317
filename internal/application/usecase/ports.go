package usecase

import (
	"context"

	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// SchemaAdmin materialización y consulta de schemas por sucursal.
type SchemaAdmin interface {
	CreateSchema(ctx context.Context, name string) error
	SchemaExists(ctx context.Context, name string) (bool, error)
}

// BranchTxRunner guarda la sucursal y materializa su schema en una misma
// transacción; también serializa el intercambio de la bandera es_principal.
type BranchTxRunner interface {
	RunBranchSave(ctx context.Context, fn func(
		branchRepo repository.BranchRepository,
		schemas SchemaAdmin,
	) error) error
}

// CatalogTxRunner corre operaciones de catálogo (productos, categorías,
// marcas) dentro del schema de una sucursal, con el libro disponible para el
// asiento de stock inicial.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, schema string, fn func(
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
		brandRepo repository.BrandRepository,
		movementRepo repository.MovementRepository,
	) error) error
}
