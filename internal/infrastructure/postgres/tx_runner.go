package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vpmotos/vpmotos-api/internal/application/inventory"
	"github.com/vpmotos/vpmotos-api/internal/application/sales"
	"github.com/vpmotos/vpmotos-api/internal/application/transfer"
	"github.com/vpmotos/vpmotos-api/internal/application/usecase"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner      = (*TxRunner)(nil)
	_ transfer.TxRunner       = (*TxRunner)(nil)
	_ sales.TxRunner          = (*TxRunner)(nil)
	_ usecase.BranchTxRunner  = (*TxRunner)(nil)
	_ usecase.CatalogTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con el
// search_path fijado vía SET LOCAL. El binding de schema es propiedad de la
// transacción: commit o rollback lo devuelven siempre a public.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInSchema transacción de inventario en el schema de una sucursal:
// producto, libro de movimientos y ajustes atados a la misma tx.
func (r *TxRunner) RunInSchema(ctx context.Context, schema string, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	adjustmentRepo repository.AdjustmentRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := setSearchPath(ctx, tx, schema); err != nil {
			return err
		}
		return fn(NewProductRepository(tx), NewMovementRepository(tx), NewAdjustmentRepository(tx))
	})
}

// RunSale transacción de venta en el schema de una sucursal.
func (r *TxRunner) RunSale(ctx context.Context, schema string, fn func(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := setSearchPath(ctx, tx, schema); err != nil {
			return err
		}
		return fn(NewSaleRepository(tx), NewProductRepository(tx), NewMovementRepository(tx))
	})
}

// RunAcrossSchemas transacción única para una transferencia. El hopper
// re-fija el search_path por cada schema visitado (origen, destino,
// compartido); un fallo en cualquier tramo revierte los tres.
func (r *TxRunner) RunAcrossSchemas(ctx context.Context, fn func(hop transfer.SchemaHopper) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(&txHopper{ctx: ctx, tx: tx})
	})
}

// RunBranchSave transacción de guardado de sucursal: registro compartido y
// materialización del schema en la misma unidad.
func (r *TxRunner) RunBranchSave(ctx context.Context, fn func(
	branchRepo repository.BranchRepository,
	schemas usecase.SchemaAdmin,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewBranchRepository(tx), NewSchemaManager(tx))
	})
}

// RunCatalog transacción de catálogo en el schema de una sucursal.
func (r *TxRunner) RunCatalog(ctx context.Context, schema string, fn func(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	brandRepo repository.BrandRepository,
	movementRepo repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := setSearchPath(ctx, tx, schema); err != nil {
			return err
		}
		return fn(NewProductRepository(tx), NewCategoryRepository(tx), NewBrandRepository(tx), NewMovementRepository(tx))
	})
}

// txHopper implementación de transfer.SchemaHopper sobre una pgx.Tx viva.
type txHopper struct {
	ctx context.Context
	tx  pgx.Tx
}

func (h *txHopper) Use(schema string) (transfer.Repos, error) {
	if err := setSearchPath(h.ctx, h.tx, schema); err != nil {
		return transfer.Repos{}, err
	}
	return transfer.Repos{
		Products:   NewProductRepository(h.tx),
		Categories: NewCategoryRepository(h.tx),
		Brands:     NewBrandRepository(h.tx),
		Movements:  NewMovementRepository(h.tx),
		Transfers:  NewTransferRepository(h.tx),
		Details:    NewTransferDetailRepository(h.tx),
	}, nil
}
