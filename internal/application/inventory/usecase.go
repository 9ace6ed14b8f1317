package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

// UseCase mutaciones de stock del schema activo: entradas, salidas por venta y
// ajustes manuales. Cada mutación bloquea la fila del producto (SELECT FOR
// UPDATE), actualiza el stock y agrega el asiento al libro en una transacción.
type UseCase struct {
	txRunner TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner) *UseCase {
	return &UseCase{txRunner: txRunner}
}

// SaleExitInput entrada para la salida de stock de una línea de venta.
type SaleExitInput struct {
	ProductID     string
	UserID        string
	Quantity      decimal.Decimal
	InvoiceNumber string
	SaleID        *string
}

// RegisterSaleExit descuenta stock por una venta y asienta la salida en el
// libro. Si el stock quedara negativo falla con ErrInsufficientStock y la
// transacción completa se revierte.
func (uc *UseCase) RegisterSaleExit(ctx context.Context, schema string, input SaleExitInput) error {
	if input.ProductID == "" || !input.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.RunInSchema(ctx, schema, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.AdjustmentRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return domain.ErrProductMissing
		}
		if product.StockOnHand.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}
		if err := productRepo.SetStock(product.ID, product.StockOnHand.Sub(input.Quantity)); err != nil {
			return err
		}
		price := product.SalePrice
		return movementRepo.Append(&entity.MovementEntry{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			UserID:    input.UserID,
			Kind:      entity.MovementEXIT,
			Quantity:  input.Quantity,
			UnitPrice: &price,
			Reason:    fmt.Sprintf("Venta #%s", input.InvoiceNumber),
			Reference: input.InvoiceNumber,
			SaleID:    input.SaleID,
			CreatedAt: now,
		})
	})
}

// EntryInput entrada de mercadería (compra, stock inicial, devolución).
type EntryInput struct {
	ProductID string
	UserID    string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
	Reason    string
	Reference string
}

// RegisterEntry incrementa stock y asienta la entrada en el libro. Registra
// además la última fecha de compra del producto.
func (uc *UseCase) RegisterEntry(ctx context.Context, schema string, input EntryInput) error {
	if input.ProductID == "" || !input.Quantity.GreaterThan(decimal.Zero) || input.Reason == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.RunInSchema(ctx, schema, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.AdjustmentRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductMissing
		}
		if err := productRepo.SetStock(product.ID, product.StockOnHand.Add(input.Quantity)); err != nil {
			return err
		}
		product.LastPurchase = &now
		product.UpdatedAt = now
		if err := productRepo.Update(product); err != nil {
			return err
		}
		return movementRepo.Append(&entity.MovementEntry{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			UserID:    input.UserID,
			Kind:      entity.MovementENTRY,
			Quantity:  input.Quantity,
			UnitPrice: input.UnitPrice,
			Reason:    input.Reason,
			Reference: input.Reference,
			CreatedAt: now,
		})
	})
}

// AdjustmentInput ajuste manual de stock. Para SET la cantidad es el nuevo
// valor absoluto; para ENTRY/EXIT es el delta.
type AdjustmentInput struct {
	ProductID string
	UserID    string
	Kind      string // ENTRY | EXIT | SET
	Quantity  decimal.Decimal
	Reason    string
}

// RegisterAdjustment aplica un ajuste manual. ENTRY incrementa, EXIT
// decrementa, SET reemplaza el stock y persiste el delta aplicado. El ajuste
// queda en su propio registro de auditoría y, si mueve stock, también como
// asiento del libro; stock resultante negativo falla con ErrInsufficientStock.
func (uc *UseCase) RegisterAdjustment(ctx context.Context, schema string, input AdjustmentInput) error {
	if input.ProductID == "" || input.Reason == "" {
		return domain.ErrInvalidInput
	}
	switch input.Kind {
	case entity.AdjustmentENTRY, entity.AdjustmentEXIT:
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.AdjustmentSET:
		if input.Quantity.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	now := time.Now()
	return uc.txRunner.RunInSchema(ctx, schema, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
		adjustmentRepo repository.AdjustmentRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductMissing
		}

		// delta > 0 entra, delta < 0 sale.
		var delta decimal.Decimal
		switch input.Kind {
		case entity.AdjustmentENTRY:
			delta = input.Quantity
		case entity.AdjustmentEXIT:
			delta = input.Quantity.Neg()
		case entity.AdjustmentSET:
			delta = input.Quantity.Sub(product.StockOnHand)
		}

		newStock := product.StockOnHand.Add(delta)
		if newStock.LessThan(decimal.Zero) {
			return domain.ErrInsufficientStock
		}
		if err := productRepo.SetStock(product.ID, newStock); err != nil {
			return err
		}

		recorded := input.Quantity
		if input.Kind == entity.AdjustmentSET {
			recorded = delta
		}
		if err := adjustmentRepo.Append(&entity.AdjustmentEntry{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			UserID:    input.UserID,
			Kind:      input.Kind,
			Quantity:  recorded,
			Reason:    input.Reason,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		if delta.IsZero() {
			return nil
		}
		kind := entity.MovementENTRY
		if delta.LessThan(decimal.Zero) {
			kind = entity.MovementEXIT
		}
		return movementRepo.Append(&entity.MovementEntry{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			UserID:    input.UserID,
			Kind:      kind,
			Quantity:  delta.Abs(),
			Reason:    fmt.Sprintf("Ajuste de inventario: %s", input.Reason),
			CreatedAt: now,
		})
	})
}

// ProductLedger asientos de un producto, más recientes primero.
func (uc *UseCase) ProductLedger(ctx context.Context, schema, productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	var list []*entity.MovementEntry
	err := uc.txRunner.RunInSchema(ctx, schema, func(
		_ repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.AdjustmentRepository,
	) error {
		var err error
		list, err = movementRepo.ListByProduct(productID, limit, offset)
		return err
	})
	return list, err
}

// LedgerTotals sumas de entradas y salidas del libro para un producto. El
// stock vigente debe coincidir con entradas menos salidas.
func (uc *UseCase) LedgerTotals(ctx context.Context, schema, productID string) (*repository.LedgerTotals, error) {
	var totals *repository.LedgerTotals
	err := uc.txRunner.RunInSchema(ctx, schema, func(
		_ repository.ProductRepository,
		movementRepo repository.MovementRepository,
		_ repository.AdjustmentRepository,
	) error {
		var err error
		totals, err = movementRepo.TotalsByProduct(productID)
		return err
	})
	return totals, err
}
