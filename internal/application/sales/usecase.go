// Package sales implementa la venta de mostrador: numeración de facturas por
// sucursal, líneas polimórficas (producto o servicio) y descuento de stock con
// su asiento en el libro, todo en una transacción.
package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/codes"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/pricing"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

// UseCase caso de uso de ventas POS.
type UseCase struct {
	txRunner   TxRunner
	events     repository.EventRepository
	vatPercent decimal.Decimal
	log        *logger.Logger
}

// NewUseCase construye el caso de uso. vatPercent es el IVA de proceso
// aplicado a líneas de producto (los servicios no llevan IVA).
func NewUseCase(txRunner TxRunner, events repository.EventRepository, vatPercent decimal.Decimal, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, events: events, vatPercent: vatPercent, log: log}
}

// LineInput línea de venta entrante. Exactamente una de las variantes:
// producto (ProductID) o servicio (ServiceRef más UnitPrice).
type LineInput struct {
	IsService  bool
	ProductID  string
	ServiceRef string
	Detail     string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal // obligatorio en servicios; ignorado en productos
}

// CommitInput entrada para registrar una venta completa.
type CommitInput struct {
	UserID       string
	BranchID     string
	CustomerName string
	Discount     decimal.Decimal
	Lines        []LineInput
}

// Commit registra la venta: asigna el siguiente número de factura de la
// sucursal, valida y descuenta stock de las líneas de producto con su asiento
// EXIT en el libro, y persiste cabecera y líneas. Stock insuficiente en
// cualquier línea revierte la venta completa.
func (uc *UseCase) Commit(ctx context.Context, schema string, input CommitInput) (*entity.Sale, error) {
	if input.UserID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if line.IsService {
			if line.ServiceRef == "" || !line.UnitPrice.GreaterThan(decimal.Zero) {
				return nil, domain.ErrInvalidInput
			}
		} else if line.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
	}
	if input.Discount.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var sale *entity.Sale
	err := uc.txRunner.RunSale(ctx, schema, func(
		saleRepo repository.SaleRepository,
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error {
		last, err := saleRepo.LastInvoiceNumber()
		if err != nil {
			return err
		}
		invoice := codes.NextInvoiceNumber(last)
		now := time.Now()
		saleID := uuid.New().String()

		// Primera pasada: bloquear productos, validar stock y calcular los
		// montos. Nada se escribe hasta que toda línea es válida.
		type priced struct {
			line     LineInput
			product  *entity.Product
			unit     decimal.Decimal
			subtotal decimal.Decimal
			vat      decimal.Decimal
		}
		items := make([]priced, 0, len(input.Lines))
		subtotal, vat := decimal.Zero, decimal.Zero
		for _, line := range input.Lines {
			it := priced{line: line, unit: line.UnitPrice}
			if !line.IsService {
				product, err := productRepo.GetForUpdate(line.ProductID)
				if err != nil {
					return err
				}
				if product == nil || !product.Active {
					return fmt.Errorf("%w: id %s", domain.ErrProductMissing, line.ProductID)
				}
				if product.StockOnHand.LessThan(line.Quantity) {
					return fmt.Errorf("%w: %s (disponible %s, solicitado %s)",
						domain.ErrInsufficientStock, product.Name, product.StockOnHand, line.Quantity)
				}
				it.product = product
				it.unit = product.SalePrice
			}
			it.subtotal = it.unit.Mul(line.Quantity).Round(2)
			if !line.IsService {
				it.vat = pricing.VATAmount(it.subtotal, uc.vatPercent)
			}
			subtotal = subtotal.Add(it.subtotal)
			vat = vat.Add(it.vat)
			items = append(items, it)
		}

		sale = &entity.Sale{
			ID:            saleID,
			InvoiceNumber: invoice,
			UserID:        input.UserID,
			CustomerName:  input.CustomerName,
			State:         entity.SaleCOMPLETED,
			Subtotal:      subtotal,
			VAT:           vat,
			Discount:      input.Discount,
			Total:         subtotal.Add(vat).Sub(input.Discount),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		for _, it := range items {
			saleLine := &entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				IsService: it.line.IsService,
				Detail:    it.line.Detail,
				Quantity:  it.line.Quantity,
				UnitPrice: it.unit,
				VAT:       it.vat,
				Subtotal:  it.subtotal,
				Total:     it.subtotal.Add(it.vat),
			}
			if it.line.IsService {
				ref := it.line.ServiceRef
				saleLine.ServiceRef = &ref
			} else {
				id := it.product.ID
				saleLine.ProductID = &id
				saleLine.VATPercent = uc.vatPercent
			}
			if err := saleRepo.CreateLine(saleLine); err != nil {
				return err
			}

			if it.line.IsService {
				continue
			}
			if err := productRepo.SetStock(it.product.ID, it.product.StockOnHand.Sub(it.line.Quantity)); err != nil {
				return err
			}
			price := it.unit
			if err := movementRepo.Append(&entity.MovementEntry{
				ID:        uuid.New().String(),
				ProductID: it.product.ID,
				UserID:    input.UserID,
				Kind:      entity.MovementEXIT,
				Quantity:  it.line.Quantity,
				UnitPrice: &price,
				Reason:    fmt.Sprintf("Venta #%s", invoice),
				Reference: invoice,
				SaleID:    &saleID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emitCompleted(sale, input.BranchID)
	return sale, nil
}

// Get obtiene la venta con sus líneas desde el schema de la sucursal.
func (uc *UseCase) Get(ctx context.Context, schema, saleID string) (*entity.Sale, []*entity.SaleLine, error) {
	var (
		sale  *entity.Sale
		lines []*entity.SaleLine
	)
	err := uc.txRunner.RunSale(ctx, schema, func(
		saleRepo repository.SaleRepository,
		_ repository.ProductRepository,
		_ repository.MovementRepository,
	) error {
		var err error
		sale, err = saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		lines, err = saleRepo.ListLines(saleID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return sale, lines, nil
}

// emitCompleted publica sale.completed después del commit; un fallo no
// revierte la venta.
func (uc *UseCase) emitCompleted(sale *entity.Sale, branchID string) {
	payload, _ := json.Marshal(map[string]string{
		"sale_id": sale.ID,
		"invoice": sale.InvoiceNumber,
		"total":   sale.Total.String(),
	})
	if err := uc.events.Append(&entity.DomainEvent{
		ID:         uuid.New().String(),
		Name:       entity.EventSaleCompleted,
		BranchID:   branchID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}); err != nil {
		uc.log.Error().Err(err).Str("factura", sale.InvoiceNumber).Msg("no se pudo publicar sale.completed")
	}
}
