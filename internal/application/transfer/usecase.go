// Package transfer implementa el coordinador de transferencias entre
// sucursales: creación, tránsito, recepción y cancelación, con los asientos
// pareados en los libros de origen y destino.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/codes"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

// SharedSchema nombre del namespace compartido donde viven las transferencias.
const SharedSchema = "public"

// UseCase coordina la máquina de estados de transferencias. Toda transición
// que mueve stock corre en una sola transacción que cubre origen, destino y
// el schema compartido.
type UseCase struct {
	txRunner  TxRunner
	branches  repository.BranchRepository
	transfers repository.TransferRepository
	details   repository.TransferDetailRepository
	events    repository.EventRepository
	log       *logger.Logger
}

// NewUseCase construye el coordinador. transfers y details van atados al pool:
// las lecturas de listado no necesitan binding de schema.
func NewUseCase(
	txRunner TxRunner,
	branches repository.BranchRepository,
	transfers repository.TransferRepository,
	details repository.TransferDetailRepository,
	events repository.EventRepository,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		branches:  branches,
		transfers: transfers,
		details:   details,
		events:    events,
		log:       log,
	}
}

// Line línea a transferir.
type Line struct {
	ProductID string
	Quantity  decimal.Decimal
}

// CreateInput entrada para crear una transferencia.
type CreateInput struct {
	SourceBranchID      string
	DestinationBranchID string
	SenderID            string
	Lines               []Line
	Notes               string
}

// Create crea la transferencia en PENDING: valida stock de todas las líneas en
// origen (sin creación parcial), descuenta stock, asienta las salidas en el
// libro de origen y guarda los detalles snapshot en el schema compartido. Todo
// en una transacción.
func (uc *UseCase) Create(ctx context.Context, input CreateInput) (*entity.Transfer, error) {
	if input.SenderID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceBranchID == input.DestinationBranchID {
		return nil, domain.ErrSameBranch
	}
	source, err := uc.branches.GetByID(input.SourceBranchID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.branches.GetByID(input.DestinationBranchID)
	if err != nil {
		return nil, err
	}
	if source == nil || destination == nil {
		return nil, domain.ErrNotFound
	}
	for _, line := range input.Lines {
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	created := &entity.Transfer{
		ID:            uuid.New().String(),
		GuideNumber:   codes.NewGuideNumber(now),
		SourceID:      source.ID,
		DestinationID: destination.ID,
		SenderID:      input.SenderID,
		State:         entity.TransferPENDING,
		SentAt:        now,
		SendNotes:     input.Notes,
	}

	err = uc.txRunner.RunAcrossSchemas(ctx, func(hop SchemaHopper) error {
		repos, err := hop.Use(source.SchemaName)
		if err != nil {
			return err
		}

		// Valida todas las líneas antes de tocar nada; los errores se juntan
		// en uno solo y no hay creación parcial. GetForUpdate deja la fila
		// bloqueada, así la validación sigue vigente al descontar.
		products := make([]*entity.Product, len(input.Lines))
		var failures []error
		for i, line := range input.Lines {
			product, err := repos.Products.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.Active {
				failures = append(failures, fmt.Errorf("%w: id %s en %s", domain.ErrProductMissing, line.ProductID, source.Name))
				continue
			}
			if product.StockOnHand.LessThan(line.Quantity) {
				failures = append(failures, fmt.Errorf("%w: %s (disponible %s, solicitado %s)",
					domain.ErrInsufficientStock, product.Name, product.StockOnHand, line.Quantity))
				continue
			}
			products[i] = product
		}
		if len(failures) > 0 {
			return errors.Join(failures...)
		}

		// El repo de transferencias califica sus tablas con public: funciona
		// con el search_path todavía en el schema de origen.
		if err := repos.Transfers.Create(created); err != nil {
			return err
		}

		for i, line := range input.Lines {
			product := products[i]
			if err := repos.Products.SetStock(product.ID, product.StockOnHand.Sub(line.Quantity)); err != nil {
				return err
			}
			price := product.SalePrice
			if err := repos.Movements.Append(&entity.MovementEntry{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				UserID:    input.SenderID,
				Kind:      entity.MovementEXIT,
				Quantity:  line.Quantity,
				UnitPrice: &price,
				Reason:    fmt.Sprintf("Transferencia a %s - Guía #%s", destination.Name, created.GuideNumber),
				Reference: created.GuideNumber,
				CreatedAt: now,
			}); err != nil {
				return err
			}
			if err := repos.Details.Create(&entity.TransferDetail{
				ID:          uuid.New().String(),
				TransferID:  created.ID,
				ProductCode: product.Code,
				ProductName: product.Name,
				SentQty:     line.Quantity,
				UnitPrice:   product.SalePrice,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("guia", created.GuideNumber).
		Str("origen", source.Code).Str("destino", destination.Code).
		Int("lineas", len(input.Lines)).Msg("transferencia creada")
	return created, nil
}

// MarkInTransit transición de metadatos PENDING -> IN_TRANSIT. No mueve stock.
func (uc *UseCase) MarkInTransit(ctx context.Context, transferID string) (*entity.Transfer, error) {
	t, err := uc.transfers.GetByID(transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if t.State != entity.TransferPENDING {
		return nil, domain.ErrInvalidTransition
	}
	t.State = entity.TransferInTransit
	if err := uc.transfers.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// ReceiveLine cantidad recibida de un producto, con nota opcional.
type ReceiveLine struct {
	ProductCode string
	ReceivedQty decimal.Decimal
	Note        string
}

// ReceiveInput entrada para recibir una transferencia.
type ReceiveInput struct {
	TransferID       string
	ReceiverID       string
	ReceiverBranchID string
	ReceiverSeeAll   bool
	Lines            []ReceiveLine
	Notes            string
}

// Receive recibe la transferencia en destino: fija cantidades recibidas en los
// detalles (con observación de diferencia si enviado != recibido), materializa
// en destino los productos que no existan copiando los campos inmutables desde
// origen, incrementa stock con su asiento ENTRY y deja la transferencia en
// RECEIVED. Solo usuarios de la sucursal destino (o con visibilidad global)
// pueden recibir.
func (uc *UseCase) Receive(ctx context.Context, input ReceiveInput) (*entity.Transfer, error) {
	if input.ReceiverID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var received *entity.Transfer
	err := uc.txRunner.RunAcrossSchemas(ctx, func(hop SchemaHopper) error {
		shared, err := hop.Use(SharedSchema)
		if err != nil {
			return err
		}
		t, err := shared.Transfers.GetByID(input.TransferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if !t.CanBeReceived() {
			return fmt.Errorf("%w: estado %s", domain.ErrInvalidTransition, t.State)
		}
		if !input.ReceiverSeeAll && input.ReceiverBranchID != t.DestinationID {
			return domain.ErrNotAuthorizedForBranch
		}

		source, err := uc.branches.GetByID(t.SourceID)
		if err != nil {
			return err
		}
		destination, err := uc.branches.GetByID(t.DestinationID)
		if err != nil {
			return err
		}
		if source == nil || destination == nil {
			return domain.ErrNotFound
		}

		for _, line := range input.Lines {
			if line.ReceivedQty.LessThan(decimal.Zero) {
				return domain.ErrInvalidInput
			}
			detail, err := shared.Details.GetByTransferAndCode(t.ID, line.ProductCode)
			if err != nil {
				return err
			}
			if detail == nil {
				return fmt.Errorf("%w: código %s no viaja en la guía %s", domain.ErrProductMissing, line.ProductCode, t.GuideNumber)
			}

			qty := line.ReceivedQty
			detail.ReceivedQty = &qty
			if detail.HasDifference() {
				diff := detail.Difference()
				sign := ""
				if diff.GreaterThan(decimal.Zero) {
					sign = "+"
				}
				detail.Observations = fmt.Sprintf("Diferencia: %s%s. %s", sign, diff, line.Note)
			} else if line.Note != "" {
				detail.Observations = line.Note
			}
			if err := shared.Details.Update(detail); err != nil {
				return err
			}

			dest, err := hop.Use(destination.SchemaName)
			if err != nil {
				return err
			}
			product, err := dest.Products.GetByCodeForUpdate(detail.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				product, err = uc.materialize(hop, source.SchemaName, destination.SchemaName, detail.ProductCode)
				if err != nil {
					return err
				}
			}

			if err := dest.Products.SetStock(product.ID, product.StockOnHand.Add(line.ReceivedQty)); err != nil {
				return err
			}
			price := product.SalePrice
			if err := dest.Movements.Append(&entity.MovementEntry{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				UserID:    input.ReceiverID,
				Kind:      entity.MovementENTRY,
				Quantity:  line.ReceivedQty,
				UnitPrice: &price,
				Reason:    fmt.Sprintf("Transferencia desde %s - Guía #%s", source.Name, t.GuideNumber),
				Reference: t.GuideNumber,
				CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		t.State = entity.TransferRECEIVED
		t.ReceiverID = &input.ReceiverID
		t.ReceivedAt = &now
		t.ReceiveNotes = input.Notes
		if err := shared.Transfers.Update(t); err != nil {
			return err
		}
		received = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.emitReceived(received)
	return received, nil
}

// materialize copia un producto desde origen hacia destino: campos inmutables
// (código, nombre, descripción, precios, IVA, categoría, marca, stock mínimo),
// stock en cero y activo. La categoría y la marca también se copian si el
// destino no las tiene, para que las referencias queden válidas.
func (uc *UseCase) materialize(hop SchemaHopper, sourceSchema, destSchema, code string) (*entity.Product, error) {
	src, err := hop.Use(sourceSchema)
	if err != nil {
		return nil, err
	}
	origin, err := src.Products.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if origin == nil {
		return nil, fmt.Errorf("%w: código %s no existe en origen", domain.ErrProductMissing, code)
	}
	category, err := src.Categories.GetByID(origin.CategoryID)
	if err != nil {
		return nil, err
	}
	brand, err := src.Brands.GetByID(origin.BrandID)
	if err != nil {
		return nil, err
	}

	dest, err := hop.Use(destSchema)
	if err != nil {
		return nil, err
	}
	if category != nil {
		existing, err := dest.Categories.GetByID(category.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			copyCat := *category
			copyCat.ParentID = nil // el padre puede no existir en destino
			if err := dest.Categories.Create(&copyCat); err != nil {
				return nil, err
			}
		}
	}
	if brand != nil {
		existing, err := dest.Brands.GetByID(brand.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			copyBrand := *brand
			if err := dest.Brands.Create(&copyBrand); err != nil {
				return nil, err
			}
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          origin.Code,
		CategoryID:    origin.CategoryID,
		BrandID:       origin.BrandID,
		Name:          origin.Name,
		Description:   origin.Description,
		PurchasePrice: origin.PurchasePrice,
		SalePrice:     origin.SalePrice,
		StockOnHand:   decimal.Zero,
		MinStock:      origin.MinStock,
		VATInclusive:  origin.VATInclusive,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := dest.Products.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// CancelInput entrada para cancelar una transferencia.
type CancelInput struct {
	TransferID string
	UserID     string
	ActorName  string
	Reason     string
}

// Cancel cancela una transferencia PENDING devolviendo el stock al origen con
// asientos ENTRY compensatorios. IN_TRANSIT y los estados terminales no se
// cancelan.
func (uc *UseCase) Cancel(ctx context.Context, input CancelInput) (*entity.Transfer, error) {
	if input.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	var cancelled *entity.Transfer
	err := uc.txRunner.RunAcrossSchemas(ctx, func(hop SchemaHopper) error {
		shared, err := hop.Use(SharedSchema)
		if err != nil {
			return err
		}
		t, err := shared.Transfers.GetByID(input.TransferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if !t.CanBeCancelled() {
			return fmt.Errorf("%w: estado %s", domain.ErrInvalidTransition, t.State)
		}
		source, err := uc.branches.GetByID(t.SourceID)
		if err != nil {
			return err
		}
		if source == nil {
			return domain.ErrNotFound
		}
		details, err := shared.Details.ListByTransfer(t.ID)
		if err != nil {
			return err
		}

		src, err := hop.Use(source.SchemaName)
		if err != nil {
			return err
		}
		now := time.Now()
		for _, detail := range details {
			product, err := src.Products.GetByCodeForUpdate(detail.ProductCode)
			if err != nil {
				return err
			}
			if product == nil {
				uc.log.Warn().Str("guia", t.GuideNumber).Str("codigo", detail.ProductCode).
					Msg("producto ausente en origen al cancelar; stock no revertido")
				continue
			}
			if err := src.Products.SetStock(product.ID, product.StockOnHand.Add(detail.SentQty)); err != nil {
				return err
			}
			price := product.SalePrice
			if err := src.Movements.Append(&entity.MovementEntry{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				UserID:    input.UserID,
				Kind:      entity.MovementENTRY,
				Quantity:  detail.SentQty,
				UnitPrice: &price,
				Reason:    fmt.Sprintf("Cancelación de transferencia #%s - %s", t.GuideNumber, input.Reason),
				Reference: t.GuideNumber,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		t.State = entity.TransferCANCELLED
		t.ReceiveNotes = fmt.Sprintf("Cancelada por %s: %s", input.ActorName, input.Reason)
		if err := shared.Transfers.Update(t); err != nil {
			return err
		}
		cancelled = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("guia", cancelled.GuideNumber).Str("motivo", input.Reason).
		Msg("transferencia cancelada")
	return cancelled, nil
}

// Get obtiene una transferencia con sus detalles.
func (uc *UseCase) Get(ctx context.Context, transferID string) (*entity.Transfer, []*entity.TransferDetail, error) {
	t, err := uc.transfers.GetByID(transferID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, domain.ErrNotFound
	}
	details, err := uc.details.ListByTransfer(t.ID)
	if err != nil {
		return nil, nil, err
	}
	return t, details, nil
}

// ListPendingForBranch transferencias por recibir en una sucursal. Lectura
// sobre el schema compartido; no necesita binding de sucursal.
func (uc *UseCase) ListPendingForBranch(ctx context.Context, branchID string) ([]*entity.Transfer, error) {
	return uc.transfers.ListPendingForBranch(branchID)
}

// ListSentByBranch transferencias enviadas por una sucursal, todo estado.
func (uc *UseCase) ListSentByBranch(ctx context.Context, branchID string) ([]*entity.Transfer, error) {
	return uc.transfers.ListSentByBranch(branchID)
}

// emitReceived publica el evento transfer.received después del commit. Los
// consumidores (notificaciones) leen el log; un fallo aquí no revierte la
// recepción.
func (uc *UseCase) emitReceived(t *entity.Transfer) {
	payload, _ := json.Marshal(map[string]string{
		"transfer_id": t.ID,
		"guide":       t.GuideNumber,
		"source":      t.SourceID,
		"destination": t.DestinationID,
	})
	if err := uc.events.Append(&entity.DomainEvent{
		ID:         uuid.New().String(),
		Name:       entity.EventTransferReceived,
		BranchID:   t.DestinationID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}); err != nil {
		uc.log.Error().Err(err).Str("guia", t.GuideNumber).Msg("no se pudo publicar transfer.received")
	}
}
