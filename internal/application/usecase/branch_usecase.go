package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/codes"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

// BranchUseCase registro de sucursales (schema compartido). Invariantes que
// mantiene al guardar:
//
//   - A lo sumo una sucursal principal; promover una degrada a las demás en la
//     misma transacción.
//   - Si ninguna sucursal es principal, la que se guarda pasa a serlo.
//   - La principal no puede desactivarse.
//
// Crear una sucursal materializa su schema con tablas en la misma transacción.
type BranchUseCase struct {
	runner   BranchTxRunner
	branches repository.BranchRepository
	events   repository.EventRepository
	log      *logger.Logger
}

// NewBranchUseCase construye el caso de uso. branches va atado al pool para
// las lecturas.
func NewBranchUseCase(runner BranchTxRunner, branches repository.BranchRepository, events repository.EventRepository, log *logger.Logger) *BranchUseCase {
	return &BranchUseCase{runner: runner, branches: branches, events: events, log: log}
}

// CreateBranchInput entrada para crear una sucursal.
type CreateBranchInput struct {
	Code           string
	Name           string
	ShortName      string
	Address        string
	City           string
	Phone          string
	DocumentPrefix string
	IsPrimary      bool
	SchemaName     string // opcional; derivado del código si viene vacío
}

// Create registra la sucursal y materializa su schema. El nombre de schema se
// deriva del código si no se indica. Falla con ErrNameCollision si otra
// sucursal ya es dueña del schema y con ErrReservedName si el nombre está
// reservado por PostgreSQL.
func (uc *BranchUseCase) Create(ctx context.Context, input CreateBranchInput) (*entity.Branch, error) {
	if input.Name == "" || !codes.ValidBranchCode(input.Code) {
		return nil, domain.ErrInvalidInput
	}
	schema := input.SchemaName
	if schema == "" {
		schema = codes.SchemaNameFromBranchCode(input.Code)
	}
	if codes.IsReservedSchema(schema) {
		return nil, domain.ErrReservedName
	}
	if err := codes.ValidateSchemaName(schema); err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	branch := &entity.Branch{
		ID:             uuid.New().String(),
		Code:           input.Code,
		SchemaName:     schema,
		Name:           input.Name,
		ShortName:      input.ShortName,
		Address:        input.Address,
		City:           input.City,
		Phone:          input.Phone,
		DocumentPrefix: input.DocumentPrefix,
		IsPrimary:      input.IsPrimary,
		IsActive:       true,
		OpenedAt:       &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.runner.RunBranchSave(ctx, func(branchRepo repository.BranchRepository, schemas SchemaAdmin) error {
		existing, err := branchRepo.GetByCode(branch.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		owner, err := branchRepo.GetBySchema(schema)
		if err != nil {
			return err
		}
		if owner != nil {
			return domain.ErrNameCollision
		}

		primary, err := branchRepo.GetPrimary()
		if err != nil {
			return err
		}
		if primary == nil {
			branch.IsPrimary = true
		}
		if branch.IsPrimary {
			if err := branchRepo.DemotePrimaryExcept(branch.ID); err != nil {
				return err
			}
		}
		if err := branchRepo.Create(branch); err != nil {
			return err
		}
		return schemas.CreateSchema(ctx, schema)
	})
	if err != nil {
		return nil, err
	}

	uc.emitCreated(branch)
	uc.log.Info().Str("sucursal", branch.Code).Str("schema", schema).
		Bool("principal", branch.IsPrimary).Msg("sucursal creada")
	return branch, nil
}

// UpdateBranchInput entrada para actualizar una sucursal.
type UpdateBranchInput struct {
	ID             string
	Name           string
	ShortName      string
	Address        string
	City           string
	Phone          string
	DocumentPrefix string
	IsPrimary      bool
	IsActive       bool
}

// Update guarda la sucursal manteniendo los invariantes de principal. El
// código y el schema son inmutables después de la creación.
func (uc *BranchUseCase) Update(ctx context.Context, input UpdateBranchInput) (*entity.Branch, error) {
	if input.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	var saved *entity.Branch
	err := uc.runner.RunBranchSave(ctx, func(branchRepo repository.BranchRepository, _ SchemaAdmin) error {
		branch, err := branchRepo.GetByID(input.ID)
		if err != nil {
			return err
		}
		if branch == nil {
			return domain.ErrNotFound
		}
		if input.IsPrimary && !input.IsActive {
			return domain.ErrPrimaryMustStayActive
		}
		if branch.IsPrimary && !input.IsActive {
			return domain.ErrPrimaryMustStayActive
		}

		branch.Name = input.Name
		branch.ShortName = input.ShortName
		branch.Address = input.Address
		branch.City = input.City
		branch.Phone = input.Phone
		branch.DocumentPrefix = input.DocumentPrefix
		branch.IsActive = input.IsActive
		branch.IsPrimary = input.IsPrimary
		branch.UpdatedAt = time.Now()

		if branch.IsPrimary {
			if err := branchRepo.DemotePrimaryExcept(branch.ID); err != nil {
				return err
			}
		} else {
			// Si ninguna otra queda como principal, la guardada lo es.
			primary, err := branchRepo.GetPrimary()
			if err != nil {
				return err
			}
			if primary == nil || primary.ID == branch.ID {
				branch.IsPrimary = true
			}
		}
		if err := branchRepo.Update(branch); err != nil {
			return err
		}
		saved = branch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Archive desactiva la sucursal conservando su registro y su schema con todos
// los datos. La principal no se archiva.
func (uc *BranchUseCase) Archive(ctx context.Context, id string) error {
	branch, err := uc.branches.GetByID(id)
	if err != nil {
		return err
	}
	if branch == nil {
		return domain.ErrNotFound
	}
	if branch.IsPrimary {
		return domain.ErrPrimaryMustStayActive
	}
	return uc.branches.Archive(id)
}

// Get obtiene una sucursal por ID.
func (uc *BranchUseCase) Get(ctx context.Context, id string) (*entity.Branch, error) {
	branch, err := uc.branches.GetByID(id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, domain.ErrNotFound
	}
	return branch, nil
}

// List lista sucursales, principal primero.
func (uc *BranchUseCase) List(ctx context.Context, onlyActive bool) ([]*entity.Branch, error) {
	return uc.branches.List(onlyActive)
}

func (uc *BranchUseCase) emitCreated(branch *entity.Branch) {
	payload, _ := json.Marshal(map[string]string{
		"branch_id": branch.ID,
		"code":      branch.Code,
		"schema":    branch.SchemaName,
	})
	if err := uc.events.Append(&entity.DomainEvent{
		ID:         uuid.New().String(),
		Name:       entity.EventBranchCreated,
		BranchID:   branch.ID,
		Payload:    payload,
		OccurredAt: time.Now(),
	}); err != nil {
		uc.log.Error().Err(err).Str("sucursal", branch.Code).Msg("no se pudo publicar branch.created")
	}
}
