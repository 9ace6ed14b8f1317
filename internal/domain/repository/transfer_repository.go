package repository

import "github.com/vpmotos/vpmotos-api/internal/domain/entity"

// TransferRepository puerto para transferencias (schema compartido).
type TransferRepository interface {
	Create(transfer *entity.Transfer) error
	Update(transfer *entity.Transfer) error
	GetByID(id string) (*entity.Transfer, error)
	GetByGuide(guideNumber string) (*entity.Transfer, error)
	// ListPendingForBranch transferencias en PENDING o IN_TRANSIT con destino
	// en la sucursal indicada.
	ListPendingForBranch(branchID string) ([]*entity.Transfer, error)
	// ListSentByBranch transferencias originadas en la sucursal, todo estado.
	ListSentByBranch(branchID string) ([]*entity.Transfer, error)
}

// TransferDetailRepository líneas snapshot de una transferencia (compartido).
type TransferDetailRepository interface {
	Create(detail *entity.TransferDetail) error
	Update(detail *entity.TransferDetail) error
	ListByTransfer(transferID string) ([]*entity.TransferDetail, error)
	GetByTransferAndCode(transferID, productCode string) (*entity.TransferDetail, error)
}
