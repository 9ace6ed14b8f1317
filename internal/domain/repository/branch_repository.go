package repository

import "github.com/vpmotos/vpmotos-api/internal/domain/entity"

// BranchRepository puerto de persistencia para sucursales (schema compartido).
type BranchRepository interface {
	Create(branch *entity.Branch) error
	Update(branch *entity.Branch) error
	GetByID(id string) (*entity.Branch, error)
	GetByCode(code string) (*entity.Branch, error)
	GetBySchema(schemaName string) (*entity.Branch, error)
	GetPrimary() (*entity.Branch, error)
	// DemotePrimaryExcept baja es_principal de toda sucursal distinta de id.
	DemotePrimaryExcept(id string) error
	List(onlyActive bool) ([]*entity.Branch, error)
	// Archive desactiva la sucursal; el schema y sus datos se conservan.
	Archive(id string) error
}
