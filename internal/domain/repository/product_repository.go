package repository

import (
	"github.com/shopspring/decimal"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos, resuelto contra el
// schema activo de la request (o el fijado por la transacción).
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCode(code string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT ... FOR UPDATE) para
	// serializar mutaciones de stock dentro de la transacción.
	GetForUpdate(id string) (*entity.Product, error)
	GetByCodeForUpdate(code string) (*entity.Product, error)
	// SetStock fija stock_on_hand; solo debe llamarse con la fila bloqueada.
	SetStock(id string, qty decimal.Decimal) error
	List(onlyActive bool, limit, offset int) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Deactivate(id string) error
}

// CategoryRepository catálogo de categorías del schema activo.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	List(onlyActive bool) ([]*entity.Category, error)
}

// BrandRepository catálogo de marcas del schema activo.
type BrandRepository interface {
	Create(brand *entity.Brand) error
	GetByID(id string) (*entity.Brand, error)
	List(onlyActive bool) ([]*entity.Brand, error)
}
