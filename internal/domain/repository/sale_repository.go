package repository

import "github.com/vpmotos/vpmotos-api/internal/domain/entity"

// SaleRepository ventas del schema activo.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	ListLines(saleID string) ([]*entity.SaleLine, error)
	// LastInvoiceNumber devuelve el último número emitido ("" si no hay).
	LastInvoiceNumber() (string, error)
}
