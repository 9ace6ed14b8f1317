package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, user_id, customer_name, state,
	subtotal, vat, discount, total, created_at, updated_at`

// SaleRepo ventas del schema activo.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste el encabezado de la venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.InvoiceNumber, s.UserID, s.CustomerName, s.State,
		s.Subtotal, s.VAT, s.Discount, s.Total, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de venta.
func (r *SaleRepo) CreateLine(l *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, is_service, product_id, service_ref, detail,
			quantity, unit_price, vat_percent, vat, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.SaleID, l.IsService, l.ProductID, l.ServiceRef, l.Detail,
		l.Quantity, l.UnitPrice, l.VATPercent, l.VAT, l.Subtotal, l.Total,
	)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(context.Background(),
		`SELECT `+saleColumns+` FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.InvoiceNumber, &s.UserID, &s.CustomerName, &s.State,
		&s.Subtotal, &s.VAT, &s.Discount, &s.Total, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}

// ListLines lista las líneas de una venta.
func (r *SaleRepo) ListLines(saleID string) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, sale_id, is_service, product_id, service_ref, detail,
			quantity, unit_price, vat_percent, vat, subtotal, total
		 FROM sale_lines WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.IsService, &l.ProductID, &l.ServiceRef, &l.Detail,
			&l.Quantity, &l.UnitPrice, &l.VATPercent, &l.VAT, &l.Subtotal, &l.Total); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// LastInvoiceNumber devuelve el mayor número de factura emitido en el schema
// activo, o cadena vacía si la sucursal no tiene ventas.
func (r *SaleRepo) LastInvoiceNumber() (string, error) {
	var invoice string
	err := r.q.QueryRow(context.Background(),
		`SELECT invoice_number FROM sales ORDER BY invoice_number DESC LIMIT 1`,
	).Scan(&invoice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return invoice, nil
}
