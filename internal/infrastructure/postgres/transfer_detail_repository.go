package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vpmotos/vpmotos-api/internal/domain"
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var _ repository.TransferDetailRepository = (*TransferDetailRepo)(nil)

const transferDetailColumns = `id, transfer_id, product_code, product_name, sent_qty,
	received_qty, unit_price, observations`

// TransferDetailRepo líneas snapshot de transferencias (schema public).
type TransferDetailRepo struct {
	q Querier
}

// NewTransferDetailRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferDetailRepository(q Querier) *TransferDetailRepo {
	return &TransferDetailRepo{q: q}
}

// Create persiste una línea de transferencia.
func (r *TransferDetailRepo) Create(d *entity.TransferDetail) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	query := `
		INSERT INTO public.transfer_details (` + transferDetailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		d.ID, d.TransferID, d.ProductCode, d.ProductName, d.SentQty,
		d.ReceivedQty, d.UnitPrice, d.Observations,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer detail: %w", err)
	}
	return nil
}

// Update fija la cantidad recibida y las observaciones de una línea.
func (r *TransferDetailRepo) Update(d *entity.TransferDetail) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE public.transfer_details SET received_qty = $2, observations = $3 WHERE id = $1`,
		d.ID, d.ReceivedQty, d.Observations,
	)
	if err != nil {
		return fmt.Errorf("update transfer detail: %w", err)
	}
	return nil
}

// ListByTransfer lista las líneas de una transferencia.
func (r *TransferDetailRepo) ListByTransfer(transferID string) ([]*entity.TransferDetail, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+transferDetailColumns+` FROM public.transfer_details
		 WHERE transfer_id = $1 ORDER BY product_code`, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer details: %w", err)
	}
	defer rows.Close()
	var list []*entity.TransferDetail
	for rows.Next() {
		var d entity.TransferDetail
		if err := rows.Scan(&d.ID, &d.TransferID, &d.ProductCode, &d.ProductName, &d.SentQty,
			&d.ReceivedQty, &d.UnitPrice, &d.Observations); err != nil {
			return nil, fmt.Errorf("scan transfer detail: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// GetByTransferAndCode obtiene la línea de un producto dentro de una
// transferencia (nil si el producto no viaja en ella).
func (r *TransferDetailRepo) GetByTransferAndCode(transferID, productCode string) (*entity.TransferDetail, error) {
	var d entity.TransferDetail
	err := r.q.QueryRow(context.Background(),
		`SELECT `+transferDetailColumns+` FROM public.transfer_details
		 WHERE transfer_id = $1 AND product_code = $2`, transferID, productCode,
	).Scan(&d.ID, &d.TransferID, &d.ProductCode, &d.ProductName, &d.SentQty,
		&d.ReceivedQty, &d.UnitPrice, &d.Observations)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer detail: %w", err)
	}
	return &d, nil
}
