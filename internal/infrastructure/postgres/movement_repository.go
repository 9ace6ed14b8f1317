package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, product_id, user_id, kind, quantity, unit_price, reason, reference, sale_id, created_at`

// MovementRepo libro append-only de movimientos del schema activo. No hay
// UPDATE ni DELETE contra inventory_movements en todo el repo.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append agrega un asiento al libro.
func (r *MovementRepo) Append(m *entity.MovementEntry) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.UserID, m.Kind, m.Quantity, m.UnitPrice,
		m.Reason, m.Reference, m.SaleID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListByProduct lista los asientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+movementColumns+` FROM inventory_movements
		 WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListByReference lista asientos por referencia externa (guía, factura).
func (r *MovementRepo) ListByReference(reference string) ([]*entity.MovementEntry, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+movementColumns+` FROM inventory_movements
		 WHERE reference = $1 ORDER BY created_at`, reference)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// TotalsByProduct sumas de entradas y salidas del libro para un producto.
func (r *MovementRepo) TotalsByProduct(productID string) (*repository.LedgerTotals, error) {
	var t repository.LedgerTotals
	err := r.q.QueryRow(context.Background(),
		`SELECT
		    COALESCE(SUM(quantity) FILTER (WHERE kind = 'ENTRY'), 0),
		    COALESCE(SUM(quantity) FILTER (WHERE kind = 'EXIT'), 0)
		 FROM inventory_movements WHERE product_id = $1`, productID,
	).Scan(&t.Entries, &t.Exits)
	if err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}
	return &t, nil
}

func (r *MovementRepo) collect(rows pgx.Rows) ([]*entity.MovementEntry, error) {
	var list []*entity.MovementEntry
	for rows.Next() {
		var m entity.MovementEntry
		if err := rows.Scan(&m.ID, &m.ProductID, &m.UserID, &m.Kind, &m.Quantity,
			&m.UnitPrice, &m.Reason, &m.Reference, &m.SaleID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo libro de ajustes manuales del schema activo.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Append agrega un ajuste al libro.
func (r *AdjustmentRepo) Append(a *entity.AdjustmentEntry) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO inventory_adjustments (id, product_id, user_id, kind, quantity, reason, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.ProductID, a.UserID, a.Kind, a.Quantity, a.Reason, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append adjustment: %w", err)
	}
	return nil
}

// ListByProduct lista ajustes de un producto, más recientes primero.
func (r *AdjustmentRepo) ListByProduct(productID string, limit, offset int) ([]*entity.AdjustmentEntry, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, product_id, user_id, kind, quantity, reason, created_at
		 FROM inventory_adjustments WHERE product_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.AdjustmentEntry
	for rows.Next() {
		var a entity.AdjustmentEntry
		if err := rows.Scan(&a.ID, &a.ProductID, &a.UserID, &a.Kind, &a.Quantity, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
