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

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, guide_number, source_id, destination_id, sender_id, receiver_id,
	state, sent_at, received_at, send_notes, receive_notes`

// TransferRepo implementación del puerto TransferRepository sobre PostgreSQL.
// Las transferencias viven en public: ambas sucursales las ven sin importar el
// search_path activo, por eso el SQL califica la tabla.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste una nueva transferencia.
func (r *TransferRepo) Create(t *entity.Transfer) error {
	query := `
		INSERT INTO public.transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.GuideNumber, t.SourceID, t.DestinationID, t.SenderID, t.ReceiverID,
		t.State, t.SentAt, t.ReceivedAt, t.SendNotes, t.ReceiveNotes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

// Update actualiza estado, receptor y notas de una transferencia.
func (r *TransferRepo) Update(t *entity.Transfer) error {
	query := `
		UPDATE public.transfers
		SET receiver_id = $2, state = $3, received_at = $4, send_notes = $5, receive_notes = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		t.ID, t.ReceiverID, t.State, t.ReceivedAt, t.SendNotes, t.ReceiveNotes,
	)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) scanOne(row pgx.Row, op string) (*entity.Transfer, error) {
	var t entity.Transfer
	err := row.Scan(
		&t.ID, &t.GuideNumber, &t.SourceID, &t.DestinationID, &t.SenderID, &t.ReceiverID,
		&t.State, &t.SentAt, &t.ReceivedAt, &t.SendNotes, &t.ReceiveNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &t, nil
}

// GetByID obtiene una transferencia por ID.
func (r *TransferRepo) GetByID(id string) (*entity.Transfer, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+transferColumns+` FROM public.transfers WHERE id = $1`, id)
	return r.scanOne(row, "get transfer")
}

// GetByGuide obtiene una transferencia por número de guía.
func (r *TransferRepo) GetByGuide(guideNumber string) (*entity.Transfer, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+transferColumns+` FROM public.transfers WHERE guide_number = $1`, guideNumber)
	return r.scanOne(row, "get transfer by guide")
}

// ListPendingForBranch transferencias pendientes de recibir en una sucursal.
func (r *TransferRepo) ListPendingForBranch(branchID string) ([]*entity.Transfer, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+transferColumns+` FROM public.transfers
		 WHERE destination_id = $1 AND state IN ('PENDING','IN_TRANSIT')
		 ORDER BY sent_at`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list pending transfers: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListSentByBranch transferencias originadas en una sucursal, todo estado.
func (r *TransferRepo) ListSentByBranch(branchID string) ([]*entity.Transfer, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT `+transferColumns+` FROM public.transfers
		 WHERE source_id = $1 ORDER BY sent_at DESC`, branchID)
	if err != nil {
		return nil, fmt.Errorf("list sent transfers: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *TransferRepo) collect(rows pgx.Rows) ([]*entity.Transfer, error) {
	var list []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(
			&t.ID, &t.GuideNumber, &t.SourceID, &t.DestinationID, &t.SenderID, &t.ReceiverID,
			&t.State, &t.SentAt, &t.ReceivedAt, &t.SendNotes, &t.ReceiveNotes,
		); err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
