package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
)

var _ repository.EventRepository = (*EventRepo)(nil)

// EventRepo log append-only de eventos de dominio (schema public).
type EventRepo struct {
	q Querier
}

// NewEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEventRepository(q Querier) *EventRepo {
	return &EventRepo{q: q}
}

// Append agrega un evento al log.
func (r *EventRepo) Append(e *entity.DomainEvent) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO public.domain_events (id, name, branch_id, payload, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.Name, nullIfEmpty(e.BranchID), e.Payload, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListSince últimos eventos con un nombre dado, más recientes primero.
func (r *EventRepo) ListSince(name string, limit int) ([]*entity.DomainEvent, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, COALESCE(branch_id::text, ''), payload, occurred_at
		 FROM public.domain_events WHERE name = $1
		 ORDER BY occurred_at DESC LIMIT $2`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	var list []*entity.DomainEvent
	for rows.Next() {
		var e entity.DomainEvent
		if err := rows.Scan(&e.ID, &e.Name, &e.BranchID, &e.Payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.ParameterRepository = (*ParameterRepo)(nil)

// ParameterRepo parámetros globales (schema public).
type ParameterRepo struct {
	q Querier
}

// NewParameterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewParameterRepository(q Querier) *ParameterRepo {
	return &ParameterRepo{q: q}
}

// Get obtiene un parámetro por nombre (nil si no existe).
func (r *ParameterRepo) Get(name string) (*entity.SystemParameter, error) {
	var p entity.SystemParameter
	err := r.q.QueryRow(context.Background(),
		`SELECT id, name, value, description, updated_at
		 FROM public.system_parameters WHERE name = $1`, name,
	).Scan(&p.ID, &p.Name, &p.Value, &p.Description, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get parameter: %w", err)
	}
	return &p, nil
}

// Upsert crea o actualiza un parámetro por nombre.
func (r *ParameterRepo) Upsert(p *entity.SystemParameter) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO public.system_parameters (id, name, value, description, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value,
		     description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Value, p.Description, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert parameter: %w", err)
	}
	return nil
}
