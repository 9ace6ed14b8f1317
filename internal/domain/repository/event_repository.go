package repository

import "github.com/vpmotos/vpmotos-api/internal/domain/entity"

// EventRepository log append-only de eventos de dominio (schema compartido).
// Los consumidores (fidelidad, notificaciones) leen después del commit.
type EventRepository interface {
	Append(event *entity.DomainEvent) error
	ListSince(name string, limit int) ([]*entity.DomainEvent, error)
}

// ParameterRepository parámetros globales del sistema (schema compartido).
type ParameterRepository interface {
	Get(name string) (*entity.SystemParameter, error)
	Upsert(param *entity.SystemParameter) error
}
