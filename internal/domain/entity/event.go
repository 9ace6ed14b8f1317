package entity

import (
	"encoding/json"
	"time"
)

// Nombres de eventos de dominio publicados por el núcleo.
const (
	EventSaleCompleted    = "sale.completed"
	EventTransferReceived = "transfer.received"
	EventBranchCreated    = "branch.created"
)

// DomainEvent registro append-only en el schema compartido. Los efectos sobre
// otros agregados (puntos de fidelidad, notificaciones) viven fuera del núcleo
// y consumen este log después del commit.
type DomainEvent struct {
	ID         string
	Name       string
	BranchID   string
	Payload    json.RawMessage
	OccurredAt time.Time
}
