package entity

import "time"

// SystemParameter parámetro de configuración global (schema compartido).
// Permite sobreescribir en caliente valores como IVA_PERCENTAGE o CURRENCY.
type SystemParameter struct {
	ID          string
	Name        string // único
	Value       string
	Description string
	UpdatedAt   time.Time
}
