package entity

import "time"

// Branch representa una sucursal física de la cadena. Vive en el schema
// compartido (public) y es dueña de un schema privado con sus tablas de negocio
// (productos, movimientos, ventas). El schema se materializa al crear la
// sucursal y nunca se elimina automáticamente.
type Branch struct {
	ID             string
	Code           string // único: mayúsculas, alfanumérico más - y _
	SchemaName     string // minúsculas, solo [a-z0-9_]; no puede ser reservado
	Name           string
	ShortName      string
	Address        string
	City           string
	Phone          string
	DocumentPrefix string // prefijo para documentos emitidos por la sucursal
	IsPrimary      bool   // exactamente una sucursal en true
	IsActive       bool
	OpenedAt       *time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
