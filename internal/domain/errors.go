package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Namespaces (schemas por sucursal).
	ErrNameCollision = errors.New("el schema ya existe para otra sucursal")
	ErrReservedName  = errors.New("nombre de schema reservado por PostgreSQL")

	// Sucursales.
	ErrPrimaryMustStayActive = errors.New("la sucursal principal no puede desactivarse")

	// Inventario y transferencias.
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrProductMissing         = errors.New("producto inexistente o inactivo")
	ErrSameBranch             = errors.New("la sucursal origen y destino deben ser diferentes")
	ErrInvalidTransition      = errors.New("la transferencia no admite esa transición de estado")
	ErrNotAuthorizedForBranch = errors.New("solo usuarios de la sucursal destino pueden recibir la transferencia")
)
