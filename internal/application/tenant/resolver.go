// Package tenant resuelve, por request, el schema de sucursal contra el que
// ejecuta el núcleo. La resolución corre antes que cualquier acceso a datos y
// es estable durante toda la request.
package tenant

import (
	"github.com/vpmotos/vpmotos-api/internal/domain/entity"
	"github.com/vpmotos/vpmotos-api/internal/domain/repository"
	"github.com/vpmotos/vpmotos-api/pkg/jwt"
	"github.com/vpmotos/vpmotos-api/pkg/logger"
)

// SharedSchema nombre del namespace compartido.
const SharedSchema = "public"

// Binding resultado de la resolución: el schema activo de la request y la
// sucursal asociada para prefijos de documentos (nil si no hay ninguna).
type Binding struct {
	Schema string
	Branch *entity.Branch
}

// IsShared indica si el binding quedó en el namespace compartido.
func (b Binding) IsShared() bool {
	return b.Schema == SharedSchema
}

// Resolver selecciona el schema activo a partir del principal autenticado.
type Resolver struct {
	branches repository.BranchRepository
	log      *logger.Logger
}

// NewResolver construye el resolutor.
func NewResolver(branches repository.BranchRepository, log *logger.Logger) *Resolver {
	return &Resolver{branches: branches, log: log}
}

// Resolve aplica las reglas en orden:
//
//  1. Principal con visibilidad global: schema compartido, atado a la sucursal
//     principal para prefijos de documentos.
//  2. Principal con sucursal asignada: el schema de esa sucursal.
//  3. Cualquier otro caso: schema compartido.
//
// Nunca falla: si la sucursal asignada no existe o está inactiva, cae al
// schema compartido y lo deja registrado. Ninguna request avanza sin binding.
func (r *Resolver) Resolve(p *jwt.Principal) Binding {
	if p == nil {
		return Binding{Schema: SharedSchema}
	}

	if p.SeeAll {
		primary, err := r.branches.GetPrimary()
		if err != nil {
			r.log.Warn().Err(err).Str("usuario", p.UserID).
				Msg("no se pudo cargar la sucursal principal; binding compartido sin prefijo")
		}
		return Binding{Schema: SharedSchema, Branch: primary}
	}

	if p.BranchID != "" {
		branch, err := r.branches.GetByID(p.BranchID)
		switch {
		case err != nil:
			r.log.Warn().Err(err).Str("usuario", p.UserID).Str("sucursal", p.BranchID).
				Msg("error resolviendo sucursal asignada; fallback a schema compartido")
		case branch == nil:
			r.log.Warn().Str("usuario", p.UserID).Str("sucursal", p.BranchID).
				Msg("sucursal asignada inexistente; fallback a schema compartido")
		case !branch.IsActive:
			r.log.Warn().Str("usuario", p.UserID).Str("sucursal", branch.Code).
				Msg("sucursal asignada inactiva; fallback a schema compartido")
		default:
			return Binding{Schema: branch.SchemaName, Branch: branch}
		}
	}

	return Binding{Schema: SharedSchema}
}
