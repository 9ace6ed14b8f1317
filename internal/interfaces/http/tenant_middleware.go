package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/application/tenant"
)

// LocalBinding key del binding de tenant en c.Locals.
const LocalBinding = "tenant_binding"

// TenantMiddleware resuelve el schema activo de la request a partir del
// principal autenticado. Corre después del middleware de auth y antes de
// cualquier handler que toque datos por sucursal; la resolución es estable
// durante toda la request.
func TenantMiddleware(resolver *tenant.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		binding := resolver.Resolve(GetPrincipal(c))
		c.Locals(LocalBinding, binding)
		return c.Next()
	}
}

// GetBinding devuelve el binding de tenant de la request. Sin middleware
// devuelve el binding compartido.
func GetBinding(c *fiber.Ctx) tenant.Binding {
	v := c.Locals(LocalBinding)
	if v == nil {
		return tenant.Binding{Schema: tenant.SharedSchema}
	}
	b, _ := v.(tenant.Binding)
	return b
}

// branchSchema devuelve el schema de la sucursal sobre la que opera la
// request: la asignada al principal o, para visibilidad global, la principal.
// El segundo valor es false si el binding no tiene sucursal.
func branchSchema(c *fiber.Ctx) (string, bool) {
	binding := GetBinding(c)
	if binding.Branch == nil {
		return "", false
	}
	return binding.Branch.SchemaName, true
}

func noBranchResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "NO_BRANCH",
		Message: "la operación requiere una sucursal activa",
	})
}
