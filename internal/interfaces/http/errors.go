package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vpmotos/vpmotos-api/internal/application/dto"
	"github.com/vpmotos/vpmotos-api/internal/domain"
)

// errorResponse mapea errores de dominio a respuestas HTTP. Los casos de uso
// envuelven los sentinelas con contexto, así que la comparación es errors.Is.
func errorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNameCollision):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SCHEMA_COLLISION", Message: err.Error()})
	case errors.Is(err, domain.ErrReservedName):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "RESERVED_SCHEMA", Message: err.Error()})
	case errors.Is(err, domain.ErrPrimaryMustStayActive):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PRIMARY_ACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrProductMissing):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "PRODUCT_MISSING", Message: err.Error()})
	case errors.Is(err, domain.ErrSameBranch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SAME_BRANCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotAuthorizedForBranch):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NOT_DESTINATION_BRANCH", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
