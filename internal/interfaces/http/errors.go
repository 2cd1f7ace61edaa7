package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/seedstoroots/tienda-api/internal/application/dto"
	"github.com/seedstoroots/tienda-api/internal/domain"
	"github.com/seedstoroots/tienda-api/pkg/logger"
)

// statusFor traduce la clase del error de dominio a un status HTTP.
func statusFor(kind domain.Kind) (int, string) {
	switch kind {
	case domain.KindNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.KindValidation:
		return fiber.StatusBadRequest, "VALIDATION"
	case domain.KindConflict:
		return fiber.StatusBadRequest, "CONFLICT"
	case domain.KindUnauthorized:
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe el cuerpo de error. Lo que no es error de dominio se registra
// y el cliente solo recibe INTERNAL.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	kind := domain.KindOf(err)
	status, code := statusFor(kind)
	if kind == "" {
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badRequest(c *fiber.Ctx, body *dto.ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

// paramID lee un parámetro de ruta entero positivo.
func paramID(c *fiber.Ctx, name string) (int64, *dto.ErrorResponse) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, &dto.ErrorResponse{Code: "INVALID_ID", Message: name + " debe ser un entero positivo"}
	}
	return int64(id), nil
}
