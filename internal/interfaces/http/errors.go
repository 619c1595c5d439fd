package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: el primero que coincide gana.
var errorMappings = []errorMapping{
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrExceedsOrderedQuantity, fiber.StatusUnprocessableEntity, "EXCEEDS_ORDERED"},
	{domain.ErrExceedsRequestedQuantity, fiber.StatusUnprocessableEntity, "EXCEEDS_REQUESTED"},
	{domain.ErrConcurrentModification, fiber.StatusConflict, "CONCURRENT_MODIFICATION"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrLockNotObtained, fiber.StatusServiceUnavailable, "LOCK_TIMEOUT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInvariantViolation, fiber.StatusInternalServerError, "INVARIANT_VIOLATION"},
}

// writeError traduce un error de dominio a su respuesta HTTP. Si el error viene de una
// línea concreta del lote, Ref la identifica.
func writeError(c *fiber.Ctx, err error) error {
	resp := dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	status := fiber.StatusInternalServerError
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			status, resp.Code = m.status, m.code
			break
		}
	}
	var le *domain.LineError
	if errors.As(err, &le) {
		resp.Ref = le.Ref
	}
	if status == fiber.StatusInternalServerError && resp.Code == "INTERNAL" {
		resp.Message = "error interno"
	}
	return c.Status(status).JSON(resp)
}

// ErrorHandler manejador de errores de Fiber para lo que escape de los handlers
// (rutas inexistentes, cuerpos demasiado grandes, pánicos recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return writeError(c, err)
}
