package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errBadRequest indica que parseBody ya escribió la respuesta 400.
var errBadRequest = errors.New("cuerpo rechazado")

// parseBody decodifica el JSON y valida las etiquetas `validate` del DTO.
// Si devuelve error, la respuesta ya fue escrita y el handler sólo debe retornar nil.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		return errBadRequest
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
			return errBadRequest
		}
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  validationFields(verrs),
		})
		return errBadRequest
	}
	return nil
}

// validationFields campo (ruta del struct) -> regla que falló.
func validationFields(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Namespace()] = fe.Tag()
	}
	return fields
}
