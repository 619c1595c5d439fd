package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrExceedsOrderedQuantity   = errors.New("la cantidad supera lo pedido en la línea")
	ErrExceedsRequestedQuantity = errors.New("la cantidad supera lo solicitado en el traslado")
	ErrConcurrentModification   = errors.New("el registro fue modificado por otra operación")
	ErrLockNotObtained          = errors.New("no se pudo obtener el bloqueo de stock")

	// ErrInvariantViolation indica descuadre entre saldos y kardex. Nunca es error de usuario.
	ErrInvariantViolation = errors.New("violación de invariante del kardex")
)

// LineError identifica la línea (o fila de traslado/ajuste) que hizo fallar un lote completo.
type LineError struct {
	Ref string
	Err error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("línea %s: %v", e.Ref, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// LineErr envuelve err con la referencia de la línea. Si err ya es un LineError lo devuelve tal cual.
func LineErr(ref string, err error) error {
	var le *LineError
	if errors.As(err, &le) {
		return err
	}
	return &LineError{Ref: ref, Err: err}
}
