// Package ledger contiene las reglas puras del kardex: máquinas de estado de líneas,
// órdenes y traslados, y el cálculo de reversos. No accede a persistencia.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LineStatus deriva el estado de una línea a partir de su avance y su objetivo.
//
//	complete si avance >= objetivo; partial si 0 < avance < objetivo; pending en otro caso.
func LineStatus(progress, target decimal.Decimal) entity.LineStatus {
	switch {
	case progress.GreaterThanOrEqual(target) && target.IsPositive():
		return entity.LineStatusComplete
	case progress.IsPositive():
		return entity.LineStatusPartial
	default:
		return entity.LineStatusPending
	}
}

// OrderStatus recalcula el estado agregado de una orden desde sus líneas.
// Una orden sin líneas queda pending. cancelled nunca se deriva aquí.
func OrderStatus(lines []*entity.OrderLine) entity.OrderStatus {
	statuses := make([]entity.LineStatus, 0, len(lines))
	for _, l := range lines {
		statuses = append(statuses, l.Status)
	}
	switch aggregate(statuses) {
	case entity.LineStatusComplete:
		return entity.OrderStatusComplete
	case entity.LineStatusPartial:
		return entity.OrderStatusPartial
	default:
		return entity.OrderStatusPending
	}
}

// TransferStatus recalcula el estado de un traslado: complete si todas las filas están
// completas, in_transit si alguna fila ya envió algo, pending en otro caso.
func TransferStatus(rows []*entity.TransferRow) entity.TransferStatus {
	if len(rows) == 0 {
		return entity.TransferStatusPending
	}
	complete := true
	sent := false
	for _, r := range rows {
		if r.Status != entity.LineStatusComplete {
			complete = false
		}
		if r.QtySent.IsPositive() {
			sent = true
		}
	}
	switch {
	case complete:
		return entity.TransferStatusComplete
	case sent:
		return entity.TransferStatusInTransit
	default:
		return entity.TransferStatusPending
	}
}

func aggregate(statuses []entity.LineStatus) entity.LineStatus {
	if len(statuses) == 0 {
		return entity.LineStatusPending
	}
	var complete, partial, pending int
	for _, s := range statuses {
		switch s {
		case entity.LineStatusComplete:
			complete++
		case entity.LineStatusPartial:
			partial++
		default:
			pending++
		}
	}
	switch {
	case complete == len(statuses):
		return entity.LineStatusComplete
	case partial > 0, complete > 0 && pending > 0:
		return entity.LineStatusPartial
	default:
		return entity.LineStatusPending
	}
}
