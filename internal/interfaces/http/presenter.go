package http

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:             o.ID,
		OrderNo:        o.OrderNo,
		Kind:           string(o.Kind),
		Status:         string(o.Status),
		CounterpartyID: o.CounterpartyID,
		WarehouseID:    o.WarehouseID,
		Total:          o.Total,
		CreatedBy:      o.CreatedBy,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Lines:          make([]dto.OrderLineResponse, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, dto.OrderLineResponse{
			ID:          l.ID,
			ItemID:      l.ItemID,
			Position:    l.Position,
			QtyOrdered:  l.QtyOrdered,
			QtyProgress: l.QtyProgress,
			UnitPrice:   l.UnitPrice,
			Status:      string(l.Status),
		})
	}
	return out
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	out := dto.TransferResponse{
		TransferNo:        t.TransferNo,
		SourceWarehouseID: t.SourceWarehouseID,
		DestWarehouseID:   t.DestWarehouseID,
		Status:            string(t.Status),
		Note:              t.Note,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
		Rows:              make([]dto.TransferRowResponse, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		out.Rows = append(out.Rows, dto.TransferRowResponse{
			ID:           r.ID,
			ItemID:       r.ItemID,
			Position:     r.Position,
			QtyRequested: r.QtyRequested,
			QtySent:      r.QtySent,
			QtyReceived:  r.QtyReceived,
			Status:       string(r.Status),
		})
	}
	return out
}

func toAdjustmentResponse(a *entity.Adjustment) dto.AdjustmentResponse {
	out := dto.AdjustmentResponse{
		AdjustmentNo: a.AdjustmentNo,
		WarehouseID:  a.WarehouseID,
		Direction:    string(a.Direction),
		Reason:       a.Reason,
		BatchID:      a.BatchID,
		CreatedBy:    a.CreatedBy,
		ProcessedAt:  a.ProcessedAt,
	}
	for _, r := range a.Rows {
		out.Rows = append(out.Rows, dto.AdjustmentRowResponse{ItemID: r.ItemID, Position: r.Position, Quantity: r.Quantity})
	}
	return out
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		Seq:           m.Seq,
		ItemID:        m.ItemID,
		WarehouseID:   m.WarehouseID,
		Kind:          string(m.Kind),
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		QtyBefore:     m.QtyBefore,
		QtyChange:     m.QtyChange,
		QtyAfter:      m.QtyAfter,
		Note:          m.Note,
		BatchID:       m.BatchID,
		Actor:         m.Actor,
		CreatedAt:     m.CreatedAt,
	}
}

func toNewLines(in []dto.OrderLineRequest) []ledger.NewLine {
	out := make([]ledger.NewLine, 0, len(in))
	for _, l := range in {
		out = append(out, ledger.NewLine{ItemID: l.ItemID, QtyOrdered: l.QtyOrdered, UnitPrice: l.UnitPrice})
	}
	return out
}

func toNewRows(in []dto.TransferRowRequest) []ledger.NewTransferRow {
	out := make([]ledger.NewTransferRow, 0, len(in))
	for _, r := range in {
		out = append(out, ledger.NewTransferRow{ItemID: r.ItemID, QtyRequested: r.QtyRequested})
	}
	return out
}
