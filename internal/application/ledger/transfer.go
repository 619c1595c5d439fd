package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// NewTransfer datos para crear un traslado entre bodegas.
type NewTransfer struct {
	TransferNo        string
	SourceWarehouseID string
	DestWarehouseID   string
	Note              string
	Rows              []NewTransferRow
}

// NewTransferRow artículo y cantidad solicitada.
type NewTransferRow struct {
	ItemID       string
	QtyRequested decimal.Decimal
}

// RowProgress cantidad a enviar de una fila del traslado. Cantidad cero se ignora.
type RowProgress struct {
	RowID string
	Qty   decimal.Decimal
	Note  string
}

// CreateTransfer crea un traslado pendiente. No mueve stock.
func (e *Engine) CreateTransfer(ctx context.Context, actor string, in NewTransfer) (*entity.Transfer, error) {
	if in.SourceWarehouseID == "" || in.SourceWarehouseID == in.DestWarehouseID {
		return nil, fmt.Errorf("%w: bodegas de origen y destino deben ser distintas", domain.ErrInvalidInput)
	}
	if len(in.Rows) == 0 {
		return nil, fmt.Errorf("%w: el traslado requiere al menos una fila", domain.ErrInvalidInput)
	}
	now := e.now()
	t := &entity.Transfer{
		TransferNo:        in.TransferNo,
		SourceWarehouseID: in.SourceWarehouseID,
		DestWarehouseID:   in.DestWarehouseID,
		Status:            entity.TransferStatusPending,
		Note:              in.Note,
		CreatedBy:         actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if t.TransferNo == "" {
		t.TransferNo = documentNo("TRF", now)
	}
	err := e.tx.Run(ctx, func(r Repos) error {
		if _, err := activeWarehouse(ctx, r, in.SourceWarehouseID); err != nil {
			return err
		}
		if _, err := activeWarehouse(ctx, r, in.DestWarehouseID); err != nil {
			return err
		}
		rows, err := buildTransferRows(ctx, r, t.TransferNo, in.Rows)
		if err != nil {
			return err
		}
		t.Rows = rows
		return r.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "create_transfer").Str("ref", t.TransferNo).Str("actor", actor).Msg("traslado creado")
	return t, nil
}

// GetTransfer devuelve el traslado con sus filas.
func (e *Engine) GetTransfer(ctx context.Context, transferNo string) (*entity.Transfer, error) {
	t, err := e.read.Transfers.GetByNo(ctx, transferNo)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// ProcessTransferRows envía cantidades de las filas: por cada fila descuenta en origen
// (transfer_out) y suma en destino (transfer_in), todo en un mismo lote.
func (e *Engine) ProcessTransferRows(ctx context.Context, actor, transferNo string, req []RowProgress) (entity.TransferStatus, error) {
	transfer, err := e.GetTransfer(ctx, transferNo)
	if err != nil {
		return "", err
	}
	itemIDs := make([]string, 0, len(req))
	for _, rp := range req {
		if rp.Qty.IsNegative() || !fitsScale(rp.Qty) {
			return "", domain.LineErr(rp.RowID, domain.ErrInvalidInput)
		}
		if rp.Qty.IsZero() {
			continue
		}
		row := transfer.Row(rp.RowID)
		if row == nil {
			return "", domain.LineErr(rp.RowID, domain.ErrNotFound)
		}
		itemIDs = append(itemIDs, row.ItemID)
	}
	if len(itemIDs) == 0 {
		return "", fmt.Errorf("%w: no hay cantidades a trasladar", domain.ErrInvalidInput)
	}

	keys := pairKeys(itemIDs, transfer.SourceWarehouseID, transfer.DestWarehouseID)
	var status entity.TransferStatus
	_, err = e.run(ctx, "process_transfer", transferNo, actor, keys, func(u *unitOfWork) error {
		t, err := u.Transfers.GetForUpdate(ctx, transferNo)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if _, err := activeWarehouse(ctx, u.Repos, t.SourceWarehouseID); err != nil {
			return err
		}
		if _, err := activeWarehouse(ctx, u.Repos, t.DestWarehouseID); err != nil {
			return err
		}
		for _, rp := range req {
			if rp.Qty.IsZero() {
				continue
			}
			row := t.Row(rp.RowID)
			if row == nil {
				return domain.LineErr(rp.RowID, domain.ErrNotFound)
			}
			if _, err := activeItem(ctx, u.Repos, row.ItemID); err != nil {
				return domain.LineErr(row.ID, err)
			}
			if row.QtySent.Add(rp.Qty).GreaterThan(row.QtyRequested) {
				return domain.LineErr(row.ID, domain.ErrExceedsRequestedQuantity)
			}
			if _, err := u.apply(ctx, posting{
				itemID:       row.ItemID,
				warehouseID:  t.SourceWarehouseID,
				kind:         entity.MovementTransferOut,
				refType:      entity.ReferenceTransfer,
				refID:        t.TransferNo,
				change:       rp.Qty.Neg(),
				note:         rp.Note,
				requireStock: true,
			}); err != nil {
				return domain.LineErr(row.ID, err)
			}
			if _, err := u.apply(ctx, posting{
				itemID:      row.ItemID,
				warehouseID: t.DestWarehouseID,
				kind:        entity.MovementTransferIn,
				refType:     entity.ReferenceTransfer,
				refID:       t.TransferNo,
				change:      rp.Qty,
				note:        rp.Note,
			}); err != nil {
				return domain.LineErr(row.ID, err)
			}
			row.QtySent = row.QtySent.Add(rp.Qty)
			row.QtyReceived = row.QtySent
			row.Status = ledger.LineStatus(row.QtySent, row.QtyRequested)
			if err := u.Transfers.UpdateRow(ctx, row); err != nil {
				return err
			}
		}
		t.Status = ledger.TransferStatus(t.Rows)
		t.UpdatedAt = u.now
		if err := u.Transfers.UpdateHeader(ctx, t); err != nil {
			return err
		}
		status = t.Status
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// ReverseAndReplaceTransferRows se usa al editar un traslado: reversa lo enviado y reemplaza
// las filas por las nuevas en cero.
func (e *Engine) ReverseAndReplaceTransferRows(ctx context.Context, actor, transferNo string, rows []NewTransferRow) (*entity.Transfer, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el traslado requiere al menos una fila", domain.ErrInvalidInput)
	}
	transfer, err := e.GetTransfer(ctx, transferNo)
	if err != nil {
		return nil, err
	}
	var result *entity.Transfer
	_, err = e.run(ctx, "edit_transfer", transferNo, actor, transferReversalKeys(transfer), func(u *unitOfWork) error {
		t, err := u.Transfers.GetForUpdate(ctx, transferNo)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := u.reverseTransfer(ctx, t, "edición"); err != nil {
			return err
		}
		newRows, err := buildTransferRows(ctx, u.Repos, t.TransferNo, rows)
		if err != nil {
			return err
		}
		if err := u.Transfers.ReplaceRows(ctx, t.TransferNo, newRows); err != nil {
			return err
		}
		t.Rows = newRows
		t.Status = ledger.TransferStatus(newRows)
		t.UpdatedAt = u.now
		if err := u.Transfers.UpdateHeader(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReverseAndRemoveTransfer reversa lo enviado y elimina el traslado. Los movimientos se conservan.
func (e *Engine) ReverseAndRemoveTransfer(ctx context.Context, actor, transferNo string) error {
	transfer, err := e.GetTransfer(ctx, transferNo)
	if err != nil {
		return err
	}
	_, err = e.run(ctx, "delete_transfer", transferNo, actor, transferReversalKeys(transfer), func(u *unitOfWork) error {
		t, err := u.Transfers.GetForUpdate(ctx, transferNo)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := u.reverseTransfer(ctx, t, "eliminación"); err != nil {
			return err
		}
		return u.Transfers.Delete(ctx, t.TransferNo)
	})
	return err
}

func (u *unitOfWork) reverseTransfer(ctx context.Context, t *entity.Transfer, reason string) error {
	for _, p := range ledger.TransferReversals(t) {
		_, err := u.apply(ctx, posting{
			itemID:      p.ItemID,
			warehouseID: p.WarehouseID,
			kind:        p.Kind,
			refType:     entity.ReferenceTransfer,
			refID:       t.TransferNo,
			change:      p.Change,
			note:        fmt.Sprintf("reverso por %s del traslado %s", reason, t.TransferNo),
		})
		if err != nil {
			return domain.LineErr(p.LineRef, err)
		}
	}
	return nil
}

func transferReversalKeys(t *entity.Transfer) []string {
	var itemIDs []string
	for _, r := range t.Rows {
		if r.QtySent.IsPositive() {
			itemIDs = append(itemIDs, r.ItemID)
		}
	}
	return pairKeys(itemIDs, t.SourceWarehouseID, t.DestWarehouseID)
}

func buildTransferRows(ctx context.Context, r Repos, transferNo string, in []NewTransferRow) ([]*entity.TransferRow, error) {
	rows := make([]*entity.TransferRow, 0, len(in))
	for i, nr := range in {
		ref := fmt.Sprintf("#%d", i+1)
		if !nr.QtyRequested.IsPositive() || !fitsScale(nr.QtyRequested) {
			return nil, domain.LineErr(ref, domain.ErrInvalidInput)
		}
		if _, err := activeItem(ctx, r, nr.ItemID); err != nil {
			return nil, domain.LineErr(ref, err)
		}
		rows = append(rows, &entity.TransferRow{
			ID:           uuid.New().String(),
			TransferNo:   transferNo,
			ItemID:       nr.ItemID,
			Position:     i + 1,
			QtyRequested: nr.QtyRequested,
			QtySent:      decimal.Zero,
			QtyReceived:  decimal.Zero,
			Status:       entity.LineStatusPending,
		})
	}
	return rows, nil
}
