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

// AdjustmentLine artículo y cantidad (positiva) del ajuste.
type AdjustmentLine struct {
	ItemID string
	Qty    decimal.Decimal
}

// ApplyAdjustment aplica un ajuste manual completo y devuelve su número.
// Las restas no validan disponibilidad: el ajuste corrige el registro; un saldo negativo
// resultante queda registrado como anomalía en el log.
func (e *Engine) ApplyAdjustment(ctx context.Context, actor, warehouseID string, dir entity.AdjustmentDirection, lines []AdjustmentLine, reason string) (string, error) {
	if dir != entity.AdjustmentAdd && dir != entity.AdjustmentSubtract {
		return "", fmt.Errorf("%w: dirección %q", domain.ErrInvalidInput, dir)
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("%w: el ajuste requiere al menos una línea", domain.ErrInvalidInput)
	}
	itemIDs := make([]string, 0, len(lines))
	for i, l := range lines {
		if !l.Qty.IsPositive() || !fitsScale(l.Qty) {
			return "", domain.LineErr(fmt.Sprintf("#%d", i+1), domain.ErrInvalidInput)
		}
		itemIDs = append(itemIDs, l.ItemID)
	}

	adjNo := documentNo("ADJ", e.now())
	_, err := e.run(ctx, "apply_adjustment", adjNo, actor, pairKeys(itemIDs, warehouseID), func(u *unitOfWork) error {
		if _, err := activeWarehouse(ctx, u.Repos, warehouseID); err != nil {
			return err
		}
		adj := &entity.Adjustment{
			AdjustmentNo: adjNo,
			WarehouseID:  warehouseID,
			Direction:    dir,
			Reason:       reason,
			BatchID:      u.batchID,
			CreatedBy:    u.actor,
			ProcessedAt:  u.now,
		}
		for i, l := range lines {
			ref := fmt.Sprintf("#%d", i+1)
			if _, err := activeItem(ctx, u.Repos, l.ItemID); err != nil {
				return domain.LineErr(ref, err)
			}
			if _, err := u.apply(ctx, posting{
				itemID:      l.ItemID,
				warehouseID: warehouseID,
				kind:        entity.MovementAdjustment,
				refType:     entity.ReferenceAdjustment,
				refID:       adjNo,
				change:      ledger.AdjustmentChange(dir, l.Qty),
				note:        reason,
			}); err != nil {
				return domain.LineErr(ref, err)
			}
			adj.Rows = append(adj.Rows, &entity.AdjustmentRow{
				ID:           uuid.New().String(),
				AdjustmentNo: adjNo,
				ItemID:       l.ItemID,
				Position:     i + 1,
				Quantity:     l.Qty,
			})
		}
		return u.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return "", err
	}
	return adjNo, nil
}

// GetAdjustment devuelve el ajuste con sus filas.
func (e *Engine) GetAdjustment(ctx context.Context, adjustmentNo string) (*entity.Adjustment, error) {
	adj, err := e.read.Adjustments.GetByNo(ctx, adjustmentNo)
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	return adj, nil
}
