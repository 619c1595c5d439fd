package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AdjustmentRepository persiste ajustes manuales. Los ajustes no se editan ni se eliminan.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *entity.Adjustment) error
	GetByNo(ctx context.Context, adjustmentNo string) (*entity.Adjustment, error)
}
