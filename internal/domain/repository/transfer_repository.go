package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransferRepository persiste traslados (cabecera + filas) por TransferNo.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByNo(ctx context.Context, transferNo string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, transferNo string) (*entity.Transfer, error)
	UpdateHeader(ctx context.Context, transfer *entity.Transfer) error
	UpdateRow(ctx context.Context, row *entity.TransferRow) error
	ReplaceRows(ctx context.Context, transferNo string, rows []*entity.TransferRow) error
	Delete(ctx context.Context, transferNo string) error
}
