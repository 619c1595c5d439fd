package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	boom := errors.New("boom")
	err := s.Run(ctx, func(r ledger.Repos) error {
		b, err := r.Balances.GetForUpdate(ctx, "x", "w")
		require.NoError(t, err)
		b.Quantity = decimal.NewFromInt(5)
		require.NoError(t, r.Balances.Upsert(ctx, b))
		require.NoError(t, r.Movements.Create(ctx, &entity.Movement{ItemID: "x", WarehouseID: "w", Kind: entity.MovementAdjustment, QtyChange: decimal.NewFromInt(5)}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	bals, err := s.Repos().Balances.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, bals)
	page, err := s.Repos().Movements.Page(ctx, repository.MovementFilter{}, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestStore_RunConfirmaYAsignaSecuencia(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Run(ctx, func(r ledger.Repos) error {
			return r.Movements.Create(ctx, &entity.Movement{ItemID: "x", WarehouseID: "w", Kind: entity.MovementAdjustment, QtyChange: decimal.NewFromInt(2)})
		}))
	}
	page, err := s.Repos().Movements.Page(ctx, repository.MovementFilter{ItemID: "x"}, nil, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].Seq)
	assert.NotEmpty(t, page[0].ID)

	rest, err := s.Repos().Movements.Page(ctx, repository.MovementFilter{ItemID: "x"},
		&repository.MovementCursor{CreatedAt: page[1].CreatedAt, Seq: page[1].Seq}, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(3), rest[0].Seq)

	sums, err := s.Repos().Movements.SumByPair(ctx)
	require.NoError(t, err)
	assert.True(t, sums[entity.BalanceKey{ItemID: "x", WarehouseID: "w"}].Equal(decimal.NewFromInt(6)))
}

func TestItemRepo_UpdateConVersion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repos().Items
	it := &entity.Item{ID: "1", Code: "X", Name: "X", Active: true, CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, it))
	assert.Equal(t, 1, it.Version)
	assert.ErrorIs(t, repo.Create(ctx, &entity.Item{ID: "2", Code: "X"}), domain.ErrDuplicate)

	it.Name = "nuevo"
	require.NoError(t, repo.Update(ctx, it, 1))
	assert.Equal(t, 2, it.Version)

	stale := *it
	stale.Name = "viejo"
	assert.ErrorIs(t, repo.Update(ctx, &stale, 1), domain.ErrConcurrentModification)

	got, err := repo.GetByCode(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "nuevo", got.Name)

	missing, err := repo.GetByID(ctx, "nada")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
