package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ── Artículos ────────────────────────────────────────────────────────────────

func TestItemUseCase_CreateCodigoUnico(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewItemUseCase(memory.NewStore().Repos().Items, zerolog.Nop())

	it, err := uc.Create(ctx, dto.CreateItemRequest{Code: " X-1 ", Name: "Tornillo", MinStock: decimal.NewFromInt(5)})
	require.NoError(t, err)
	assert.Equal(t, "X-1", it.Code)
	assert.Equal(t, "UND", it.UnitMeasure)
	assert.True(t, it.Active)
	assert.Equal(t, 1, it.Version)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "X-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "Y", Name: "Y", MinStock: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_UpdateConflictoDeVersion(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewItemUseCase(memory.NewStore().Repos().Items, zerolog.Nop())
	it, err := uc.Create(ctx, dto.CreateItemRequest{Code: "X", Name: "X"})
	require.NoError(t, err)

	name := "Nuevo nombre"
	updated, err := uc.Update(ctx, it.ID, dto.UpdateItemRequest{Version: 1, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, name, updated.Name)

	other := "Edición vieja"
	_, err = uc.Update(ctx, it.ID, dto.UpdateItemRequest{Version: 1, Name: &other})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateItemRequest{Version: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_Deactivate(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewItemUseCase(memory.NewStore().Repos().Items, zerolog.Nop())
	it, err := uc.Create(ctx, dto.CreateItemRequest{Code: "X", Name: "X"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, it.ID))
	require.NoError(t, uc.Deactivate(ctx, it.ID), "desactivar dos veces no falla")
	got, err := uc.GetByID(ctx, it.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, uc.Deactivate(ctx, "no-existe"), domain.ErrNotFound)
}

// ── Bodegas ──────────────────────────────────────────────────────────────────

func TestWarehouseUseCase(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewWarehouseUseCase(memory.NewStore().Repos().Warehouses)

	w, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "BOD-1", Name: "Principal"})
	require.NoError(t, err)
	assert.True(t, w.Active)

	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "BOD-1", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, uc.Deactivate(ctx, w.ID))
	got, err := uc.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
