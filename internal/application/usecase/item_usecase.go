package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ItemUseCase casos de uso del maestro de artículos. El stock no se toca aquí: sólo vía el motor.
type ItemUseCase struct {
	repo repository.ItemRepository
	log  zerolog.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, log zerolog.Logger) *ItemUseCase {
	return &ItemUseCase{repo: repo, log: log.With().Str("component", "items").Logger()}
}

// Create crea un artículo activo. El código es único.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || in.MinStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        in.Name,
		UnitMeasure: in.UnitMeasure,
		Category:    in.Category,
		MinStock:    in.MinStock,
		Active:      true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("code", item.Code).Msg("artículo creado")
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(item), nil
}

// Update actualiza los datos descriptivos. Si otro usuario lo modificó después de leer
// in.Version devuelve ErrConcurrentModification.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.Version != in.Version {
		return nil, domain.ErrConcurrentModification
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.UnitMeasure != nil {
		item.UnitMeasure = *in.UnitMeasure
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.MinStock != nil {
		if in.MinStock.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item.MinStock = *in.MinStock
	}
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item, in.Version); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Deactivate marca el artículo como inactivo. Su historial y saldos se conservan; no admite
// nuevos movimientos.
func (uc *ItemUseCase) Deactivate(ctx context.Context, id string) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	if !item.Active {
		return nil
	}
	item.Active = false
	item.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, item, item.Version); err != nil {
		return err
	}
	uc.log.Info().Str("item_id", item.ID).Msg("artículo desactivado")
	return nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	if it == nil {
		return nil
	}
	return &dto.ItemResponse{
		ID:          it.ID,
		Code:        it.Code,
		Name:        it.Name,
		UnitMeasure: it.UnitMeasure,
		Category:    it.Category,
		MinStock:    it.MinStock,
		Active:      it.Active,
		Version:     it.Version,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}
