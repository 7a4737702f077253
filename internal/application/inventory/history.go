package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// MovementHistoryUseCase lista el libro de una variante por páginas (más reciente primero).
type MovementHistoryUseCase struct {
	variantRepo repository.VariantRepository
	pages       movementPages
}

// NewMovementHistoryUseCase construye el caso de uso.
func NewMovementHistoryUseCase(
	movRepo repository.InventoryMovementRepository,
	variantRepo repository.VariantRepository,
	pageSize int,
	pages *cache.ReadThrough,
) *MovementHistoryUseCase {
	return &MovementHistoryUseCase{
		variantRepo: variantRepo,
		pages:       newMovementPages(movRepo, pageSize, pages),
	}
}

// List devuelve la página que sigue a cursor (vacío = primera).
func (uc *MovementHistoryUseCase) List(ctx context.Context, variantID, cursor string) (*dto.MovementListResponse, error) {
	id, err := domain.ValidateID("variant_id", variantID)
	if err != nil {
		return nil, err
	}
	if err := ensureVariant(ctx, uc.variantRepo, id); err != nil {
		return nil, err
	}
	if err := domain.ValidateCursor(cursor); err != nil {
		return nil, err
	}
	page, err := uc.pages.pageFunc(id)(ctx, cursor)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil, domain.FetchFailed("movimientos", err)
	}
	items := make([]dto.MovementResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.NewPageInfo(page.NextCursor, uc.pages.size, stalenessSeconds(uc.pages.cache)),
	}, nil
}

func stalenessSeconds(rt *cache.ReadThrough) int {
	if rt == nil {
		return 0
	}
	return int(rt.TTL().Seconds())
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		VariantID:  m.VariantID,
		Direction:  m.Direction,
		Quantity:   m.Quantity,
		Reason:     m.Reason,
		ReversesID: m.ReversesID,
		CreatedAt:  m.CreatedAt,
	}
}
