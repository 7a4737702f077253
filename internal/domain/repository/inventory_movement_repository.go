package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// InventoryMovementRepository puerto del libro de movimientos. Solo inserción y lectura:
// el núcleo nunca actualiza ni borra movimientos.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error)
	// GetReversalOf devuelve el movimiento que revierte a movementID, o (nil, nil).
	GetReversalOf(ctx context.Context, movementID string) (*entity.InventoryMovement, error)
	ListByVariant(ctx context.Context, variantID string, q PageQuery) ([]*entity.InventoryMovement, error)
}
