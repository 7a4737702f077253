package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// VariantRepository define el puerto de persistencia para variantes.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id string) (*entity.Variant, error)
	// GetForUpdate bloquea la fila de la variante hasta el fin de la transacción
	// (serializa salidas concurrentes de la misma variante).
	GetForUpdate(ctx context.Context, id string) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID string, q PageQuery) ([]*entity.Variant, error)
	List(ctx context.Context, q PageQuery) ([]*entity.Variant, error)
	// UpdateCost escribe cost_per_ml (nil = NULL). Es idempotente.
	UpdateCost(ctx context.Context, variantID string, cost *decimal.Decimal) error
}
