package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ StockReader = (*MaterializedStock)(nil)

// MaterializedStock lee el stock desde stock_levels, mantenido en la misma transacción que
// cada movimiento. Mismo contrato que StockProjector; lectura O(1) por variante.
type MaterializedStock struct {
	levelRepo   repository.StockLevelRepository
	variantRepo repository.VariantRepository
}

// NewMaterializedStock construye el lector materializado.
func NewMaterializedStock(levelRepo repository.StockLevelRepository, variantRepo repository.VariantRepository) *MaterializedStock {
	return &MaterializedStock{levelRepo: levelRepo, variantRepo: variantRepo}
}

// CurrentStock devuelve variante → stock (0 si la variante aún no tiene nivel).
func (m *MaterializedStock) CurrentStock(ctx context.Context, variantIDs ...string) (map[string]int64, error) {
	ids, err := domain.ValidateIDs("variant_id", variantIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := ensureVariant(ctx, m.variantRepo, id); err != nil {
			return nil, err
		}
	}
	levels, err := m.levelRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, domain.FetchFailed("niveles de stock", err)
	}
	result := make(map[string]int64, len(ids))
	for _, id := range ids {
		if lvl, ok := levels[id]; ok {
			result[id] = lvl.Quantity
		} else {
			result[id] = 0
		}
	}
	return result, nil
}

// MaxStalenessSeconds siempre 0: el nivel se actualiza en la misma transacción que el movimiento.
func (m *MaterializedStock) MaxStalenessSeconds() int {
	return 0
}
