package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

type movementPage = pagination.Page[*entity.InventoryMovement]

// movementKey clave de paginación del libro de movimientos.
func movementKey(m *entity.InventoryMovement) pagination.Key {
	return pagination.Key{RecordedAt: m.CreatedAt, ID: m.ID}
}

func movementPager(repo repository.InventoryMovementRepository, variantID string, size int) *pagination.Pager[*entity.InventoryMovement] {
	return pagination.New(size, movementKey, func(ctx context.Context, q pagination.Query) ([]*entity.InventoryMovement, error) {
		return repo.ListByVariant(ctx, variantID, q)
	})
}

func movementsCacheKey(variantID, cursor string) string {
	return "inventory_movements:variant:" + variantID + ":cursor:" + cursor
}

// movementPages lee páginas del libro de una variante a través de la caché (si hay).
// El historial y la proyección comparten estas entradas.
type movementPages struct {
	repo  repository.InventoryMovementRepository
	size  int
	cache *cache.ReadThrough
}

func newMovementPages(repo repository.InventoryMovementRepository, size int, rt *cache.ReadThrough) movementPages {
	size = pagination.ClampPageSize(size, pagination.PageSizeConfig{Default: pagination.DefaultPageSize})
	return movementPages{repo: repo, size: size, cache: rt}
}

func (mp movementPages) pageFunc(variantID string) pagination.PageFunc[*entity.InventoryMovement] {
	pager := movementPager(mp.repo, variantID, mp.size)
	return func(ctx context.Context, cursor string) (movementPage, error) {
		return cache.Load(ctx, mp.cache, movementsCacheKey(variantID, cursor), func(ctx context.Context) (movementPage, error) {
			return pager.Page(ctx, cursor)
		})
	}
}

// ledgerStock recorre el libro completo sin caché (lecturas dentro de transacción).
func ledgerStock(ctx context.Context, repo repository.InventoryMovementRepository, variantID string, size int) (int64, error) {
	var total int64
	err := movementPager(repo, variantID, size).Walk(ctx, func(items []*entity.InventoryMovement) error {
		total += domaininv.FoldStock(items)
		return nil
	})
	return total, err
}
