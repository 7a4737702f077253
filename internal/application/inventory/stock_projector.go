package inventory

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// maxConcurrentFolds variantes recorridas en paralelo por llamada.
const maxConcurrentFolds = 4

var _ StockReader = (*StockProjector)(nil)

// StockProjector calcula el stock actual plegando TODO el historial de movimientos de cada
// variante, página por página. Es de solo lectura.
type StockProjector struct {
	variantRepo repository.VariantRepository
	pages       movementPages
	log         *logger.Logger
}

// NewStockProjector construye la proyección. pages puede ser nil (sin caché).
func NewStockProjector(
	movRepo repository.InventoryMovementRepository,
	variantRepo repository.VariantRepository,
	pageSize int,
	pages *cache.ReadThrough,
	log *logger.Logger,
) *StockProjector {
	return &StockProjector{
		variantRepo: variantRepo,
		pages:       newMovementPages(movRepo, pageSize, pages),
		log:         log.Component("stock_projector"),
	}
}

// CurrentStock devuelve variante → stock (0 si no hay movimientos).
// Si falla la lectura de cualquier página de cualquier variante, falla toda la agregación:
// nunca se devuelve una suma parcial.
func (p *StockProjector) CurrentStock(ctx context.Context, variantIDs ...string) (map[string]int64, error) {
	ids, err := domain.ValidateIDs("variant_id", variantIDs)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := make(map[string]int64, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFolds)
	for _, id := range ids {
		g.Go(func() error {
			if err := ensureVariant(gctx, p.variantRepo, id); err != nil {
				return err
			}
			total, err := p.fold(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			result[id] = total
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.log.Warn().Err(err).Strs("variant_ids", ids).Msg("proyección de stock abortada")
		return nil, err
	}
	return result, nil
}

// MaxStalenessSeconds TTL de las páginas cacheadas que se pliegan (0 sin caché).
func (p *StockProjector) MaxStalenessSeconds() int {
	return stalenessSeconds(p.pages.cache)
}

func (p *StockProjector) fold(ctx context.Context, variantID string) (int64, error) {
	var total int64
	err := pagination.Walk(ctx, p.pages.pageFunc(variantID), func(items []*entity.InventoryMovement) error {
		total += domaininv.FoldStock(items)
		return nil
	})
	if err != nil {
		return 0, domain.FetchFailed("movimientos de la variante "+variantID, err)
	}
	return total, nil
}

func ensureVariant(ctx context.Context, repo repository.VariantRepository, id string) error {
	v, err := repo.GetByID(ctx, id)
	if err != nil {
		return domain.FetchFailed("variante "+id, err)
	}
	if v == nil {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
	}
	return nil
}
