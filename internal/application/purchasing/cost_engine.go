package purchasing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	domaininv "github.com/jhoicas/pos-inventario/internal/domain/inventory"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/logger"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// CostEngine costo promedio ponderado por ml sobre TODO el historial de compras de un producto.
//
// El costo persistido en cada variante es retroactivo: una compra registrada hoy cambia el
// valor que guarde el próximo refresco de variantes antiguas. Los refrescos leen siempre
// del almacén (nunca de la caché) para no persistir una cifra vieja.
type CostEngine struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	pages       purchasePages
	log         *logger.Logger
}

// NewCostEngine construye el motor de costos. pages puede ser nil (sin caché).
func NewCostEngine(
	purchaseRepo repository.VendorPurchaseRepository,
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	pageSize int,
	pages *cache.ReadThrough,
	log *logger.Logger,
) *CostEngine {
	return &CostEngine{
		productRepo: productRepo,
		variantRepo: variantRepo,
		pages:       newPurchasePages(purchaseRepo, pageSize, pages),
		log:         log.Component("cost_engine"),
	}
}

// UnitCost costo por ml para mostrar (lee páginas cacheadas). nil = costo desconocido.
func (e *CostEngine) UnitCost(ctx context.Context, productID string) (*dto.UnitCostResponse, error) {
	id, err := domain.ValidateID("product_id", productID)
	if err != nil {
		return nil, err
	}
	if err := e.ensureProduct(ctx, id); err != nil {
		return nil, err
	}
	cost, err := e.fold(ctx, id, e.pages.cached(byProduct(id)))
	if err != nil {
		return nil, err
	}
	return &dto.UnitCostResponse{
		ProductID:           id,
		CostPerML:           cost,
		CostStatus:          dto.CostStatus(cost),
		MaxStalenessSeconds: stalenessSeconds(e.pages.cache),
	}, nil
}

// CostForNewVariant costo fresco para una variante recién creada.
func (e *CostEngine) CostForNewVariant(ctx context.Context, productID string) (*decimal.Decimal, error) {
	return e.fold(ctx, productID, e.pages.fresh(byProduct(productID)))
}

// PersistVariantCost escribe cost_per_ml de la variante. Idempotente; nil escribe NULL.
func (e *CostEngine) PersistVariantCost(ctx context.Context, variantID string, cost *decimal.Decimal) error {
	if err := e.variantRepo.UpdateCost(ctx, variantID, cost); err != nil {
		return fmt.Errorf("persistir costo de variante %s: %w", variantID, err)
	}
	return nil
}

// RefreshVariantCost recalcula el costo del producto de la variante y lo persiste en ella.
func (e *CostEngine) RefreshVariantCost(ctx context.Context, variantID string) (*dto.CostRefreshResponse, error) {
	id, err := domain.ValidateID("variant_id", variantID)
	if err != nil {
		return nil, err
	}
	v, err := e.variantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.FetchFailed("variante "+id, err)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: variante %s", domain.ErrNotFound, id)
	}
	cost, err := e.fold(ctx, v.ProductID, e.pages.fresh(byProduct(v.ProductID)))
	if err != nil {
		return nil, err
	}
	if err := e.PersistVariantCost(ctx, id, cost); err != nil {
		return nil, err
	}
	e.log.Info().Str("variant_id", id).Str("cost_status", dto.CostStatus(cost)).Msg("costo de variante recalculado")
	return &dto.CostRefreshResponse{
		ProductID:       v.ProductID,
		CostPerML:       cost,
		CostStatus:      dto.CostStatus(cost),
		VariantsUpdated: 1,
	}, nil
}

// RefreshProductCosts recalcula una vez el costo del producto y lo persiste en todas sus variantes.
func (e *CostEngine) RefreshProductCosts(ctx context.Context, productID string) (*dto.CostRefreshResponse, error) {
	id, err := domain.ValidateID("product_id", productID)
	if err != nil {
		return nil, err
	}
	if err := e.ensureProduct(ctx, id); err != nil {
		return nil, err
	}
	cost, err := e.fold(ctx, id, e.pages.fresh(byProduct(id)))
	if err != nil {
		return nil, err
	}

	updated := 0
	variants := pagination.New(e.pages.size, variantKey, func(ctx context.Context, q pagination.Query) ([]*entity.Variant, error) {
		return e.variantRepo.ListByProduct(ctx, id, q)
	})
	err = variants.Walk(ctx, func(items []*entity.Variant) error {
		for _, v := range items {
			if err := e.PersistVariantCost(ctx, v.ID, cost); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("product_id", id).Int("variants", updated).Str("cost_status", dto.CostStatus(cost)).Msg("costos del producto recalculados")
	return &dto.CostRefreshResponse{
		ProductID:       id,
		CostPerML:       cost,
		CostStatus:      dto.CostStatus(cost),
		VariantsUpdated: updated,
	}, nil
}

func (e *CostEngine) fold(ctx context.Context, productID string, pageFn pagination.PageFunc[*entity.VendorPurchase]) (*decimal.Decimal, error) {
	var acc domaininv.CostAccumulator
	err := pagination.Walk(ctx, pageFn, func(items []*entity.VendorPurchase) error {
		acc.AddPage(items)
		return nil
	})
	if err != nil {
		return nil, domain.FetchFailed("compras del producto "+productID, err)
	}
	return acc.CostPerML(), nil
}

func (e *CostEngine) ensureProduct(ctx context.Context, id string) error {
	p, err := e.productRepo.GetByID(ctx, id)
	if err != nil {
		return domain.FetchFailed("producto "+id, err)
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return nil
}

func variantKey(v *entity.Variant) pagination.Key {
	return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
}
