package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

// LowStockUseCase genera la lista de variantes de un producto en o por debajo de su stock mínimo.
type LowStockUseCase struct {
	productRepo repository.ProductRepository
	variantRepo repository.VariantRepository
	stock       StockReader
	pageSize    int
}

// NewLowStockUseCase construye el caso de uso de alertas de stock mínimo.
func NewLowStockUseCase(
	productRepo repository.ProductRepository,
	variantRepo repository.VariantRepository,
	stock StockReader,
	pageSize int,
) *LowStockUseCase {
	return &LowStockUseCase{
		productRepo: productRepo,
		variantRepo: variantRepo,
		stock:       stock,
		pageSize:    pageSize,
	}
}

// ListLowStock devuelve las variantes con stock <= min_stock, ordenadas por mayor déficit.
// Si el stock no puede calcularse, devuelve error (nunca asume cero).
func (uc *LowStockUseCase) ListLowStock(ctx context.Context, productID string) ([]dto.LowStockItemDTO, error) {
	id, err := domain.ValidateID("product_id", productID)
	if err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.FetchFailed("producto "+id, err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}

	// 1. Todas las variantes del producto
	variants, err := pagination.New(uc.pageSize, variantKey, func(ctx context.Context, q pagination.Query) ([]*entity.Variant, error) {
		return uc.variantRepo.ListByProduct(ctx, id, q)
	}).All(ctx)
	if err != nil {
		return nil, domain.FetchFailed("variantes del producto "+id, err)
	}
	if len(variants) == 0 {
		return []dto.LowStockItemDTO{}, nil
	}

	// 2. Stock actual de todas en una sola agregación
	ids := make([]string, 0, len(variants))
	for _, v := range variants {
		ids = append(ids, v.ID)
	}
	stock, err := uc.stock.CurrentStock(ctx, ids...)
	if err != nil {
		return nil, err
	}

	// 3. Filtrar por umbral
	items := make([]dto.LowStockItemDTO, 0)
	for _, v := range variants {
		current := stock[v.ID]
		if current > v.MinStock {
			continue
		}
		items = append(items, dto.LowStockItemDTO{
			VariantID:    v.ID,
			ProductID:    v.ProductID,
			BottleSizeML: v.BottleSizeML.String(),
			UnitLabel:    v.UnitLabel,
			Barcode:      v.Barcode,
			CurrentStock: current,
			MinStock:     v.MinStock,
			Deficit:      v.MinStock - current,
		})
	}

	// 4. Ordenar por déficit; desempate estable por variante
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Deficit != items[j].Deficit {
			return items[i].Deficit > items[j].Deficit
		}
		return items[i].VariantID < items[j].VariantID
	})
	for i := range items {
		items[i].Priority = i + 1
	}
	return items, nil
}

func variantKey(v *entity.Variant) pagination.Key {
	return pagination.Key{RecordedAt: v.CreatedAt, ID: v.ID}
}
