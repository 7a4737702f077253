package purchasing

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/pkg/cache"
	"github.com/jhoicas/pos-inventario/pkg/pagination"
)

type purchasePage = pagination.Page[*entity.VendorPurchase]

func purchaseKey(p *entity.VendorPurchase) pagination.Key {
	return pagination.Key{RecordedAt: p.PurchasedAt, ID: p.ID}
}

// purchaseScope colección del libro que se pagina: las compras de un producto, las de un
// proveedor o todas (ambos vacíos).
type purchaseScope struct {
	productID string
	vendorID  string
}

func byProduct(productID string) purchaseScope {
	return purchaseScope{productID: productID}
}

func (s purchaseScope) cacheKey(cursor string) string {
	switch {
	case s.productID != "":
		return "vendor_purchases:product:" + s.productID + ":cursor:" + cursor
	case s.vendorID != "":
		return "vendor_purchases:vendor:" + s.vendorID + ":cursor:" + cursor
	default:
		return "vendor_purchases:all:cursor:" + cursor
	}
}

// purchasePages páginas del libro de compras dentro de un purchaseScope.
type purchasePages struct {
	repo  repository.VendorPurchaseRepository
	size  int
	cache *cache.ReadThrough
}

func newPurchasePages(repo repository.VendorPurchaseRepository, size int, rt *cache.ReadThrough) purchasePages {
	size = pagination.ClampPageSize(size, pagination.PageSizeConfig{Default: pagination.DefaultPageSize})
	return purchasePages{repo: repo, size: size, cache: rt}
}

func (pp purchasePages) pager(scope purchaseScope) *pagination.Pager[*entity.VendorPurchase] {
	return pagination.New(pp.size, purchaseKey, func(ctx context.Context, q pagination.Query) ([]*entity.VendorPurchase, error) {
		switch {
		case scope.productID != "":
			return pp.repo.ListByProduct(ctx, scope.productID, q)
		case scope.vendorID != "":
			return pp.repo.ListByVendor(ctx, scope.vendorID, q)
		default:
			return pp.repo.List(ctx, q)
		}
	})
}

// cached lee a través de la caché; fresh va directo al almacén.
func (pp purchasePages) cached(scope purchaseScope) pagination.PageFunc[*entity.VendorPurchase] {
	pager := pp.pager(scope)
	return func(ctx context.Context, cursor string) (purchasePage, error) {
		return cache.Load(ctx, pp.cache, scope.cacheKey(cursor), func(ctx context.Context) (purchasePage, error) {
			return pager.Page(ctx, cursor)
		})
	}
}

func (pp purchasePages) fresh(scope purchaseScope) pagination.PageFunc[*entity.VendorPurchase] {
	return pp.pager(scope).Page
}

func stalenessSeconds(rt *cache.ReadThrough) int {
	if rt == nil {
		return 0
	}
	return int(rt.TTL().Seconds())
}
