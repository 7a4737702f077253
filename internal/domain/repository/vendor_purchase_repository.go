package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// VendorPurchaseRepository puerto del libro de compras (append-only).
type VendorPurchaseRepository interface {
	// CreateBatch inserta todas las líneas; la atomicidad la da la transacción del llamador.
	CreateBatch(ctx context.Context, purchases []*entity.VendorPurchase) error
	ListByProduct(ctx context.Context, productID string, q PageQuery) ([]*entity.VendorPurchase, error)
	ListByVendor(ctx context.Context, vendorID string, q PageQuery) ([]*entity.VendorPurchase, error)
	List(ctx context.Context, q PageQuery) ([]*entity.VendorPurchase, error)
}
