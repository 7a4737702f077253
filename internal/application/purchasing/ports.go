package purchasing

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// PurchaseTxRunner ejecuta fn en una transacción con repositorios atados a ella.
// Una entrega con varias líneas se registra completa o no se registra.
type PurchaseTxRunner interface {
	RunPurchases(ctx context.Context, fn func(
		purchaseRepo repository.VendorPurchaseRepository,
		productRepo repository.ProductRepository,
		vendorRepo repository.VendorRepository,
	) error) error
}
