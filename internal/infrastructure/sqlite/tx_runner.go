package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var (
	_ inventory.TxRunner          = (*Store)(nil)
	_ purchasing.PurchaseTxRunner = (*Store)(nil)
)

// Run ejecuta fn en una transacción con los repos del libro de movimientos.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	levelRepo repository.StockLevelRepository,
	variantRepo repository.VariantRepository,
) error) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return fn(&InventoryMovementRepo{q: tx}, &StockLevelRepo{q: tx}, &VariantRepo{q: tx})
	})
}

// RunPurchases ejecuta fn en una transacción con los repos del libro de compras.
func (s *Store) RunPurchases(ctx context.Context, fn func(
	purchaseRepo repository.VendorPurchaseRepository,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
) error) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return fn(&VendorPurchaseRepo{q: tx}, &ProductRepo{q: tx}, &VendorRepo{q: tx})
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
