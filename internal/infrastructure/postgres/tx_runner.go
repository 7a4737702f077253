package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and purchasing.PurchaseTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ purchasing.PurchaseTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	levelRepo repository.StockLevelRepository,
	variantRepo repository.VariantRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryMovementRepository(tx), NewStockLevelRepository(tx), NewVariantRepository(tx))
	})
}

// RunPurchases inicia una transacción con los repos del libro de compras (entregas multi-línea).
func (r *TxRunner) RunPurchases(ctx context.Context, fn func(
	purchaseRepo repository.VendorPurchaseRepository,
	productRepo repository.ProductRepository,
	vendorRepo repository.VendorRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewVendorPurchaseRepository(tx), NewProductRepository(tx), NewVendorRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
