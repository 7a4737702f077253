// Package storage elige el motor de filas (PostgreSQL o SQLite) según DB_DRIVER y expone
// sus repositorios detrás de los puertos de dominio.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/application/inventory"
	"github.com/jhoicas/pos-inventario/internal/application/purchasing"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/sqlite"
	"github.com/jhoicas/pos-inventario/pkg/config"
)

// TxRunner lo cumplen postgres.TxRunner y sqlite.Store.
type TxRunner interface {
	inventory.TxRunner
	purchasing.PurchaseTxRunner
}

// Stores repositorios del motor abierto.
type Stores struct {
	Driver    string
	Products  repository.ProductRepository
	Vendors   repository.VendorRepository
	Variants  repository.VariantRepository
	Movements repository.InventoryMovementRepository
	Purchases repository.VendorPurchaseRepository
	Levels    repository.StockLevelRepository
	Tx        TxRunner

	ping  func(context.Context) error
	close func()
}

// Open conecta al motor configurado y aplica el esquema.
func Open(ctx context.Context, cfg config.DBConfig) (*Stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	case config.DriverPostgres, "":
		return openPostgres(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DBConfig) (*Stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &Stores{
		Driver:    config.DriverPostgres,
		Products:  postgres.NewProductRepository(pool),
		Vendors:   postgres.NewVendorRepository(pool),
		Variants:  postgres.NewVariantRepository(pool),
		Movements: postgres.NewInventoryMovementRepository(pool),
		Purchases: postgres.NewVendorPurchaseRepository(pool),
		Levels:    postgres.NewStockLevelRepository(pool),
		Tx:        postgres.NewTxRunner(pool),
		ping:      pool.Ping,
		close:     pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DBConfig) (*Stores, error) {
	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Driver:    config.DriverSQLite,
		Products:  store.Products(),
		Vendors:   store.Vendors(),
		Variants:  store.Variants(),
		Movements: store.Movements(),
		Purchases: store.Purchases(),
		Levels:    store.StockLevels(),
		Tx:        store,
		ping:      store.Ping,
		close:     func() { _ = store.Close() },
	}, nil
}

// Ping verifica que el almacén responda.
func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close libera conexiones.
func (s *Stores) Close() { s.close() }
