package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de movimientos y su proyección materializada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		levelRepo repository.StockLevelRepository,
		variantRepo repository.VariantRepository,
	) error) error
}

// StockReader contrato de lectura del stock actual. Lo cumplen tanto la proyección por
// recorrido completo del libro (StockProjector) como la proyección materializada
// (MaterializedStock). Si cualquier lectura falla se devuelve error y ningún valor parcial.
type StockReader interface {
	CurrentStock(ctx context.Context, variantIDs ...string) (map[string]int64, error)
	// MaxStalenessSeconds atraso máximo de la lectura frente a la última escritura (0 = al día).
	MaxStalenessSeconds() int
}
