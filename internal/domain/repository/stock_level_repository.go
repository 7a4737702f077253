package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// StockLevelRepository puerto de la proyección materializada de stock.
type StockLevelRepository interface {
	// GetMany devuelve los niveles existentes; las variantes sin fila no aparecen en el mapa.
	GetMany(ctx context.Context, variantIDs []string) (map[string]*entity.StockLevel, error)
	// Apply suma delta al nivel de la variante (crea la fila si no existe).
	Apply(ctx context.Context, variantID string, delta int64) error
	// Set fija el nivel (usado por la conciliación contra el libro).
	Set(ctx context.Context, variantID string, quantity int64) error
}
