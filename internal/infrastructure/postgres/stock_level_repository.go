package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo proyección materializada del stock (usable con pool o tx).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador.
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// GetMany niveles de las variantes pedidas; las que no tienen fila no aparecen.
func (r *StockLevelRepo) GetMany(ctx context.Context, variantIDs []string) (map[string]*entity.StockLevel, error) {
	out := make(map[string]*entity.StockLevel, len(variantIDs))
	if len(variantIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT variant_id, quantity, updated_at FROM stock_levels WHERE variant_id = ANY($1::uuid[])`,
		variantIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock levels: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(&l.VariantID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		l.UpdatedAt = l.UpdatedAt.UTC()
		out[l.VariantID] = &l
	}
	return out, rows.Err()
}

// Apply suma delta al nivel (upsert).
func (r *StockLevelRepo) Apply(ctx context.Context, variantID string, delta int64) error {
	query := `
		INSERT INTO stock_levels (variant_id, quantity, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (variant_id) DO UPDATE
		SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = NOW()`
	if _, err := r.q.Exec(ctx, query, variantID, delta); err != nil {
		return fmt.Errorf("apply stock level: %w", err)
	}
	return nil
}

// Set fija el nivel (conciliación contra el libro).
func (r *StockLevelRepo) Set(ctx context.Context, variantID string, quantity int64) error {
	query := `
		INSERT INTO stock_levels (variant_id, quantity, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (variant_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, updated_at = NOW()`
	if _, err := r.q.Exec(ctx, query, variantID, quantity); err != nil {
		return fmt.Errorf("set stock level: %w", err)
	}
	return nil
}
