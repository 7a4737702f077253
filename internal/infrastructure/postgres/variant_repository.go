package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, bottle_size_ml, unit_label, COALESCE(barcode, ''), price, min_stock, cost_per_ml, created_at`

// VariantRepo implementación de VariantRepository sobre PostgreSQL (usable con pool o tx).
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador.
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

// Create persiste una variante. Barcode vacío se guarda como NULL.
func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	v.CreatedAt = dbTime(v.CreatedAt)
	query := `
		INSERT INTO variants (id, product_id, bottle_size_ml, unit_label, barcode, price, min_stock, cost_per_ml, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.ProductID, v.BottleSizeML, v.UnitLabel, v.Barcode, v.Price, v.MinStock, nullableDecimal(v.CostPerML), v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("barcode "+v.Barcode, err)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, v.ProductID)
		}
		return fmt.Errorf("create variant: %w", err)
	}
	return nil
}

// GetByID obtiene una variante. (nil, nil) si no existe.
func (r *VariantRepo) GetByID(ctx context.Context, id string) (*entity.Variant, error) {
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
// Solo tiene efecto cuando el repo está atado a una tx.
func (r *VariantRepo) GetForUpdate(ctx context.Context, id string) (*entity.Variant, error) {
	return r.getOne(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1 FOR UPDATE`, id)
}

func (r *VariantRepo) getOne(ctx context.Context, query, id string) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return v, nil
}

// ListByProduct página de variantes de un producto.
func (r *VariantRepo) ListByProduct(ctx context.Context, productID string, q repository.PageQuery) ([]*entity.Variant, error) {
	query, args := keyset(`SELECT `+variantColumns+` FROM variants WHERE product_id = $1`, []any{productID}, 2, "created_at", q)
	return r.list(ctx, query, args...)
}

// List página de todas las variantes.
func (r *VariantRepo) List(ctx context.Context, q repository.PageQuery) ([]*entity.Variant, error) {
	query, args := keyset(`SELECT `+variantColumns+` FROM variants WHERE TRUE`, nil, 1, "created_at", q)
	return r.list(ctx, query, args...)
}

func (r *VariantRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Variant, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// UpdateCost escribe cost_per_ml (NULL si cost es nil). Idempotente.
func (r *VariantRepo) UpdateCost(ctx context.Context, variantID string, cost *decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE variants SET cost_per_ml = $2 WHERE id = $1`, variantID, nullableDecimal(cost))
	if err != nil {
		return fmt.Errorf("update variant cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: variante %s", domain.ErrNotFound, variantID)
	}
	return nil
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	var cost decimal.NullDecimal
	if err := row.Scan(&v.ID, &v.ProductID, &v.BottleSizeML, &v.UnitLabel, &v.Barcode, &v.Price, &v.MinStock, &cost, &v.CreatedAt); err != nil {
		return nil, err
	}
	if cost.Valid {
		c := cost.Decimal
		v.CostPerML = &c
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return &v, nil
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
