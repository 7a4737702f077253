package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, variant_id, direction, quantity, reason, COALESCE(reverses_id::text, ''), created_at`

// InventoryMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo INSERT y SELECT: no hay UPDATE ni DELETE.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento. Un segundo reverso del mismo movimiento viola el índice
// único de reverses_id y se devuelve como ErrConflict.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	m.CreatedAt = dbTime(m.CreatedAt)
	query := `
		INSERT INTO inventory_movements (id, variant_id, direction, quantity, reason, reverses_id, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7)`
	_, err := r.q.Exec(ctx, query, m.ID, m.VariantID, m.Direction, m.Quantity, m.Reason, m.ReversesID, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el movimiento %s ya fue revertido", domain.ErrConflict, m.ReversesID)
		}
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(ctx context.Context, id string) (*entity.InventoryMovement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id)
}

// GetReversalOf devuelve el reverso de movementID si existe.
func (r *InventoryMovementRepo) GetReversalOf(ctx context.Context, movementID string) (*entity.InventoryMovement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE reverses_id = $1`, movementID)
}

func (r *InventoryMovementRepo) getOne(ctx context.Context, query, id string) (*entity.InventoryMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByVariant página del libro de una variante (created_at DESC, id DESC).
func (r *InventoryMovementRepo) ListByVariant(ctx context.Context, variantID string, q repository.PageQuery) ([]*entity.InventoryMovement, error) {
	query, args := keyset(`SELECT `+movementColumns+` FROM inventory_movements WHERE variant_id = $1`, []any{variantID}, 2, "created_at", q)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by variant: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryMovement, 0, q.Limit)
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	if err := row.Scan(&m.ID, &m.VariantID, &m.Direction, &m.Quantity, &m.Reason, &m.ReversesID, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}
